package baseline

import (
	"context"
	"fmt"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// 校验失败时返回给调用方的机器可读错误码
const (
	CodeNoRows              = "no_rows"
	CodeInvalidAssignmentID = "invalid_assignment_id"
	CodeInvalidRouteID      = "invalid_route_id"
)

// ValidationError 表示整批提交在任何写入发生之前就被拒绝
type ValidationError struct {
	Code string
}

func (e *ValidationError) Error() string {
	return e.Code
}

// ScopeError 表示有派工不在调用方的组织范围内，整批拒绝并列出越界的 ID
type ScopeError struct {
	RejectedAssignmentIDs []int64
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("assignment_not_in_org: %v", e.RejectedAssignmentIDs)
}

// Store 是基线写入器依赖的存储接口，由 repository 实现
type Store interface {
	// AssignmentIDsInOrg 返回 ids 中属于该组织的派工 ID 集合
	AssignmentIDsInOrg(ctx context.Context, orgID int64, ids []int64) (map[int64]struct{}, error)
	// ApplyBaselineBatch 在单个事务中执行 fn，fn 返回错误时整体回滚
	ApplyBaselineBatch(ctx context.Context, fn func(tx Tx) error) error
	// WindowsByAssignmentIDs 按起始日期从新到旧返回这些派工的全部窗口
	WindowsByAssignmentIDs(ctx context.Context, ids []int64) ([]*domain.BaselineWindow, error)
}

// Tx 是批次事务内可用的窗口操作
type Tx interface {
	// GetOpenWindow 返回该派工当前打开的窗口，不存在时返回 (nil, nil)
	GetOpenWindow(ctx context.Context, assignmentID int64) (*domain.BaselineWindow, error)
	// OverwriteOpenWindow 原地覆盖打开窗口的路线和七天计划
	OverwriteOpenWindow(ctx context.Context, w *domain.BaselineWindow) error
	// CloseWindow 把窗口的结束日期设置为 endDate
	CloseWindow(ctx context.Context, windowID int64, endDate domain.Date) error
	// InsertOpenWindow 插入一个新的打开窗口并回填 ID
	InsertOpenWindow(ctx context.Context, w *domain.BaselineWindow) error
}

// Row 是一次每周基线提交中针对单个派工的配置
type Row struct {
	AssignmentID   int64
	DefaultRouteID *int64
	Flags          domain.WeekFlags
}

// Params 是一次每周基线提交
type Params struct {
	OrgID        int64
	StartDate    domain.Date
	HoursPerDay  int
	UnitsPerHour int
	Rows         []Row
}

// Result 是写入成功后的回执：被改动的窗口 ID 加上一份刷新后的窗口读回
type Result struct {
	SavedWindowIDs []int64                  `json:"saved_window_ids"`
	Windows        []*domain.BaselineWindow `json:"refreshed_windows"`
}

// Writer 维护每个派工的基线窗口序列。
// 对每一行提交在三种情况中选一种执行：
// 起始日期与打开窗口相同时原地覆盖（同一周的幂等重交）；
// 起始日期不同的话先把旧窗口关到新起始日期的前一天再插入新窗口；
// 没有打开窗口时直接插入。整批在一个事务内完成
type Writer struct {
	store Store
}

func NewWriter(store Store) *Writer {
	return &Writer{store: store}
}

type action int

const (
	actionOverwrite action = iota
	actionCloseAndInsert
	actionInsert
)

// decide 是三分支状态机的纯判定部分
func decide(open *domain.BaselineWindow, start domain.Date) action {
	switch {
	case open == nil:
		return actionInsert
	case open.StartDate.Equal(start.Time):
		return actionOverwrite
	default:
		return actionCloseAndInsert
	}
}

func (wr *Writer) Apply(ctx context.Context, p Params) (*Result, error) {
	if len(p.Rows) == 0 {
		return nil, &ValidationError{Code: CodeNoRows}
	}
	if p.HoursPerDay <= 0 || p.UnitsPerHour <= 0 {
		return nil, fmt.Errorf("换算常数必须为正数: hoursPerDay=%d unitsPerHour=%d", p.HoursPerDay, p.UnitsPerHour)
	}

	assignmentIDs := make([]int64, 0, len(p.Rows))
	for _, row := range p.Rows {
		if row.AssignmentID <= 0 {
			return nil, &ValidationError{Code: CodeInvalidAssignmentID}
		}
		assignmentIDs = append(assignmentIDs, row.AssignmentID)
	}

	// 组织范围检查对整批只做一次，必须发生在任何写入之前
	inOrg, err := wr.store.AssignmentIDsInOrg(ctx, p.OrgID, assignmentIDs)
	if err != nil {
		return nil, err
	}
	rejected := make([]int64, 0)
	for _, id := range assignmentIDs {
		if _, ok := inOrg[id]; !ok {
			rejected = append(rejected, id)
		}
	}
	if len(rejected) > 0 {
		return nil, &ScopeError{RejectedAssignmentIDs: rejected}
	}

	savedIDs := make([]int64, 0, len(p.Rows))

	// 行按调用方提交的顺序处理；任何一行的存储错误会让整个事务回滚
	err = wr.store.ApplyBaselineBatch(ctx, func(tx Tx) error {
		for _, row := range p.Rows {
			plan := domain.DerivePlan(row.Flags, p.HoursPerDay, p.UnitsPerHour)

			open, err := tx.GetOpenWindow(ctx, row.AssignmentID)
			if err != nil {
				return err
			}

			switch decide(open, p.StartDate) {
			case actionOverwrite:
				open.DefaultRouteID = row.DefaultRouteID
				open.Days = plan
				if err := tx.OverwriteOpenWindow(ctx, open); err != nil {
					return err
				}
				savedIDs = append(savedIDs, open.ID)
			case actionCloseAndInsert:
				if err := tx.CloseWindow(ctx, open.ID, p.StartDate.AddDays(-1)); err != nil {
					return err
				}
				fallthrough
			case actionInsert:
				w := &domain.BaselineWindow{
					AssignmentID:   row.AssignmentID,
					StartDate:      p.StartDate,
					DefaultRouteID: row.DefaultRouteID,
					Days:           plan,
				}
				if err := tx.InsertOpenWindow(ctx, w); err != nil {
					return err
				}
				savedIDs = append(savedIDs, w.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 提交成功后读回这些派工的全部窗口供调用方核对
	windows, err := wr.store.WindowsByAssignmentIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}
	SortWindowsDesc(windows)

	return &Result{
		SavedWindowIDs: savedIDs,
		Windows:        windows,
	}, nil
}
