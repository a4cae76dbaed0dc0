package baseline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// fakeStore 用一个内存 map 模拟窗口表。
// ApplyBaselineBatch 在副本上执行，成功才替换原始数据，以此模拟事务回滚
type fakeStore struct {
	orgAssignments map[int64]map[int64]struct{}
	windows        map[int64]*domain.BaselineWindow
	nextID         int64

	failInsertAfter int // 第 n 次插入时返回错误，0 表示不注入失败
	insertCount     int
}

func newFakeStore(orgID int64, assignmentIDs ...int64) *fakeStore {
	set := make(map[int64]struct{})
	for _, id := range assignmentIDs {
		set[id] = struct{}{}
	}
	return &fakeStore{
		orgAssignments: map[int64]map[int64]struct{}{orgID: set},
		windows:        make(map[int64]*domain.BaselineWindow),
	}
}

func (s *fakeStore) AssignmentIDsInOrg(_ context.Context, orgID int64, ids []int64) (map[int64]struct{}, error) {
	inOrg := make(map[int64]struct{})
	for _, id := range ids {
		if _, ok := s.orgAssignments[orgID][id]; ok {
			inOrg[id] = struct{}{}
		}
	}
	return inOrg, nil
}

func (s *fakeStore) ApplyBaselineBatch(_ context.Context, fn func(tx Tx) error) error {
	clone := make(map[int64]*domain.BaselineWindow, len(s.windows))
	for id, w := range s.windows {
		copied := *w
		clone[id] = &copied
	}

	tx := &fakeTx{store: s, windows: clone}
	if err := fn(tx); err != nil {
		return err
	}

	s.windows = clone
	return nil
}

func (s *fakeStore) WindowsByAssignmentIDs(_ context.Context, ids []int64) ([]*domain.BaselineWindow, error) {
	out := []*domain.BaselineWindow{}
	for _, w := range s.windows {
		for _, id := range ids {
			if w.AssignmentID == id {
				copied := *w
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

type fakeTx struct {
	store   *fakeStore
	windows map[int64]*domain.BaselineWindow
}

func (t *fakeTx) GetOpenWindow(_ context.Context, assignmentID int64) (*domain.BaselineWindow, error) {
	for _, w := range t.windows {
		if w.AssignmentID == assignmentID && w.EndDate == nil {
			copied := *w
			return &copied, nil
		}
	}
	return nil, nil
}

func (t *fakeTx) OverwriteOpenWindow(_ context.Context, w *domain.BaselineWindow) error {
	existing, ok := t.windows[w.ID]
	if !ok {
		return errors.New("window not found")
	}
	existing.DefaultRouteID = w.DefaultRouteID
	existing.Days = w.Days
	existing.Version++
	return nil
}

func (t *fakeTx) CloseWindow(_ context.Context, windowID int64, endDate domain.Date) error {
	existing, ok := t.windows[windowID]
	if !ok {
		return errors.New("window not found")
	}
	existing.EndDate = &endDate
	existing.Version++
	return nil
}

func (t *fakeTx) InsertOpenWindow(_ context.Context, w *domain.BaselineWindow) error {
	t.store.insertCount++
	if t.store.failInsertAfter > 0 && t.store.insertCount >= t.store.failInsertAfter {
		return errors.New("storage failure")
	}

	t.store.nextID++
	w.ID = t.store.nextID
	w.CreatedAt = time.Now()
	w.Version = 1
	copied := *w
	t.windows[w.ID] = &copied
	return nil
}

func monFlags() domain.WeekFlags {
	var f domain.WeekFlags
	f[time.Monday] = true
	return f
}

func tueFlags() domain.WeekFlags {
	var f domain.WeekFlags
	f[time.Tuesday] = true
	return f
}

func params(rows ...Row) Params {
	return Params{
		OrgID:        1,
		StartDate:    domain.NewDate(2024, time.January, 8),
		HoursPerDay:  8,
		UnitsPerHour: 12,
		Rows:         rows,
	}
}

func TestApply_NoRows(t *testing.T) {
	writer := NewWriter(newFakeStore(1))

	_, err := writer.Apply(context.Background(), params())

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Code != CodeNoRows {
		t.Fatalf("expected no_rows validation error, got %v", err)
	}
}

func TestApply_InvalidAssignmentID(t *testing.T) {
	writer := NewWriter(newFakeStore(1))

	_, err := writer.Apply(context.Background(), params(Row{AssignmentID: 0, Flags: monFlags()}))

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) || validationErr.Code != CodeInvalidAssignmentID {
		t.Fatalf("expected invalid_assignment_id validation error, got %v", err)
	}
}

func TestApply_AssignmentNotInOrg(t *testing.T) {
	store := newFakeStore(1, 100)
	writer := NewWriter(store)

	_, err := writer.Apply(context.Background(), params(
		Row{AssignmentID: 100, Flags: monFlags()},
		Row{AssignmentID: 200, Flags: monFlags()},
		Row{AssignmentID: 300, Flags: monFlags()},
	))

	var scopeErr *ScopeError
	if !errors.As(err, &scopeErr) {
		t.Fatalf("expected scope error, got %v", err)
	}
	if len(scopeErr.RejectedAssignmentIDs) != 2 {
		t.Fatalf("expected 2 rejected ids, got %v", scopeErr.RejectedAssignmentIDs)
	}
	if scopeErr.RejectedAssignmentIDs[0] != 200 || scopeErr.RejectedAssignmentIDs[1] != 300 {
		t.Errorf("expected rejected ids [200 300], got %v", scopeErr.RejectedAssignmentIDs)
	}

	// 范围检查必须发生在任何写入之前
	if len(store.windows) != 0 {
		t.Error("expected no windows written when the batch is rejected")
	}
}

func TestApply_InsertWhenNoOpenWindow(t *testing.T) {
	store := newFakeStore(1, 100)
	writer := NewWriter(store)

	result, err := writer.Apply(context.Background(), params(Row{AssignmentID: 100, Flags: monFlags()}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.SavedWindowIDs) != 1 {
		t.Fatalf("expected 1 saved window, got %d", len(result.SavedWindowIDs))
	}
	if len(result.Windows) != 1 {
		t.Fatalf("expected 1 window in read-back, got %d", len(result.Windows))
	}

	w := result.Windows[0]
	if !w.StartDate.Equal(domain.NewDate(2024, time.January, 8).Time) {
		t.Errorf("expected start date 2024-01-08, got %s", w.StartDate)
	}
	if w.EndDate != nil {
		t.Error("expected the new window to be open")
	}
	if !w.Days[time.Monday].On || w.Days[time.Monday].Hours != 8 || w.Days[time.Monday].Units != 96 {
		t.Errorf("expected mon on with 8 hours and 96 units, got %+v", w.Days[time.Monday])
	}
	if w.Days[time.Tuesday].On || w.Days[time.Tuesday].Hours != 0 {
		t.Errorf("expected tue off with 0 hours, got %+v", w.Days[time.Tuesday])
	}
}

func TestApply_SameStartDateOverwritesInPlace(t *testing.T) {
	store := newFakeStore(1, 100)
	writer := NewWriter(store)

	first, err := writer.Apply(context.Background(), params(Row{AssignmentID: 100, Flags: monFlags()}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 同一个起始日期再交一次，哪怕开关不同也不允许出现第二个窗口
	second, err := writer.Apply(context.Background(), params(Row{AssignmentID: 100, Flags: tueFlags()}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.windows) != 1 {
		t.Fatalf("expected exactly 1 window after idempotent resubmission, got %d", len(store.windows))
	}
	if first.SavedWindowIDs[0] != second.SavedWindowIDs[0] {
		t.Error("expected the same window id to be touched on resubmission")
	}

	w := second.Windows[0]
	if w.Days[time.Monday].On || !w.Days[time.Tuesday].On {
		t.Errorf("expected the open window to carry the new flags, got %+v", w.Days)
	}
}

func TestApply_NewStartDateClosesAndReopens(t *testing.T) {
	store := newFakeStore(1, 100)
	writer := NewWriter(store)

	p1 := params(Row{AssignmentID: 100, Flags: monFlags()})
	if _, err := writer.Apply(context.Background(), p1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p2 := params(Row{AssignmentID: 100, Flags: tueFlags()})
	p2.StartDate = domain.NewDate(2024, time.January, 15)
	result, err := writer.Apply(context.Background(), p2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Windows) != 2 {
		t.Fatalf("expected 2 windows after close-and-reopen, got %d", len(result.Windows))
	}

	// 读回按起始日期从新到旧排序
	open, closed := result.Windows[0], result.Windows[1]
	if open.EndDate != nil {
		t.Fatal("expected the most recent window to be open")
	}
	if !open.StartDate.Equal(domain.NewDate(2024, time.January, 15).Time) {
		t.Errorf("expected new window to start 2024-01-15, got %s", open.StartDate)
	}
	if closed.EndDate == nil {
		t.Fatal("expected the prior window to be closed")
	}
	if !closed.EndDate.Equal(domain.NewDate(2024, time.January, 14).Time) {
		t.Errorf("expected prior window to close at 2024-01-14, got %s", closed.EndDate)
	}
}

func TestApply_AtMostOneOpenWindowAfterManySubmissions(t *testing.T) {
	store := newFakeStore(1, 100)
	writer := NewWriter(store)

	starts := []domain.Date{
		domain.NewDate(2024, time.January, 8),
		domain.NewDate(2024, time.January, 8),
		domain.NewDate(2024, time.January, 15),
		domain.NewDate(2024, time.January, 22),
		domain.NewDate(2024, time.January, 22),
	}

	for _, start := range starts {
		p := params(Row{AssignmentID: 100, Flags: monFlags()})
		p.StartDate = start
		if _, err := writer.Apply(context.Background(), p); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	openCount := 0
	for _, w := range store.windows {
		if w.EndDate == nil {
			openCount++
		}
	}
	if openCount != 1 {
		t.Fatalf("expected exactly 1 open window, got %d", openCount)
	}

	// 任意两个窗口的生效区间不允许重叠
	windows, _ := store.WindowsByAssignmentIDs(context.Background(), []int64{100})
	SortWindowsDesc(windows)
	for i := 1; i < len(windows); i++ {
		newer, older := windows[i-1], windows[i]
		if older.EndDate == nil {
			t.Fatal("expected only the most recent window to be open")
		}
		if !older.EndDate.Before(newer.StartDate.Time) {
			t.Errorf("windows overlap: %s..%s vs %s", older.StartDate, older.EndDate, newer.StartDate)
		}
	}
}

func TestApply_MidBatchFailureRollsBackWholeBatch(t *testing.T) {
	store := newFakeStore(1, 100, 101, 102)
	store.failInsertAfter = 2
	writer := NewWriter(store)

	_, err := writer.Apply(context.Background(), params(
		Row{AssignmentID: 100, Flags: monFlags()},
		Row{AssignmentID: 101, Flags: monFlags()},
		Row{AssignmentID: 102, Flags: monFlags()},
	))
	if err == nil {
		t.Fatal("expected the injected storage failure to surface")
	}

	// 整批回滚，不允许留下写了一半的每周计划
	if len(store.windows) != 0 {
		t.Fatalf("expected no windows after rollback, got %d", len(store.windows))
	}
}

func TestDecide(t *testing.T) {
	start := domain.NewDate(2024, time.January, 8)

	if decide(nil, start) != actionInsert {
		t.Error("expected insert when no open window exists")
	}

	open := &domain.BaselineWindow{StartDate: start}
	if decide(open, start) != actionOverwrite {
		t.Error("expected overwrite when start dates match")
	}

	later := domain.NewDate(2024, time.January, 15)
	if decide(open, later) != actionCloseAndInsert {
		t.Error("expected close-and-insert when start dates differ")
	}
}
