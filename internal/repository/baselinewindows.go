package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/baseline"
	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// windowColumns 的列顺序必须和 scanWindow 里的 dst 保持一致
const windowColumns = `
	id,
	assignment_id,
	start_date,
	end_date,
	default_route_id,
	sun_on, sun_hours, sun_units,
	mon_on, mon_hours, mon_units,
	tue_on, tue_hours, tue_units,
	wed_on, wed_hours, wed_units,
	thu_on, thu_hours, thu_units,
	fri_on, fri_hours, fri_units,
	sat_on, sat_hours, sat_units,
	created_at,
	version
`

type rowScanner interface {
	Scan(dst ...any) error
}

func scanWindow(s rowScanner) (*domain.BaselineWindow, error) {
	var w domain.BaselineWindow
	var endDate sql.NullTime
	var routeID sql.NullInt64

	dst := []any{&w.ID, &w.AssignmentID, &w.StartDate, &endDate, &routeID}
	for i := range w.Days {
		dst = append(dst, &w.Days[i].On, &w.Days[i].Hours, &w.Days[i].Units)
	}
	dst = append(dst, &w.CreatedAt, &w.Version)

	if err := s.Scan(dst...); err != nil {
		return nil, err
	}

	if endDate.Valid {
		d := domain.DateOf(endDate.Time, time.UTC)
		w.EndDate = &d
	}
	if routeID.Valid {
		w.DefaultRouteID = &routeID.Int64
	}

	return &w, nil
}

// AssignmentIDsInOrg 返回 ids 中确实属于该组织的派工 ID 集合，
// 供写入器在任何写入之前做一次整批的组织范围检查
func (r *Repository) AssignmentIDsInOrg(ctx context.Context, orgID int64, ids []int64) (map[int64]struct{}, error) {
	query := `
		SELECT assignment_id FROM roster_snapshot
		WHERE org_id = $1 AND assignment_id = ANY($2)
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	inOrg := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		inOrg[id] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return inOrg, nil
}

// ApplyBaselineBatch 在单个事务中执行整批基线写入，
// 任何一行失败都会整体回滚，避免留下写了一半的每周计划
func (r *Repository) ApplyBaselineBatch(ctx context.Context, fn func(tx baseline.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&windowTx{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}

// windowTx 是批次事务内的窗口操作
type windowTx struct {
	tx *sql.Tx
}

func (t *windowTx) GetOpenWindow(ctx context.Context, assignmentID int64) (*domain.BaselineWindow, error) {
	// FOR UPDATE 锁住打开的窗口，防止并发提交对同一个派工交错读写
	query := `
		SELECT ` + windowColumns + `
		FROM baseline_windows
		WHERE assignment_id = $1 AND end_date IS NULL
		FOR UPDATE
	`

	w, err := scanWindow(t.tx.QueryRowContext(ctx, query, assignmentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return w, nil
}

func (t *windowTx) OverwriteOpenWindow(ctx context.Context, w *domain.BaselineWindow) error {
	query := `
		UPDATE baseline_windows
		SET
			default_route_id = $1,
			sun_on = $2, sun_hours = $3, sun_units = $4,
			mon_on = $5, mon_hours = $6, mon_units = $7,
			tue_on = $8, tue_hours = $9, tue_units = $10,
			wed_on = $11, wed_hours = $12, wed_units = $13,
			thu_on = $14, thu_hours = $15, thu_units = $16,
			fri_on = $17, fri_hours = $18, fri_units = $19,
			sat_on = $20, sat_hours = $21, sat_units = $22,
			version = version + 1
		WHERE id = $23 AND version = $24
		RETURNING version
	`

	params := []any{w.DefaultRouteID}
	for i := range w.Days {
		params = append(params, w.Days[i].On, w.Days[i].Hours, w.Days[i].Units)
	}
	params = append(params, w.ID, w.Version)

	return t.tx.QueryRowContext(ctx, query, params...).Scan(&w.Version)
}

func (t *windowTx) CloseWindow(ctx context.Context, windowID int64, endDate domain.Date) error {
	query := `
		UPDATE baseline_windows
		SET end_date = $1, version = version + 1
		WHERE id = $2
	`

	if _, err := t.tx.ExecContext(ctx, query, endDate, windowID); err != nil {
		return err
	}

	return nil
}

func (t *windowTx) InsertOpenWindow(ctx context.Context, w *domain.BaselineWindow) error {
	// 部分唯一索引 baseline_windows_one_open_per_assignment
	// （UNIQUE (assignment_id) WHERE end_date IS NULL）保证每个派工至多一个打开窗口，
	// 写入器没先关旧窗口的话这里会直接报唯一冲突
	query := `
		INSERT INTO baseline_windows (
			assignment_id,
			start_date,
			default_route_id,
			sun_on, sun_hours, sun_units,
			mon_on, mon_hours, mon_units,
			tue_on, tue_hours, tue_units,
			wed_on, wed_hours, wed_units,
			thu_on, thu_hours, thu_units,
			fri_on, fri_hours, fri_units,
			sat_on, sat_hours, sat_units
		) VALUES (
			$1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			$10, $11, $12,
			$13, $14, $15,
			$16, $17, $18,
			$19, $20, $21,
			$22, $23, $24
		)
		RETURNING id, created_at, version
	`

	params := []any{w.AssignmentID, w.StartDate, w.DefaultRouteID}
	for i := range w.Days {
		params = append(params, w.Days[i].On, w.Days[i].Hours, w.Days[i].Units)
	}

	return t.tx.QueryRowContext(ctx, query, params...).Scan(&w.ID, &w.CreatedAt, &w.Version)
}

// WindowsByAssignmentIDs 返回这些派工的全部窗口，按起始日期从新到旧
func (r *Repository) WindowsByAssignmentIDs(ctx context.Context, ids []int64) ([]*domain.BaselineWindow, error) {
	if len(ids) == 0 {
		return []*domain.BaselineWindow{}, nil
	}

	query := `
		SELECT ` + windowColumns + `
		FROM baseline_windows
		WHERE assignment_id = ANY($1)
		ORDER BY start_date DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	windows := []*domain.BaselineWindow{}
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return windows, nil
}
