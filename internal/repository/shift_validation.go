package repository

import (
	"context"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// ShiftValidationDates 返回 [from, to] 区间内存在外部班次验证数据的日期集合。
// 这个信号只用来在日汇总里做佐证标记，不参与 delta 的计算
func (r *Repository) ShiftValidationDates(ctx context.Context, orgID int64, from, to domain.Date) (map[string]struct{}, error) {
	query := `
		SELECT DISTINCT day
		FROM shift_validation_days
		WHERE org_id = $1 AND day BETWEEN $2 AND $3
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(map[string]struct{})
	for rows.Next() {
		var day domain.Date
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		dates[day.String()] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}
