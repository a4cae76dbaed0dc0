package repository

import (
	"context"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// QuotaHoursByWeekday 把该财务月所有需求来源的配额工时按星期几求和，
// 返回一个七元素的工时向量（下标与 time.Weekday 一致）
func (r *Repository) QuotaHoursByWeekday(ctx context.Context, fiscalMonthID int64) (domain.WeekHours, error) {
	query := `
		SELECT weekday, SUM(hours)
		FROM quota_figures
		WHERE fiscal_month_id = $1
		GROUP BY weekday
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var quota domain.WeekHours

	rows, err := r.dbpool.QueryContext(ctx, query, fiscalMonthID)
	if err != nil {
		return quota, err
	}
	defer rows.Close()

	for rows.Next() {
		var weekday int32
		var hours float64
		if err := rows.Scan(&weekday, &hours); err != nil {
			return quota, err
		}
		if weekday >= 0 && weekday <= 6 {
			quota[weekday] = hours
		}
	}

	if err := rows.Err(); err != nil {
		return quota, err
	}

	return quota, nil
}
