package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
	"github.com/TedCarlson/insight-sub002/internal/forecast"
)

// ResolveFiscalMonth 返回覆盖锚点日期的财务月。
// 财务日历由外部系统维护，这里只做查找
func (r *Repository) ResolveFiscalMonth(ctx context.Context, anchor domain.Date) (*domain.FiscalMonth, error) {
	query := `
		SELECT id, label, start_date, end_date
		FROM fiscal_months
		WHERE start_date <= $1 AND end_date >= $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	month := &domain.FiscalMonth{}
	dst := []any{&month.ID, &month.Label, &month.StartDate, &month.EndDate}
	if err := r.dbpool.QueryRowContext(ctx, query, anchor).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, forecast.ErrFiscalMonthUnresolved
		}
		return nil, err
	}

	return month, nil
}
