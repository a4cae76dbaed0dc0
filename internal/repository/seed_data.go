package repository

import (
	"context"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// 以下写入只给 cmd/seed 造数据用。
// 花名册、财务日历、配额和班次验证在生产环境都由各自的上游系统维护

func (r *Repository) InsertRosterRecord(rec *domain.RosterRecord) error {
	query := `
		INSERT INTO roster_snapshot (
			assignment_id, person_id, org_id, display_name, position_label,
			technician_code, leader_assignment_id, leader_person_id, leader_name,
			is_active, end_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var endDate any
	if rec.EndDate != nil {
		endDate = rec.EndDate.Time
	}

	params := []any{
		rec.AssignmentID, rec.PersonID, rec.OrgID, rec.DisplayName, rec.PositionLabel,
		rec.TechnicianCode, rec.LeaderAssignmentID, rec.LeaderPersonID, rec.LeaderName,
		rec.IsActive, endDate,
	}
	if _, err := r.dbpool.ExecContext(ctx, query, params...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) InsertOrgMember(orgID int64, personID int64) error {
	query := `
		INSERT INTO org_members (org_id, person_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, orgID, personID); err != nil {
		return err
	}

	return nil
}

func (r *Repository) InsertFiscalMonth(month *domain.FiscalMonth) error {
	query := `
		INSERT INTO fiscal_months (label, start_date, end_date)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return r.dbpool.QueryRowContext(ctx, query, month.Label, month.StartDate, month.EndDate).Scan(&month.ID)
}

func (r *Repository) InsertQuotaFigure(fiscalMonthID int64, weekday int32, hours float64, source string) error {
	query := `
		INSERT INTO quota_figures (fiscal_month_id, weekday, hours, source)
		VALUES ($1, $2, $3, $4)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, fiscalMonthID, weekday, hours, source); err != nil {
		return err
	}

	return nil
}

func (r *Repository) InsertShiftValidationDay(orgID int64, day domain.Date) error {
	query := `
		INSERT INTO shift_validation_days (org_id, day)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, orgID, day); err != nil {
		return err
	}

	return nil
}
