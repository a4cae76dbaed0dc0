package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
	"github.com/TedCarlson/insight-sub002/internal/roster"
)

// RosterSnapshot 返回该组织的花名册快照，快照由花名册子系统维护，这里只读
func (r *Repository) RosterSnapshot(ctx context.Context, orgID int64) ([]*domain.RosterRecord, error) {
	query := `
		SELECT
			assignment_id,
			person_id,
			org_id,
			display_name,
			position_label,
			technician_code,
			leader_assignment_id,
			leader_person_id,
			leader_name,
			is_active,
			end_date
		FROM roster_snapshot
		WHERE org_id = $1
		ORDER BY assignment_id
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.RosterRecord{}
	for rows.Next() {
		var rec domain.RosterRecord
		var leaderAssignmentID, leaderPersonID sql.NullInt64
		var endDate sql.NullTime

		dst := []any{
			&rec.AssignmentID,
			&rec.PersonID,
			&rec.OrgID,
			&rec.DisplayName,
			&rec.PositionLabel,
			&rec.TechnicianCode,
			&leaderAssignmentID,
			&leaderPersonID,
			&rec.LeaderName,
			&rec.IsActive,
			&endDate,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if leaderAssignmentID.Valid {
			rec.LeaderAssignmentID = &leaderAssignmentID.Int64
		}
		if leaderPersonID.Valid {
			rec.LeaderPersonID = &leaderPersonID.Int64
		}
		if endDate.Valid {
			d := domain.DateOf(endDate.Time, time.UTC)
			rec.EndDate = &d
		}

		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// OrgMembership 返回组织当前在册人员的 person ID 集合
func (r *Repository) OrgMembership(ctx context.Context, orgID int64) (roster.Membership, error) {
	query := `
		SELECT person_id FROM org_members WHERE org_id = $1
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make(roster.Membership)
	for rows.Next() {
		var personID int64
		if err := rows.Scan(&personID); err != nil {
			return nil, err
		}
		members[personID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}
