package domain

import "time"

// PlannerRole 是后台账号的角色，决定能否提交基线
type PlannerRole string

const (
	PlannerRoleViewer  PlannerRole = "viewer"
	PlannerRolePlanner PlannerRole = "planner"
	PlannerRoleAdmin   PlannerRole = "admin"
)

// Planner 是排班后台的登录账号
type Planner struct {
	ID           int64       `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	FullName     string      `json:"fullName"`
	Email        string      `json:"email"`
	Role         PlannerRole `json:"role"`
	OrgID        int64       `json:"orgID"`
	IsActive     bool        `json:"isActive"`
	CreatedAt    time.Time   `json:"createdAt"`
	Version      int32       `json:"-"`
}
