package domain

// RosterRecord 是花名册快照中的一行，由花名册子系统维护，对本核心只读
type RosterRecord struct {
	AssignmentID       int64  `json:"assignment_id"`
	PersonID           int64  `json:"person_id"`
	OrgID              int64  `json:"org_id"`
	DisplayName        string `json:"display_name"`
	PositionLabel      string `json:"position_label"`
	TechnicianCode     string `json:"technician_code"`
	LeaderAssignmentID *int64 `json:"leader_assignment_id"`
	LeaderPersonID     *int64 `json:"leader_person_id"`
	LeaderName         string `json:"leader_name"`
	IsActive           bool   `json:"is_active"`
	EndDate            *Date  `json:"end_date"` // 为空表示派工未终止
}

// RosterRole 是角色分类的结果，和就绪判定相互独立
type RosterRole string

const (
	RoleTechnician RosterRole = "technician"
	RoleSupervisor RosterRole = "supervisor"
	RoleOther      RosterRole = "other"
)
