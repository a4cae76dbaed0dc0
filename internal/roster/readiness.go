package roster

import (
	"strings"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// Membership 是某组织当前在册人员的 person ID 集合，由协作方提供
type Membership map[int64]struct{}

// HasPerson 判断快照行上是否存在有效的人员信息（展示名非空白）
func HasPerson(rec *domain.RosterRecord) bool {
	return strings.TrimSpace(rec.DisplayName) != ""
}

// HasMembership 判断快照行上的人员是否在组织当前的在册集合中
func HasMembership(rec *domain.RosterRecord, members Membership) bool {
	_, ok := members[rec.PersonID]
	return ok
}

// HasLeader 判断快照行上是否存在负责人信息。
// 三种引用任意一种存在即可：负责人派工 ID、负责人 person ID、或者非空白的负责人姓名兜底
func HasLeader(rec *domain.RosterRecord) bool {
	if rec.LeaderAssignmentID != nil || rec.LeaderPersonID != nil {
		return true
	}
	return strings.TrimSpace(rec.LeaderName) != ""
}

// HasActiveAssignment 判断派工是否有效且未终止
func HasActiveAssignment(rec *domain.RosterRecord) bool {
	return rec.AssignmentID > 0 && rec.IsActive && rec.EndDate == nil
}

// IsPlannable 是"可排班"判定（POLA-ready）：
// 人员、在册、负责人、有效派工四个条件取逻辑与，缺任何一个都不进可排班集合
func IsPlannable(rec *domain.RosterRecord, members Membership) bool {
	return HasPerson(rec) &&
		HasMembership(rec, members) &&
		HasLeader(rec) &&
		HasActiveAssignment(rec)
}

// Classify 把快照行分成主管和技师两类，与就绪判定相互独立。
// 职位标签命中 supervisor 的优先算主管；否则标签命中 technician
// 或者存在非空白的技师编号的算技师
func Classify(rec *domain.RosterRecord) domain.RosterRole {
	label := strings.ToLower(strings.TrimSpace(rec.PositionLabel))
	if strings.Contains(label, "supervisor") {
		return domain.RoleSupervisor
	}
	if strings.Contains(label, "technician") || strings.TrimSpace(rec.TechnicianCode) != "" {
		return domain.RoleTechnician
	}
	return domain.RoleOther
}

// PlannableTechnicians 先做角色分类再做就绪过滤，返回可排班的技师行
func PlannableTechnicians(records []*domain.RosterRecord, members Membership) []*domain.RosterRecord {
	out := make([]*domain.RosterRecord, 0, len(records))
	for _, rec := range records {
		if Classify(rec) != domain.RoleTechnician {
			continue
		}
		if IsPlannable(rec, members) {
			out = append(out, rec)
		}
	}
	return out
}
