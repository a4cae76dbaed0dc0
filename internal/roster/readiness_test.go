package roster

import (
	"testing"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

func int64Ptr(v int64) *int64 { return &v }

// readyRecord 构造一条四个条件全满足的技师行，测试再按需破坏单个条件
func readyRecord() *domain.RosterRecord {
	return &domain.RosterRecord{
		AssignmentID:   100,
		PersonID:       7,
		OrgID:          1,
		DisplayName:    "Dana Ruiz",
		PositionLabel:  "Field Technician",
		TechnicianCode: "T-0042",
		LeaderPersonID: int64Ptr(9),
		LeaderName:     "Morgan Yee",
		IsActive:       true,
	}
}

func membersWith(ids ...int64) Membership {
	m := make(Membership)
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func TestIsPlannable_AllConditionsMet(t *testing.T) {
	if !IsPlannable(readyRecord(), membersWith(7)) {
		t.Error("expected a fully populated active record to be plannable")
	}
}

func TestIsPlannable_EachMissingConditionExcludes(t *testing.T) {
	members := membersWith(7)

	tests := []struct {
		name   string
		mutate func(rec *domain.RosterRecord) Membership
	}{
		{
			name: "blank display name",
			mutate: func(rec *domain.RosterRecord) Membership {
				rec.DisplayName = "   "
				return members
			},
		},
		{
			name: "person not in membership",
			mutate: func(rec *domain.RosterRecord) Membership {
				return membersWith(8)
			},
		},
		{
			name: "no leader reference at all",
			mutate: func(rec *domain.RosterRecord) Membership {
				rec.LeaderAssignmentID = nil
				rec.LeaderPersonID = nil
				rec.LeaderName = ""
				return members
			},
		},
		{
			name: "missing assignment id",
			mutate: func(rec *domain.RosterRecord) Membership {
				rec.AssignmentID = 0
				return members
			},
		},
		{
			name: "inactive assignment",
			mutate: func(rec *domain.RosterRecord) Membership {
				rec.IsActive = false
				return members
			},
		},
		{
			name: "terminated assignment",
			mutate: func(rec *domain.RosterRecord) Membership {
				end := domain.NewDate(2023, time.December, 31)
				rec.EndDate = &end
				return members
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := readyRecord()
			m := tt.mutate(rec)
			if IsPlannable(rec, m) {
				t.Error("expected the record to be excluded")
			}
		})
	}
}

func TestHasLeader_AnyReferenceSuffices(t *testing.T) {
	rec := readyRecord()
	rec.LeaderPersonID = nil
	rec.LeaderName = ""
	rec.LeaderAssignmentID = int64Ptr(55)
	if !HasLeader(rec) {
		t.Error("expected leader assignment id alone to suffice")
	}

	rec = readyRecord()
	rec.LeaderAssignmentID = nil
	rec.LeaderPersonID = nil
	rec.LeaderName = " Morgan Yee "
	if !HasLeader(rec) {
		t.Error("expected a non-blank leader name alone to suffice")
	}

	rec.LeaderName = "   "
	if HasLeader(rec) {
		t.Error("expected a blank leader name to count as missing")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name           string
		positionLabel  string
		technicianCode string
		want           domain.RosterRole
	}{
		{"technician label", "Field Technician", "", domain.RoleTechnician},
		{"technician code only", "Crew", "T-0042", domain.RoleTechnician},
		{"supervisor label", "Area Supervisor", "", domain.RoleSupervisor},
		{"supervisor label wins over code", "Supervisor", "T-0042", domain.RoleSupervisor},
		{"neither", "Dispatcher", "", domain.RoleOther},
		{"blank code is not a technician", "Crew", "   ", domain.RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := readyRecord()
			rec.PositionLabel = tt.positionLabel
			rec.TechnicianCode = tt.technicianCode
			if got := Classify(rec); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPlannableTechnicians(t *testing.T) {
	tech := readyRecord()

	supervisor := readyRecord()
	supervisor.AssignmentID = 101
	supervisor.PersonID = 8
	supervisor.PositionLabel = "Supervisor"

	notReady := readyRecord()
	notReady.AssignmentID = 102
	notReady.PersonID = 12
	notReady.IsActive = false

	records := []*domain.RosterRecord{tech, supervisor, notReady}
	got := PlannableTechnicians(records, membersWith(7, 8, 12))

	if len(got) != 1 {
		t.Fatalf("expected 1 plannable technician, got %d", len(got))
	}
	if got[0].AssignmentID != 100 {
		t.Errorf("expected assignment 100, got %d", got[0].AssignmentID)
	}
}
