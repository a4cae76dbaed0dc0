package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/TedCarlson/insight-sub002/internal/baseline"
	"github.com/TedCarlson/insight-sub002/internal/domain"
	"github.com/TedCarlson/insight-sub002/internal/roster"
)

// GetPlannableRoster 返回组织的花名册快照，附带角色分类和可排班判定，
// 也就是提交每周计划之前管理界面上列出来的那份名单
func (h *Handler) GetPlannableRoster(w http.ResponseWriter, r *http.Request) {
	orgID := orgScope(r)

	records, err := h.repository.RosterSnapshot(r.Context(), orgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	members, err := h.repository.OrgMembership(r.Context(), orgID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	type rosterRow struct {
		*domain.RosterRecord
		Role      domain.RosterRole `json:"role"`
		Plannable bool              `json:"plannable"`
	}

	rows := make([]rosterRow, len(records))
	for i, rec := range records {
		rows[i] = rosterRow{
			RosterRecord: rec,
			Role:         roster.Classify(rec),
			Plannable:    roster.IsPlannable(rec, members),
		}
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"records": rows})
}

// GetAssignmentWindows 返回单个派工的全部基线窗口（从新到旧）
func (h *Handler) GetAssignmentWindows(w http.ResponseWriter, r *http.Request) {
	assignmentIDParam := chi.URLParam(r, "assignmentID")
	assignmentID, err := strconv.ParseInt(assignmentIDParam, 10, 64)
	if err != nil || assignmentID <= 0 {
		h.errorCode(w, r, http.StatusBadRequest, baseline.CodeInvalidAssignmentID)
		return
	}

	// 派工必须在调用方的组织范围内
	inOrg, err := h.repository.AssignmentIDsInOrg(r.Context(), orgScope(r), []int64{assignmentID})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if _, ok := inOrg[assignmentID]; !ok {
		h.writeJSON(w, r, http.StatusForbidden, map[string]any{
			"error":                   "assignment_not_in_org",
			"rejected_assignment_ids": []int64{assignmentID},
		})
		return
	}

	windows, err := h.repository.WindowsByAssignmentIDs(r.Context(), []int64{assignmentID})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{"windows": windows})
}
