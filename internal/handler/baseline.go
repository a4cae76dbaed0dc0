package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/TedCarlson/insight-sub002/internal/baseline"
	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// ApplyWeeklyBaseline 处理每周基线提交。
// 所有校验失败都发生在任何写入之前并整批拒绝；写入本身在一个事务内完成
func (h *Handler) ApplyWeeklyBaseline(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate    string `json:"start_date"`
		HoursPerDay  int    `json:"hoursPerDay" validate:"omitempty,min=1"`
		UnitsPerHour int    `json:"unitsPerHour" validate:"omitempty,min=1"`
		Rows         []struct {
			AssignmentID   string           `json:"assignment_id"`
			DefaultRouteID *string          `json:"default_route_id"`
			Days           domain.WeekFlags `json:"days"`
		} `json:"rows"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if len(req.Rows) == 0 {
		h.errorCode(w, r, http.StatusBadRequest, baseline.CodeNoRows)
		return
	}

	// 换算常数缺省值来自配置
	if req.HoursPerDay == 0 {
		req.HoursPerDay = h.config.Scheduling.HoursPerDay
	}
	if req.UnitsPerHour == 0 {
		req.UnitsPerHour = h.config.Scheduling.UnitsPerHour
	}

	// 起始日期缺省为组织时区下的今天
	startDate := domain.DateOf(time.Now(), h.orgLocation)
	if req.StartDate != "" {
		parsed, err := domain.ParseDate(req.StartDate)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		startDate = parsed
	}

	// 逐行解析标识符，任何一行解析失败都拒绝整批
	rows := make([]baseline.Row, len(req.Rows))
	for i, row := range req.Rows {
		assignmentID, err := strconv.ParseInt(row.AssignmentID, 10, 64)
		if err != nil || assignmentID <= 0 {
			h.errorCode(w, r, http.StatusBadRequest, baseline.CodeInvalidAssignmentID)
			return
		}

		var routeID *int64
		if row.DefaultRouteID != nil {
			parsed, err := strconv.ParseInt(*row.DefaultRouteID, 10, 64)
			if err != nil || parsed <= 0 {
				h.errorCode(w, r, http.StatusBadRequest, baseline.CodeInvalidRouteID)
				return
			}
			routeID = &parsed
		}

		rows[i] = baseline.Row{
			AssignmentID:   assignmentID,
			DefaultRouteID: routeID,
			Flags:          row.Days,
		}
	}

	result, err := h.writer.Apply(r.Context(), baseline.Params{
		OrgID:        orgScope(r),
		StartDate:    startDate,
		HoursPerDay:  req.HoursPerDay,
		UnitsPerHour: req.UnitsPerHour,
		Rows:         rows,
	})
	if err != nil {
		var validationErr *baseline.ValidationError
		var scopeErr *baseline.ScopeError
		switch {
		case errors.As(err, &validationErr):
			h.errorCode(w, r, http.StatusBadRequest, validationErr.Code)
		case errors.As(err, &scopeErr):
			h.writeJSON(w, r, http.StatusForbidden, map[string]any{
				"error":                   "assignment_not_in_org",
				"rejected_assignment_ids": scopeErr.RejectedAssignmentIDs,
			})
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 基线变了，之前缓存的预测作废
	h.invalidateForecastCache(r.Context(), orgScope(r))

	// 通知运营邮箱，失败只记日志不影响已提交的结果
	h.publishBaselineApplied(r, startDate, len(rows), len(result.SavedWindowIDs))

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"saved_window_ids":  result.SavedWindowIDs,
		"refreshed_windows": result.Windows,
	})
}

func (h *Handler) publishBaselineApplied(r *http.Request, startDate domain.Date, assignmentCount, windowCount int) {
	plannerName := ""
	if sub, err := strconv.ParseInt(r.Context().Value(SubCtxKey).(string), 10, 64); err == nil {
		if planner, err := h.repository.GetPlannerByID(sub); err == nil {
			plannerName = planner.FullName
		}
	}

	msg := domain.NotifyMessage{
		Type: "baseline_applied",
		To:   h.config.Email.OpsMailbox,
		Data: domain.BaselineAppliedData{
			OrgID:           orgScope(r),
			PlannerName:     plannerName,
			StartDate:       startDate.String(),
			AssignmentCount: assignmentCount,
			WindowCount:     windowCount,
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("通知消息序列化失败", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.notifyChannel.PublishWithContext(
		ctx,
		"",
		"notify_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Warn("无法投递基线提交通知", "error", err)
	}
}
