package baseline

import (
	"testing"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

func datePtr(d domain.Date) *domain.Date {
	return &d
}

func window(assignmentID int64, start domain.Date, end *domain.Date, flags domain.WeekFlags) *domain.BaselineWindow {
	return &domain.BaselineWindow{
		AssignmentID: assignmentID,
		StartDate:    start,
		EndDate:      end,
		Days:         domain.DerivePlan(flags, 8, 12),
	}
}

func TestIsOnForDate_NoWindowsDefaultsOn(t *testing.T) {
	// 没有任何窗口覆盖时必须默认排班，这是有意的产品兜底而不是数据错误
	d := domain.NewDate(2024, time.January, 9)

	if !IsOnForDate(nil, d) {
		t.Error("expected default on when the assignment has no windows at all")
	}

	past := window(1, domain.NewDate(2024, time.February, 1), nil, domain.WeekFlags{})
	if !IsOnForDate([]*domain.BaselineWindow{past}, d) {
		t.Error("expected default on when no window covers the target date")
	}
}

func TestIsOnForDate_FlagOfCoveringWindow(t *testing.T) {
	// 2024-01-09 是周二
	tue := domain.NewDate(2024, time.January, 9)

	monOnly := domain.WeekFlags{}
	monOnly[time.Monday] = true
	w := window(1, domain.NewDate(2024, time.January, 8), nil, monOnly)

	if IsOnForDate([]*domain.BaselineWindow{w}, tue) {
		t.Error("expected off: covering window has tue flag unset")
	}

	tueOnly := domain.WeekFlags{}
	tueOnly[time.Tuesday] = true
	w2 := window(1, domain.NewDate(2024, time.January, 8), nil, tueOnly)

	if !IsOnForDate([]*domain.BaselineWindow{w2}, tue) {
		t.Error("expected on: covering window has tue flag set")
	}
}

func TestIsOnForDate_MostRecentWindowWins(t *testing.T) {
	allOn := domain.WeekFlags{true, true, true, true, true, true, true}
	allOff := domain.WeekFlags{}

	closed := window(1,
		domain.NewDate(2024, time.January, 1),
		datePtr(domain.NewDate(2024, time.January, 14)),
		allOn)
	open := window(1, domain.NewDate(2024, time.January, 15), nil, allOff)

	// 故意乱序传入，匹配必须从起始日期最近的窗口开始
	windows := []*domain.BaselineWindow{closed, open}

	if IsOnForDate(windows, domain.NewDate(2024, time.January, 16)) {
		t.Error("expected off: the open window starting 01-15 covers 01-16")
	}
	if !IsOnForDate(windows, domain.NewDate(2024, time.January, 10)) {
		t.Error("expected on: the closed window covers 01-10")
	}
}

func TestIsOnForDate_BoundaryDates(t *testing.T) {
	allOn := domain.WeekFlags{true, true, true, true, true, true, true}
	w := window(1,
		domain.NewDate(2024, time.January, 8),
		datePtr(domain.NewDate(2024, time.January, 14)),
		allOn)
	windows := []*domain.BaselineWindow{w}

	// 起止日期都是闭区间
	if !IsOnForDate(windows, domain.NewDate(2024, time.January, 8)) {
		t.Error("expected start date to be inside the window")
	}
	if !IsOnForDate(windows, domain.NewDate(2024, time.January, 14)) {
		t.Error("expected end date to be inside the window")
	}
}

func TestWindowIndex_OnForDate(t *testing.T) {
	tueOnly := domain.WeekFlags{}
	tueOnly[time.Tuesday] = true

	idx := NewWindowIndex([]*domain.BaselineWindow{
		window(1, domain.NewDate(2024, time.January, 8), nil, tueOnly),
	})

	tue := domain.NewDate(2024, time.January, 9)
	if !idx.OnForDate(1, tue) {
		t.Error("expected assignment 1 on for tuesday")
	}

	// 索引里完全没有的派工走默认排班策略
	if !idx.OnForDate(42, tue) {
		t.Error("expected unknown assignment to default on")
	}
}
