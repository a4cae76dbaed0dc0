package domain

import (
	"encoding/json"
	"time"
)

// weekdayKeys 按 time.Weekday 的顺序排列（周日为 0）
var weekdayKeys = [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// WeekFlags 表示一周七天的开关，下标与 time.Weekday 一致
type WeekFlags [7]bool

func (f WeekFlags) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, 7)
	for i, key := range weekdayKeys {
		m[key] = f[i]
	}
	return json.Marshal(m)
}

func (f *WeekFlags) UnmarshalJSON(data []byte) error {
	m := make(map[string]bool)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for i, key := range weekdayKeys {
		f[i] = m[key]
	}
	return nil
}

// DayPlan 是基线窗口中某个星期几的计划：开关以及由开关推导出的工时和单位数
type DayPlan struct {
	On    bool  `json:"on"`
	Hours int32 `json:"hours"`
	Units int32 `json:"units"`
}

type WeekPlan [7]DayPlan

func (p WeekPlan) MarshalJSON() ([]byte, error) {
	m := make(map[string]DayPlan, 7)
	for i, key := range weekdayKeys {
		m[key] = p[i]
	}
	return json.Marshal(m)
}

func (p *WeekPlan) UnmarshalJSON(data []byte) error {
	m := make(map[string]DayPlan)
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for i, key := range weekdayKeys {
		p[i] = m[key]
	}
	return nil
}

// Flags 取出七天的开关部分
func (p WeekPlan) Flags() WeekFlags {
	var f WeekFlags
	for i := range p {
		f[i] = p[i].On
	}
	return f
}

// DerivePlan 根据七天开关推导每天的工时和单位数：
// hour = flag ? hoursPerDay : 0；unit = hour × unitsPerHour
func DerivePlan(flags WeekFlags, hoursPerDay int, unitsPerHour int) WeekPlan {
	var p WeekPlan
	for i, on := range flags {
		p[i].On = on
		if on {
			p[i].Hours = int32(hoursPerDay)
			p[i].Units = int32(hoursPerDay * unitsPerHour)
		}
	}
	return p
}

// BaselineWindow 是某个派工的一段基线有效期。
// 同一个派工拥有一串互不重叠的窗口，其中至多有一个窗口的 EndDate 为空（"打开的窗口"），
// 表示当前生效的每周配置
type BaselineWindow struct {
	ID             int64     `json:"id"`
	AssignmentID   int64     `json:"assignment_id"`
	StartDate      Date      `json:"start_date"`
	EndDate        *Date     `json:"end_date"`
	DefaultRouteID *int64    `json:"default_route_id"`
	Days           WeekPlan  `json:"days"`
	CreatedAt      time.Time `json:"created_at"`
	Version        int32     `json:"-"`
}

// Open 表示这个窗口是否是当前生效的窗口
func (w *BaselineWindow) Open() bool {
	return w.EndDate == nil
}

// Covers 判断目标日期是否落在窗口的有效期内（EndDate 为空视为正无穷）
func (w *BaselineWindow) Covers(d Date) bool {
	if d.Before(w.StartDate.Time) {
		return false
	}
	if w.EndDate != nil && d.After(w.EndDate.Time) {
		return false
	}
	return true
}
