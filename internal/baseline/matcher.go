package baseline

import (
	"sort"

	"github.com/TedCarlson/insight-sub002/internal/domain"
)

// defaultScheduledOn 是"没有任何窗口覆盖目标日期"时的缺省策略。
// 新派工在配置第一条基线之前默认视为排班，这是产品上有意为之的兜底，
// 不是数据缺失错误，所以单独命名成一个策略函数而不是在匹配里静默返回 true
func defaultScheduledOn() bool {
	return true
}

// SortWindowsDesc 将窗口按起始日期从新到旧排序（匹配时最近的窗口优先）
func SortWindowsDesc(windows []*domain.BaselineWindow) {
	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartDate.After(windows[j].StartDate.Time)
	})
}

// IsOnForDate 判断某个派工在目标日期是否排班。
// windows 应当是该派工的全部窗口；匹配从起始日期最近的窗口开始，
// 第一个覆盖目标日期的窗口生效，取其对应星期几的开关
func IsOnForDate(windows []*domain.BaselineWindow, d domain.Date) bool {
	SortWindowsDesc(windows)
	for _, w := range windows {
		if w.Covers(d) {
			return w.Days[int(d.Weekday())].On
		}
	}
	return defaultScheduledOn()
}

// WindowIndex 是按派工分好组的窗口索引，供日汇总引擎逐日查询
type WindowIndex map[int64][]*domain.BaselineWindow

// NewWindowIndex 按派工分组并预先排好序
func NewWindowIndex(windows []*domain.BaselineWindow) WindowIndex {
	idx := make(WindowIndex)
	for _, w := range windows {
		idx[w.AssignmentID] = append(idx[w.AssignmentID], w)
	}
	for _, ws := range idx {
		SortWindowsDesc(ws)
	}
	return idx
}

// OnForDate 查询某个派工在目标日期是否排班，没有任何窗口时走缺省策略
func (idx WindowIndex) OnForDate(assignmentID int64, d domain.Date) bool {
	for _, w := range idx[assignmentID] {
		if w.Covers(d) {
			return w.Days[int(d.Weekday())].On
		}
	}
	return defaultScheduledOn()
}
