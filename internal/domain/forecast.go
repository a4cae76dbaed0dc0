package domain

import "time"

// FiscalMonth 由财务日历服务解析得到，本核心只消费不维护
type FiscalMonth struct {
	ID        int64  `json:"id"`
	Label     string `json:"label"`
	StartDate Date   `json:"start_date"`
	EndDate   Date   `json:"end_date"`
}

// WeekHours 是按星期几聚合的配额工时向量，下标与 time.Weekday 一致
type WeekHours [7]float64

// DayForecastRow 是日汇总引擎的输出，每个日历日一行，不落库
type DayForecastRow struct {
	Date            Date     `json:"date"`
	QuotaHours      *float64 `json:"quota_hours"`
	QuotaRoutes     *int32   `json:"quota_routes"`
	ScheduledRoutes int32    `json:"scheduled_routes"`
	ScheduledTechs  int32    `json:"scheduled_techs"`
	TotalHeadcount  int32    `json:"total_headcount"`
	UtilPct         *float64 `json:"util_pct"`
	DeltaForecast   *int32   `json:"delta_forecast"`
	HasSV           bool     `json:"has_sv"`
	HasCheckIn      bool     `json:"has_check_in"`
}

// MonthForecast 是一次完整的财务月汇总
type MonthForecast struct {
	FiscalMonth *FiscalMonth     `json:"fiscal_month"`
	Days        []DayForecastRow `json:"days"`
	ComputedAt  time.Time        `json:"computed_at"`
}

// DeltaBand 是对 delta 的分段约定，属于数字本身的性质而不是展示样式
type DeltaBand string

const (
	BandMeets    DeltaBand = "meets"    // delta == 0，刚好满足，没有余量
	BandBuffered DeltaBand = "buffered" // delta 1~2
	BandExceeds  DeltaBand = "exceeds"  // delta > 2
	BandShort    DeltaBand = "short"    // delta < 0
	BandNoQuota  DeltaBand = "no_quota" // 当天没有配额
)

// BandOfDelta 对带符号的 delta 做分段
func BandOfDelta(delta *int32) DeltaBand {
	switch {
	case delta == nil:
		return BandNoQuota
	case *delta < 0:
		return BandShort
	case *delta == 0:
		return BandMeets
	case *delta <= 2:
		return BandBuffered
	default:
		return BandExceeds
	}
}
