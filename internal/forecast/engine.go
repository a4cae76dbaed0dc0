package forecast

import (
	"context"
	"errors"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/baseline"
	"github.com/TedCarlson/insight-sub002/internal/config"
	"github.com/TedCarlson/insight-sub002/internal/domain"
	"github.com/TedCarlson/insight-sub002/internal/roster"
)

// ErrFiscalMonthUnresolved 表示财务日历中没有覆盖今天的财务月。
// 所有下游数字都依赖解析出的财务月，所以这是日汇总引擎的硬失败
var ErrFiscalMonthUnresolved = errors.New("fiscal_month_unresolved")

// DataSource 是日汇总引擎消费的全部上游数据，由 repository 实现。
// 任何一个读取失败都会让整次计算失败，引擎没有部分成功的模式
type DataSource interface {
	// ResolveFiscalMonth 返回覆盖锚点日期的财务月，不存在时返回 ErrFiscalMonthUnresolved
	ResolveFiscalMonth(ctx context.Context, anchor domain.Date) (*domain.FiscalMonth, error)
	RosterSnapshot(ctx context.Context, orgID int64) ([]*domain.RosterRecord, error)
	OrgMembership(ctx context.Context, orgID int64) (roster.Membership, error)
	// QuotaHoursByWeekday 返回该财务月所有需求来源按星期几求和后的工时向量
	QuotaHoursByWeekday(ctx context.Context, fiscalMonthID int64) (domain.WeekHours, error)
	// ShiftValidationDates 返回 [from, to] 内存在外部验证数据的日期集合，键为 Date.String()
	ShiftValidationDates(ctx context.Context, orgID int64, from, to domain.Date) (map[string]struct{}, error)
	WindowsByAssignmentIDs(ctx context.Context, ids []int64) ([]*domain.BaselineWindow, error)
}

// Engine 对一个财务月逐日计算排班、配额、差值和利用率的汇总行
type Engine struct {
	src DataSource
	loc *time.Location

	hoursPerDay          int
	routesPerTech        int
	validationWindowDays int

	// 测试时可替换
	clock func() time.Time
}

func NewEngine(cfg *config.Config, src DataSource) (*Engine, error) {
	loc, err := time.LoadLocation(cfg.Scheduling.OrgTimeZone)
	if err != nil {
		return nil, err
	}

	return &Engine{
		src:                  src,
		loc:                  loc,
		hoursPerDay:          cfg.Scheduling.HoursPerDay,
		routesPerTech:        cfg.Scheduling.RoutesPerTech,
		validationWindowDays: cfg.Scheduling.ValidationWindowDays,
		clock:                time.Now,
	}, nil
}

func (e *Engine) ComputeFiscalMonthForecast(ctx context.Context, orgID int64) (*domain.MonthForecast, error) {
	today := domain.DateOf(e.clock(), e.loc)

	// 解析覆盖今天的财务月
	month, err := e.src.ResolveFiscalMonth(ctx, today)
	if err != nil {
		return nil, err
	}

	// 构建可排班技师集合
	records, err := e.src.RosterSnapshot(ctx, orgID)
	if err != nil {
		return nil, err
	}
	members, err := e.src.OrgMembership(ctx, orgID)
	if err != nil {
		return nil, err
	}
	plannable := roster.PlannableTechnicians(records, members)

	// 为每个可排班派工建立窗口索引
	assignmentIDs := make([]int64, len(plannable))
	for i, rec := range plannable {
		assignmentIDs[i] = rec.AssignmentID
	}
	windows, err := e.src.WindowsByAssignmentIDs(ctx, assignmentIDs)
	if err != nil {
		return nil, err
	}
	index := baseline.NewWindowIndex(windows)

	// 该财务月的配额工时向量
	quota, err := e.src.QuotaHoursByWeekday(ctx, month.ID)
	if err != nil {
		return nil, err
	}

	// 外部验证数据的存在性只看从今天起的近期窗口，与财务月跨度无关
	svDates, err := e.src.ShiftValidationDates(ctx, orgID, today, today.AddDays(e.validationWindowDays-1))
	if err != nil {
		return nil, err
	}

	totalHeadcount := int32(len(plannable))
	days := make([]domain.DayForecastRow, 0, 31)

	for d := month.StartDate; !d.After(month.EndDate.Time); d = d.AddDays(1) {
		var scheduledTechs int32
		for _, id := range assignmentIDs {
			if index.OnForDate(id, d) {
				scheduledTechs++
			}
		}
		scheduledRoutes := scheduledTechs * int32(e.routesPerTech)

		var quotaHours *float64
		if h := quota[int(d.Weekday())]; h > 0 {
			quotaHours = &h
		}
		quotaRoutes := RoutesFromHours(quota[int(d.Weekday())], e.hoursPerDay)

		_, hasSV := svDates[d.String()]

		days = append(days, domain.DayForecastRow{
			Date:            d,
			QuotaHours:      quotaHours,
			QuotaRoutes:     quotaRoutes,
			ScheduledRoutes: scheduledRoutes,
			ScheduledTechs:  scheduledTechs,
			TotalHeadcount:  totalHeadcount,
			UtilPct:         Utilization(scheduledTechs, totalHeadcount),
			DeltaForecast:   Delta(scheduledRoutes, quotaRoutes),
			HasSV:           hasSV,
			HasCheckIn:      false, // 打卡数据源还没有接入，字段预留
		})
	}

	return &domain.MonthForecast{
		FiscalMonth: month,
		Days:        days,
		ComputedAt:  e.clock(),
	}, nil
}
