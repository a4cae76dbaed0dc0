package seed

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/baseline"
	"github.com/TedCarlson/insight-sub002/internal/config"
	"github.com/TedCarlson/insight-sub002/internal/domain"
	"github.com/TedCarlson/insight-sub002/internal/repository"
	"github.com/TedCarlson/insight-sub002/internal/utils"
)

// SeedRoster 给组织插入 n 行花名册快照和对应的在册记录。
// 大约十分之一的行故意造成不可排班（缺负责人或已离职），方便联调就绪过滤
func SeedRoster(repo *repository.Repository, orgID int64, n int) {
	for i := 0; i < n; i++ {
		assignmentID := orgID*100000 + int64(i) + 1
		personID := assignmentID + 50000
		leaderAssignmentID := orgID * 100000

		rec := &domain.RosterRecord{
			AssignmentID:       assignmentID,
			PersonID:           personID,
			OrgID:              orgID,
			DisplayName:        utils.GenerateRandomDisplayName(),
			PositionLabel:      utils.GenerateRandomPositionLabel(),
			TechnicianCode:     utils.GenerateRandomTechCode(),
			LeaderAssignmentID: &leaderAssignmentID,
			IsActive:           true,
		}

		switch rand.Intn(10) {
		case 0:
			// 缺负责人
			rec.LeaderAssignmentID = nil
			rec.LeaderName = ""
		case 1:
			// 已离职
			end := domain.DateOf(time.Now().AddDate(0, -1, 0), time.UTC)
			rec.EndDate = &end
			rec.IsActive = false
		}

		if err := repo.InsertRosterRecord(rec); err != nil {
			slog.Error("无法插入花名册快照行", "error", err)
			continue
		}

		if rec.EndDate == nil {
			if err := repo.InsertOrgMember(orgID, personID); err != nil {
				slog.Error("无法插入在册记录", "error", err)
			}
		}
	}
}

// SeedFiscalMonths 以今天为锚点插入上月、本月、下月三个财务月（按日历月近似）
func SeedFiscalMonths(repo *repository.Repository, loc *time.Location) {
	now := time.Now().In(loc)
	for offset := -1; offset <= 1; offset++ {
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc).AddDate(0, offset, 0)
		last := first.AddDate(0, 1, -1)

		month := &domain.FiscalMonth{
			Label:     first.Format("2006-01"),
			StartDate: domain.NewDate(first.Year(), first.Month(), first.Day()),
			EndDate:   domain.NewDate(last.Year(), last.Month(), last.Day()),
		}
		if err := repo.InsertFiscalMonth(month); err != nil {
			slog.Error("无法插入财务月", "error", err, "label", month.Label)
		}
	}
}

// SeedQuota 给财务月插入两个需求来源的配额工时（周日不排需求）
func SeedQuota(repo *repository.Repository, fiscalMonthID int64) {
	for weekday := int32(1); weekday <= 6; weekday++ {
		for _, source := range []string{"contract", "adhoc"} {
			hours := float64(rand.Intn(5)+2) * 8
			if err := repo.InsertQuotaFigure(fiscalMonthID, weekday, hours, source); err != nil {
				slog.Error("无法插入配额工时", "error", err)
			}
		}
	}
}

// SeedShiftValidation 在未来两周内随机标记若干天存在外部验证数据
func SeedShiftValidation(repo *repository.Repository, orgID int64, loc *time.Location) {
	today := domain.DateOf(time.Now(), loc)
	for i := 0; i < 14; i++ {
		if rand.Intn(2) == 0 {
			continue
		}
		if err := repo.InsertShiftValidationDay(orgID, today.AddDays(i)); err != nil {
			slog.Error("无法插入班次验证日", "error", err)
		}
	}
}

// SeedBaselines 走正式的写入器给组织内前 n 个派工各提交一条随机基线，
// 这样种出来的窗口和线上提交的数据形态完全一致
func SeedBaselines(cfg *config.Config, repo *repository.Repository, orgID int64, n int, loc *time.Location) {
	writer := baseline.NewWriter(repo)

	rows := make([]baseline.Row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, baseline.Row{
			AssignmentID: orgID*100000 + int64(i) + 1,
			Flags:        utils.GenerateRandomWeekFlags(),
		})
	}

	params := baseline.Params{
		OrgID:        orgID,
		StartDate:    domain.DateOf(time.Now(), loc),
		HoursPerDay:  cfg.Scheduling.HoursPerDay,
		UnitsPerHour: cfg.Scheduling.UnitsPerHour,
		Rows:         rows,
	}

	result, err := writer.Apply(context.Background(), params)
	if err != nil {
		slog.Error("无法写入随机基线", "error", err)
		return
	}

	slog.Info("已写入随机基线", "windows", len(result.SavedWindowIDs))
}
