package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/TedCarlson/insight-sub002/internal/config"
	"github.com/TedCarlson/insight-sub002/internal/repository"
	"github.com/TedCarlson/insight-sub002/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var orgID int64
	var fiscalMonthID int64

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入花名册快照, 2: 插入财务月, 3: 插入配额工时, 4: 插入班次验证日, 5: 写入随机基线)")
	flag.IntVar(&n, "n", 20, "要插入的记录数量")
	flag.Int64Var(&orgID, "org-id", 1, "组织 ID")
	flag.Int64Var(&fiscalMonthID, "fiscal-month-id", 0, "插入配额工时的财务月 ID")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Scheduling.OrgTimeZone)
	if err != nil {
		logger.Error("无法加载组织时区", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的记录数量")
		} else {
			seed.SeedRoster(repo, orgID, n)
		}
	case 2:
		seed.SeedFiscalMonths(repo, loc)
	case 3:
		if fiscalMonthID <= 0 {
			slog.Error("请输入合法的财务月 ID")
		} else {
			seed.SeedQuota(repo, fiscalMonthID)
		}
	case 4:
		seed.SeedShiftValidation(repo, orgID, loc)
	case 5:
		if n <= 0 {
			slog.Error("请输入合法的记录数量")
		} else {
			seed.SeedBaselines(cfg, repo, orgID, n, loc)
		}
	default:
		slog.Error("不支持的操作", "op", op)
	}
}
