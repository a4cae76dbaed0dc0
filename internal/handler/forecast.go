package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TedCarlson/insight-sub002/internal/forecast"
)

func forecastCacheKey(orgID int64) string {
	return fmt.Sprintf("route_lock_forecast_%d", orgID)
}

// GetMonthForecast 返回当前财务月的逐日汇总。
// 汇总是本系统开销最大的读操作，结果带短 TTL 缓存在 redis 中
func (h *Handler) GetMonthForecast(w http.ResponseWriter, r *http.Request) {
	orgID := orgScope(r)

	ctx, cancel := context.WithTimeout(r.Context(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if cached, err := h.redisClient.Get(ctx, forecastCacheKey(orgID)).Bytes(); err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	} else if !errors.Is(err, redis.Nil) {
		// redis 不可用时降级为直接计算
		slog.Warn("读取预测缓存失败", "error", err)
	}

	result, err := h.engine.ComputeFiscalMonthForecast(r.Context(), orgID)
	if err != nil {
		switch {
		case errors.Is(err, forecast.ErrFiscalMonthUnresolved):
			h.errorCode(w, r, http.StatusInternalServerError, "fiscal_month_unresolved")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.redisClient.Set(ctx, forecastCacheKey(orgID), body,
		time.Duration(h.config.Scheduling.ForecastCacheTTL)*time.Second).Err(); err != nil {
		slog.Warn("写入预测缓存失败", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) invalidateForecastCache(ctx context.Context, orgID int64) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	if err := h.redisClient.Del(ctx, forecastCacheKey(orgID)).Err(); err != nil {
		slog.Warn("清除预测缓存失败", "error", err)
	}
}
