package forecast

import "math"

// RoutesFromHours 把配额工时换算成路线当量（ceil(hours / hoursPerDay)）。
// 工时为零视为"当天没有配额"而不是"需求为零"，返回 nil；
// 这个区别直接影响 delta 的语义：没有配额就没有可比较的目标
func RoutesFromHours(hours float64, hoursPerDay int) *int32 {
	if hours <= 0 {
		return nil
	}
	routes := int32(math.Ceil(hours / float64(hoursPerDay)))
	return &routes
}

// Delta 计算带符号的预测差值（已排 − 配额），配额缺失时为 nil
func Delta(scheduledRoutes int32, quotaRoutes *int32) *int32 {
	if quotaRoutes == nil {
		return nil
	}
	d := scheduledRoutes - *quotaRoutes
	return &d
}

// Utilization 计算利用率百分比，保留一位小数；总人数为零时为 nil
func Utilization(scheduledTechs, totalHeadcount int32) *float64 {
	if totalHeadcount == 0 {
		return nil
	}
	pct := math.Round(float64(scheduledTechs)/float64(totalHeadcount)*1000) / 10
	return &pct
}
