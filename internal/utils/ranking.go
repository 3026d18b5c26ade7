package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	DecayOffset float64 // 时间偏移 (10)，保证 log10 分母在发布时刻为 1
}

var DefaultConfig = RankConfig{
	DecayOffset: 10,
}

// HoursSince returns the age of t at now in hours, floored at 0 so clock skew never boosts a post.
func HoursSince(t, now time.Time) float64 {
	hours := now.Sub(t).Hours()
	if hours < 0 {
		return 0
	}
	return hours
}

// CalculateTopScore is declaredVotes / log10(hours + 10).
func CalculateTopScore(createdAt, now time.Time, declaredVotes int) float64 {
	hours := HoursSince(createdAt, now)

	// 时间衰减 (分母)，hours=0 时为 1
	decay := math.Log10(hours + DefaultConfig.DecayOffset)

	return float64(declaredVotes) * (1 / decay)
}
