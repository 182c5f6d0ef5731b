package services

import (
	"context"
	"math"
	"time"

	"toolinventory/internal/repository"
)

const UsageWindow = 30 * 24 * time.Hour

type UsageMetrics struct {
	TotalSessions     int
	AvgSessionMinutes int
}

type UsageAggregator struct {
	now func() time.Time
}

func NewUsageAggregator(now func() time.Time) *UsageAggregator {
	if now == nil {
		now = time.Now
	}
	return &UsageAggregator{now: now}
}

// Last30Days summarizes the sessions of a tool in [now-30d, now).
func (a *UsageAggregator) Last30Days(ctx context.Context, store repository.ToolReader, toolID int64) (UsageMetrics, error) {
	until := a.now()
	summary, err := store.SummarizeUsage(ctx, toolID, until.Add(-UsageWindow), until)
	if err != nil {
		return UsageMetrics{}, err
	}

	metrics := UsageMetrics{TotalSessions: summary.Sessions}
	if summary.Sessions > 0 {
		metrics.AvgSessionMinutes = int(math.Round(summary.TotalMinutes / float64(summary.Sessions)))
	}
	return metrics, nil
}
