package domain

import "time"

// UsageLog is one recorded session of a tool. Rows are append-only.
type UsageLog struct {
	Model
	ToolID       int64     `db:"tool_id"`
	UserID       *int64    `db:"user_id"`
	SessionDate  time.Time `db:"session_date"`
	UsageMinutes int       `db:"usage_minutes"`
}

// UsageSummary is the raw aggregate of usage logs over a time window.
type UsageSummary struct {
	Sessions     int     `db:"sessions"`
	TotalMinutes float64 `db:"total_minutes"`
}
