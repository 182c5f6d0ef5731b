package repository

import (
	"context"
	"time"

	"toolinventory/internal/domain"
)

type UsageLogRepository struct {
	db ExtHandle
}

func NewUsageLogRepository(db ExtHandle) *UsageLogRepository {
	return &UsageLogRepository{db: db}
}

// Summarize counts the sessions of a tool with session_date in [from, to) and sums their minutes.
func (r *UsageLogRepository) Summarize(ctx context.Context, toolID int64, from, to time.Time) (domain.UsageSummary, error) {
	query := `
		SELECT COUNT(*) AS sessions,
			COALESCE(SUM(usage_minutes), 0)::float8 AS total_minutes
		FROM usage_logs
		WHERE tool_id = $1
			AND session_date >= $2::timestamptz
			AND session_date < $3::timestamptz
	`

	var summary domain.UsageSummary
	if err := r.db.GetContext(ctx, &summary, query, toolID, from, to); err != nil {
		return domain.UsageSummary{}, mapError(err)
	}
	return summary, nil
}

func (r *UsageLogRepository) Create(ctx context.Context, log *domain.UsageLog) error {
	query := `
		INSERT INTO usage_logs (tool_id, user_id, session_date, usage_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.db.GetContext(ctx, &log.Model, query, log.ToolID, log.UserID, log.SessionDate, log.UsageMinutes); err != nil {
		return mapError(err)
	}
	return nil
}
