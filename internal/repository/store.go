package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"toolinventory/internal/domain"
)

// ToolReader is the read side of the record store.
type ToolReader interface {
	CountTools(ctx context.Context, filter domain.ToolFilter) (int, error)
	FindTools(ctx context.Context, filter domain.ToolFilter, order domain.ToolOrder, offset, limit int) ([]*domain.Tool, error)
	FindToolByID(ctx context.Context, id int64) (*domain.Tool, error)
	FindToolByName(ctx context.Context, name string) (*domain.Tool, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	SummarizeUsage(ctx context.Context, toolID int64, from, to time.Time) (domain.UsageSummary, error)
}

type ToolStore interface {
	ToolReader
	CreateTool(ctx context.Context, tool *domain.Tool) (*domain.Tool, error)
	UpdateTool(ctx context.Context, id int64, patch domain.ToolPatch) (*domain.Tool, error)
	// ReadSnapshot runs fn against a single consistent view of the data.
	ReadSnapshot(ctx context.Context, fn func(ToolReader) error) error
}

// Store is the PostgreSQL ToolStore.
type Store struct {
	db *sqlx.DB
	handle
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, handle: newHandle(db)}
}

func (s *Store) CreateTool(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	return s.tools.Create(ctx, tool)
}

func (s *Store) UpdateTool(ctx context.Context, id int64, patch domain.ToolPatch) (*domain.Tool, error) {
	return s.tools.Update(ctx, id, patch)
}

func (s *Store) ReadSnapshot(ctx context.Context, fn func(ToolReader) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", mapError(err))
	}
	defer tx.Rollback()

	if err := fn(newHandle(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", mapError(err))
	}
	return nil
}

// handle binds the repositories to one ExtHandle, either the pool or a transaction.
type handle struct {
	tools      *ToolRepository
	categories *CategoryRepository
	usageLogs  *UsageLogRepository
}

func newHandle(db ExtHandle) handle {
	return handle{
		tools:      NewToolRepository(db),
		categories: NewCategoryRepository(db),
		usageLogs:  NewUsageLogRepository(db),
	}
}

func (h handle) CountTools(ctx context.Context, filter domain.ToolFilter) (int, error) {
	return h.tools.Count(ctx, filter)
}

func (h handle) FindTools(ctx context.Context, filter domain.ToolFilter, order domain.ToolOrder, offset, limit int) ([]*domain.Tool, error) {
	return h.tools.Find(ctx, filter, order, offset, limit)
}

func (h handle) FindToolByID(ctx context.Context, id int64) (*domain.Tool, error) {
	return h.tools.FindByID(ctx, id)
}

func (h handle) FindToolByName(ctx context.Context, name string) (*domain.Tool, error) {
	return h.tools.FindByName(ctx, name)
}

func (h handle) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return h.categories.Exists(ctx, id)
}

func (h handle) SummarizeUsage(ctx context.Context, toolID int64, from, to time.Time) (domain.UsageSummary, error) {
	return h.usageLogs.Summarize(ctx, toolID, from, to)
}
