package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"toolinventory/internal/domain"
	"toolinventory/internal/repository"
)

type CreateToolInput struct {
	Name            string
	Description     *string
	Vendor          string
	WebsiteURL      *string
	CategoryID      int64
	MonthlyCost     decimal.Decimal
	OwnerDepartment domain.Department
}

type ToolDetail struct {
	Tool             *domain.Tool
	TotalMonthlyCost decimal.Decimal
	Usage            UsageMetrics
}

type ToolList struct {
	Tools          []*domain.Tool
	Total          int
	Filtered       int
	FiltersApplied map[string]interface{}
}

type ToolService struct {
	store repository.ToolStore
	usage *UsageAggregator
}

func NewToolService(store repository.ToolStore, usage *UsageAggregator) *ToolService {
	if usage == nil {
		usage = NewUsageAggregator(nil)
	}
	return &ToolService{store: store, usage: usage}
}

func (s *ToolService) CountTools(ctx context.Context) (int, error) {
	count, err := s.store.CountTools(ctx, domain.ToolFilter{})
	if err != nil {
		return 0, storeError("count tools", err)
	}
	return count, nil
}

func (s *ToolService) GetToolByID(ctx context.Context, id int64) (*ToolDetail, error) {
	tool, err := s.store.FindToolByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrToolNotFound) {
			return nil, toolNotFound(id)
		}
		return nil, storeError("find tool", err)
	}

	usage, err := s.usage.Last30Days(ctx, s.store, id)
	if err != nil {
		return nil, storeError("summarize usage", err)
	}

	return &ToolDetail{
		Tool:             tool,
		TotalMonthlyCost: tool.TotalMonthlyCost(),
		Usage:            usage,
	}, nil
}

// ListTools reads the global count, the filtered count and the requested page from one snapshot.
func (s *ToolService) ListTools(ctx context.Context, params ListToolsParams) (*ToolList, error) {
	q, err := BuildToolQuery(params)
	if err != nil {
		return nil, err
	}

	result := &ToolList{FiltersApplied: q.FiltersApplied}
	err = s.store.ReadSnapshot(ctx, func(r repository.ToolReader) error {
		var err error
		if result.Total, err = r.CountTools(ctx, domain.ToolFilter{}); err != nil {
			return err
		}
		if result.Filtered, err = r.CountTools(ctx, q.Filter); err != nil {
			return err
		}
		result.Tools, err = r.FindTools(ctx, q.Filter, q.Order, q.Offset, q.Limit)
		return err
	})
	if err != nil {
		return nil, storeError("list tools", err)
	}
	return result, nil
}

// CreateTool persists a new tool. Status and active user count are never taken from the caller.
func (s *ToolService) CreateTool(ctx context.Context, input CreateToolInput) (*domain.Tool, error) {
	if err := s.checkNameAvailable(ctx, input.Name, 0); err != nil {
		return nil, err
	}
	if err := s.checkCategoryExists(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	tool, err := s.store.CreateTool(ctx, &domain.Tool{
		Name:             input.Name,
		Description:      input.Description,
		Vendor:           input.Vendor,
		WebsiteURL:       input.WebsiteURL,
		CategoryID:       input.CategoryID,
		MonthlyCost:      input.MonthlyCost,
		OwnerDepartment:  input.OwnerDepartment,
		Status:           domain.ToolStatusActive,
		ActiveUsersCount: 0,
	})
	if err != nil {
		return nil, storeError("create tool", err)
	}
	return tool, nil
}

func (s *ToolService) UpdateTool(ctx context.Context, id int64, patch domain.ToolPatch) (*domain.Tool, error) {
	current, err := s.store.FindToolByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrToolNotFound) {
			return nil, toolNotFound(id)
		}
		return nil, storeError("find tool", err)
	}

	if patch.Name != nil && *patch.Name != current.Name {
		if err := s.checkNameAvailable(ctx, *patch.Name, id); err != nil {
			return nil, err
		}
	}
	if patch.CategoryID != nil {
		if err := s.checkCategoryExists(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}

	tool, err := s.store.UpdateTool(ctx, id, patch)
	if err != nil {
		return nil, storeError("update tool", err)
	}
	return tool, nil
}

// checkNameAvailable fails when a tool other than exceptID already uses name.
func (s *ToolService) checkNameAvailable(ctx context.Context, name string, exceptID int64) error {
	existing, err := s.store.FindToolByName(ctx, name)
	switch {
	case errors.Is(err, repository.ErrToolNotFound):
		return nil
	case err != nil:
		return storeError("find tool by name", err)
	case existing.ID == exceptID:
		return nil
	default:
		return FieldInvalid("name", MsgNameNotUnique)
	}
}

func (s *ToolService) checkCategoryExists(ctx context.Context, categoryID int64) error {
	exists, err := s.store.CategoryExists(ctx, categoryID)
	if err != nil {
		return storeError("check category", err)
	}
	if !exists {
		return FieldInvalid("category_id", MsgCategoryNotExists)
	}
	return nil
}

func toolNotFound(id int64) *Error {
	return NotFound(fmt.Sprintf("Tool with ID %d does not exist", id))
}
