package services

import (
	"strconv"

	"github.com/shopspring/decimal"

	"toolinventory/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ListToolsParams carries the list query exactly as supplied; nil means "not supplied".
type ListToolsParams struct {
	Department *domain.Department
	Status     *domain.ToolStatus
	Category   *string
	MinCost    *decimal.Decimal
	MaxCost    *decimal.Decimal
	Page       *int
	Limit      *int
	SortBy     *domain.SortKey
	Order      *SortOrder
}

// ToolQuery is the store-level form of a list request.
type ToolQuery struct {
	Filter         domain.ToolFilter
	Order          domain.ToolOrder
	Page           int
	Limit          int
	Offset         int
	FiltersApplied map[string]interface{}
}

// BuildToolQuery applies defaults, checks the cost interval and records which parameters the
// caller supplied explicitly.
func BuildToolQuery(p ListToolsParams) (*ToolQuery, error) {
	details := map[string]string{}

	if p.MinCost != nil && p.MaxCost != nil && p.MinCost.GreaterThan(*p.MaxCost) {
		details["min_cost"] = "min_cost must be less than or equal to max_cost"
		details["max_cost"] = "max_cost must be greater than or equal to min_cost"
	}
	if p.Page != nil && *p.Page < 1 {
		details["page"] = "page must be at least 1"
	}
	if p.Limit != nil && (*p.Limit < 1 || *p.Limit > MaxLimit) {
		details["limit"] = "limit must be between 1 and " + strconv.Itoa(MaxLimit)
	}
	if p.SortBy != nil && !p.SortBy.Valid() {
		details["sort_by"] = "sort_by must be one of name, cost, date"
	}
	if p.Order != nil && *p.Order != SortOrderAsc && *p.Order != SortOrderDesc {
		details["order"] = "order must be one of asc, desc"
	}
	if len(details) > 0 {
		return nil, ValidationFailed(details)
	}

	q := &ToolQuery{
		Filter: domain.ToolFilter{
			Department: p.Department,
			Status:     p.Status,
			Category:   p.Category,
			MinCost:    p.MinCost,
			MaxCost:    p.MaxCost,
		},
		Order:          domain.ToolOrder{Key: domain.SortByDate, Desc: true},
		Page:           DefaultPage,
		Limit:          DefaultLimit,
		FiltersApplied: map[string]interface{}{},
	}
	applied := q.FiltersApplied

	if p.Department != nil {
		applied["department"] = string(*p.Department)
	}
	if p.Status != nil {
		applied["status"] = string(*p.Status)
	}
	if p.Category != nil {
		applied["category"] = *p.Category
	}
	if p.MinCost != nil {
		applied["min_cost"] = p.MinCost.InexactFloat64()
	}
	if p.MaxCost != nil {
		applied["max_cost"] = p.MaxCost.InexactFloat64()
	}
	if p.Page != nil {
		q.Page = *p.Page
		applied["page"] = *p.Page
	}
	if p.Limit != nil {
		q.Limit = *p.Limit
		applied["limit"] = *p.Limit
	}
	if p.SortBy != nil {
		q.Order.Key = *p.SortBy
		applied["sort_by"] = string(*p.SortBy)
	}
	if p.Order != nil {
		q.Order.Desc = *p.Order == SortOrderDesc
		applied["order"] = string(*p.Order)
	}

	q.Offset = (q.Page - 1) * q.Limit
	return q, nil
}
