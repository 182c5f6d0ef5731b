package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"toolinventory/internal/api/services"
	"toolinventory/internal/domain"
)

type Tool struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      *string   `json:"description"`
	Vendor           string    `json:"vendor"`
	WebsiteURL       *string   `json:"website_url"`
	Category         string    `json:"category"`
	MonthlyCost      float64   `json:"monthly_cost"`
	OwnerDepartment  string    `json:"owner_department"`
	Status           string    `json:"status"`
	ActiveUsersCount int       `json:"active_users_count"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type ToolDetail struct {
	Tool
	TotalMonthlyCost float64      `json:"total_monthly_cost"`
	UsageMetrics     UsageMetrics `json:"usage_metrics"`
}

type UsageMetrics struct {
	Last30Days UsageWindow `json:"last_30_days"`
}

type UsageWindow struct {
	TotalSessions     int `json:"total_sessions"`
	AvgSessionMinutes int `json:"avg_session_minutes"`
}

type ToolList struct {
	Data           []*Tool                `json:"data"`
	Total          int                    `json:"total"`
	Filtered       int                    `json:"filtered"`
	FiltersApplied map[string]interface{} `json:"filters_applied"`
}

type ToolsHealth struct {
	ToolsCount int `json:"tools_count"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
	Message string            `json:"message,omitempty"`
}

type CreateToolRequest struct {
	Name            string           `json:"name" validate:"required,min=2,max=100"`
	Description     *string          `json:"description"`
	Vendor          string           `json:"vendor" validate:"required,max=100"`
	WebsiteURL      *string          `json:"website_url" validate:"omitempty,website"`
	CategoryID      int64            `json:"category_id" validate:"required,min=1"`
	MonthlyCost     *decimal.Decimal `json:"monthly_cost" validate:"required,gte=0,cents" swaggertype:"number"`
	OwnerDepartment string           `json:"owner_department" validate:"required,department"`
}

type UpdateToolRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Description     *string          `json:"description"`
	Vendor          *string          `json:"vendor" validate:"omitempty,min=1,max=100"`
	WebsiteURL      *string          `json:"website_url" validate:"omitempty,website"`
	CategoryID      *int64           `json:"category_id" validate:"omitempty,min=1"`
	MonthlyCost     *decimal.Decimal `json:"monthly_cost" validate:"omitempty,gte=0,cents" swaggertype:"number"`
	OwnerDepartment *string          `json:"owner_department" validate:"omitempty,department"`
	Status          *string          `json:"status" validate:"omitempty,tool_status"`
}

func (r *CreateToolRequest) ToInput() services.CreateToolInput {
	input := services.CreateToolInput{
		Name:            r.Name,
		Description:     r.Description,
		Vendor:          r.Vendor,
		WebsiteURL:      r.WebsiteURL,
		CategoryID:      r.CategoryID,
		OwnerDepartment: domain.Department(r.OwnerDepartment),
	}
	if r.MonthlyCost != nil {
		input.MonthlyCost = *r.MonthlyCost
	}
	return input
}

func (r *UpdateToolRequest) ToPatch() domain.ToolPatch {
	patch := domain.ToolPatch{
		Name:        r.Name,
		Description: r.Description,
		Vendor:      r.Vendor,
		WebsiteURL:  r.WebsiteURL,
		CategoryID:  r.CategoryID,
		MonthlyCost: r.MonthlyCost,
	}
	if r.OwnerDepartment != nil {
		department := domain.Department(*r.OwnerDepartment)
		patch.OwnerDepartment = &department
	}
	if r.Status != nil {
		status := domain.ToolStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

func ToolFromDomain(tool *domain.Tool) *Tool {
	if tool == nil {
		return nil
	}
	return &Tool{
		ID:               tool.ID,
		Name:             tool.Name,
		Description:      tool.Description,
		Vendor:           tool.Vendor,
		WebsiteURL:       tool.WebsiteURL,
		Category:         tool.Category,
		MonthlyCost:      tool.MonthlyCost.InexactFloat64(),
		OwnerDepartment:  string(tool.OwnerDepartment),
		Status:           string(tool.Status),
		ActiveUsersCount: tool.ActiveUsersCount,
		CreatedAt:        tool.CreatedAt,
		UpdatedAt:        tool.UpdatedAt,
	}
}

func ToolsFromDomain(tools []*domain.Tool) []*Tool {
	result := make([]*Tool, len(tools))
	for i, tool := range tools {
		result[i] = ToolFromDomain(tool)
	}
	return result
}

func ToolDetailFromService(detail *services.ToolDetail) *ToolDetail {
	if detail == nil {
		return nil
	}
	return &ToolDetail{
		Tool:             *ToolFromDomain(detail.Tool),
		TotalMonthlyCost: detail.TotalMonthlyCost.InexactFloat64(),
		UsageMetrics: UsageMetrics{
			Last30Days: UsageWindow{
				TotalSessions:     detail.Usage.TotalSessions,
				AvgSessionMinutes: detail.Usage.AvgSessionMinutes,
			},
		},
	}
}

func ToolListFromService(list *services.ToolList) *ToolList {
	return &ToolList{
		Data:           ToolsFromDomain(list.Tools),
		Total:          list.Total,
		Filtered:       list.Filtered,
		FiltersApplied: list.FiltersApplied,
	}
}
