package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ToolStatus string

const (
	ToolStatusActive     ToolStatus = "active"
	ToolStatusDeprecated ToolStatus = "deprecated"
	ToolStatusTrial      ToolStatus = "trial"
)

var ToolStatuses = []ToolStatus{ToolStatusActive, ToolStatusDeprecated, ToolStatusTrial}

func (s ToolStatus) Valid() bool {
	for _, status := range ToolStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Department string

const (
	DepartmentEngineering Department = "Engineering"
	DepartmentSales       Department = "Sales"
	DepartmentMarketing   Department = "Marketing"
	DepartmentHR          Department = "HR"
	DepartmentFinance     Department = "Finance"
	DepartmentOperations  Department = "Operations"
	DepartmentDesign      Department = "Design"
)

var Departments = []Department{
	DepartmentEngineering,
	DepartmentSales,
	DepartmentMarketing,
	DepartmentHR,
	DepartmentFinance,
	DepartmentOperations,
	DepartmentDesign,
}

func (d Department) Valid() bool {
	for _, dep := range Departments {
		if d == dep {
			return true
		}
	}
	return false
}

type Tool struct {
	Model
	UpdatedAt        time.Time       `db:"updated_at"`
	Name             string          `db:"name"`
	Description      *string         `db:"description"`
	Vendor           string          `db:"vendor"`
	WebsiteURL       *string         `db:"website_url"`
	CategoryID       int64           `db:"category_id"`
	Category         string          `db:"category"`
	MonthlyCost      decimal.Decimal `db:"monthly_cost"`
	OwnerDepartment  Department      `db:"owner_department"`
	Status           ToolStatus      `db:"status"`
	ActiveUsersCount int             `db:"active_users_count"`
}

// TotalMonthlyCost is the monthly cost multiplied by the active user count, rounded to cents.
func (t *Tool) TotalMonthlyCost() decimal.Decimal {
	return t.MonthlyCost.Mul(decimal.NewFromInt(int64(t.ActiveUsersCount))).Round(2)
}

// ToolPatch holds the fields of a partial update. Nil fields are left untouched.
type ToolPatch struct {
	Name            *string
	Description     *string
	Vendor          *string
	WebsiteURL      *string
	CategoryID      *int64
	MonthlyCost     *decimal.Decimal
	OwnerDepartment *Department
	Status          *ToolStatus
}

func (p ToolPatch) Empty() bool {
	return p.Name == nil &&
		p.Description == nil &&
		p.Vendor == nil &&
		p.WebsiteURL == nil &&
		p.CategoryID == nil &&
		p.MonthlyCost == nil &&
		p.OwnerDepartment == nil &&
		p.Status == nil
}

// ToolFilter is a conjunction of optional constraints. A nil field matches every tool.
type ToolFilter struct {
	Department *Department
	Status     *ToolStatus
	Category   *string
	MinCost    *decimal.Decimal
	MaxCost    *decimal.Decimal
}

type SortKey string

const (
	SortByName SortKey = "name"
	SortByCost SortKey = "cost"
	SortByDate SortKey = "date"
)

func (k SortKey) Valid() bool {
	return k == SortByName || k == SortByCost || k == SortByDate
}

type ToolOrder struct {
	Key  SortKey
	Desc bool
}
