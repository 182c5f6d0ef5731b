package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"toolinventory/internal/domain"
)

const toolColumns = `
	t.id, t.created_at, t.updated_at, t.name, t.description, t.vendor, t.website_url,
	t.category_id, c.name AS category, t.monthly_cost, t.owner_department, t.status,
	t.active_users_count`

var toolSortColumns = map[domain.SortKey]string{
	domain.SortByName: "t.name",
	domain.SortByCost: "t.monthly_cost",
	domain.SortByDate: "t.created_at",
}

type ToolRepository struct {
	db ExtHandle
}

func NewToolRepository(db ExtHandle) *ToolRepository {
	return &ToolRepository{db: db}
}

func (r *ToolRepository) Count(ctx context.Context, filter domain.ToolFilter) (int, error) {
	where, args := toolFilterClause(filter)
	query := `
		SELECT COUNT(*)
		FROM tools t
		INNER JOIN categories c ON c.id = t.category_id
	` + where

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// Find returns one page of tools. Rows with equal sort keys come back in the store's natural order.
func (r *ToolRepository) Find(ctx context.Context, filter domain.ToolFilter, order domain.ToolOrder, offset, limit int) ([]*domain.Tool, error) {
	where, args := toolFilterClause(filter)

	column, ok := toolSortColumns[order.Key]
	if !ok {
		column = toolSortColumns[domain.SortByDate]
	}
	direction := "ASC"
	if order.Desc {
		direction = "DESC"
	}

	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM tools t
		INNER JOIN categories c ON c.id = t.category_id
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, toolColumns, where, column, direction, len(args)-1, len(args))

	tools := []*domain.Tool{}
	if err := r.db.SelectContext(ctx, &tools, query, args...); err != nil {
		return nil, mapError(err)
	}
	return tools, nil
}

func (r *ToolRepository) FindByID(ctx context.Context, id int64) (*domain.Tool, error) {
	query := `
		SELECT ` + toolColumns + `
		FROM tools t
		INNER JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1
	`

	tool := &domain.Tool{}
	if err := r.db.GetContext(ctx, tool, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrToolNotFound
		}
		return nil, mapError(err)
	}
	return tool, nil
}

func (r *ToolRepository) FindByName(ctx context.Context, name string) (*domain.Tool, error) {
	query := `
		SELECT ` + toolColumns + `
		FROM tools t
		INNER JOIN categories c ON c.id = t.category_id
		WHERE t.name = $1
	`

	tool := &domain.Tool{}
	if err := r.db.GetContext(ctx, tool, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrToolNotFound
		}
		return nil, mapError(err)
	}
	return tool, nil
}

// Create inserts the tool and returns the stored row joined with its category name.
func (r *ToolRepository) Create(ctx context.Context, tool *domain.Tool) (*domain.Tool, error) {
	query := `
		WITH t AS (
			INSERT INTO tools (
				name, description, vendor, website_url, category_id,
				monthly_cost, owner_department, status, active_users_count
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9
			)
			RETURNING *
		)
		SELECT ` + toolColumns + `
		FROM t
		INNER JOIN categories c ON c.id = t.category_id
	`

	created := &domain.Tool{}
	err := r.db.GetContext(ctx, created, query,
		tool.Name, tool.Description, tool.Vendor, tool.WebsiteURL, tool.CategoryID,
		tool.MonthlyCost, tool.OwnerDepartment, tool.Status, tool.ActiveUsersCount,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return created, nil
}

// Update applies the non-nil fields of patch. updated_at advances even for an empty patch.
func (r *ToolRepository) Update(ctx context.Context, id int64, patch domain.ToolPatch) (*domain.Tool, error) {
	sets := []string{"updated_at = clock_timestamp()"}
	var args []interface{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Vendor != nil {
		set("vendor", *patch.Vendor)
	}
	if patch.WebsiteURL != nil {
		set("website_url", *patch.WebsiteURL)
	}
	if patch.CategoryID != nil {
		set("category_id", *patch.CategoryID)
	}
	if patch.MonthlyCost != nil {
		set("monthly_cost", *patch.MonthlyCost)
	}
	if patch.OwnerDepartment != nil {
		set("owner_department", *patch.OwnerDepartment)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		WITH t AS (
			UPDATE tools
			SET %s
			WHERE id = $%d
			RETURNING *
		)
		SELECT %s
		FROM t
		INNER JOIN categories c ON c.id = t.category_id
	`, strings.Join(sets, ", "), len(args), toolColumns)

	updated := &domain.Tool{}
	if err := r.db.GetContext(ctx, updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrToolNotFound
		}
		return nil, mapError(err)
	}
	return updated, nil
}

func toolFilterClause(filter domain.ToolFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	where := func(condition string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if filter.Department != nil {
		where("t.owner_department = $%d", string(*filter.Department))
	}
	if filter.Status != nil {
		where("t.status = $%d", string(*filter.Status))
	}
	if filter.Category != nil {
		where("c.name = $%d", *filter.Category)
	}
	if filter.MinCost != nil {
		where("t.monthly_cost >= $%d", *filter.MinCost)
	}
	if filter.MaxCost != nil {
		where("t.monthly_cost <= $%d", *filter.MaxCost)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}
