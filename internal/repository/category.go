package repository

import (
	"context"
	"errors"

	"toolinventory/internal/domain"
)

var ErrCategoryExists = errors.New("category already exists")

type CategoryRepository struct {
	db ExtHandle
}

func NewCategoryRepository(db ExtHandle) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Exists(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`

	exists := false
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (name)
		VALUES ($1)
		RETURNING id, created_at
	`

	if err := r.db.GetContext(ctx, &category.Model, query, category.Name); err != nil {
		if isUniqueConstraintError(err) {
			return ErrCategoryExists
		}
		return mapError(err)
	}
	return nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT id, created_at, name FROM categories ORDER BY name ASC`

	categories := []*domain.Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, mapError(err)
	}
	return categories, nil
}
