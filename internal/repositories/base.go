// Package repositories is the data access layer. Repository[T] carries the
// generic CRUD operations; model specific repositories embed it.
package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Repository[T any] struct {
	db *gorm.DB
}

func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

func (r *Repository[T]) DB() *gorm.DB { return r.db }

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

func (r *Repository[T]) GetByID(ctx context.Context, id uint) (*T, error) {
	var obj T
	if err := r.db.WithContext(ctx).First(&obj, id).Error; err != nil {
		return nil, translate(err)
	}
	return &obj, nil
}

// GetAll returns one page ordered by id.
func (r *Repository[T]) GetAll(ctx context.Context, skip, limit int) ([]T, error) {
	var out []T
	err := r.db.WithContext(ctx).Order("id").Offset(skip).Limit(limit).Find(&out).Error
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// GetWhere returns the rows matching every column = value pair in filters.
func (r *Repository[T]) GetWhere(ctx context.Context, filters map[string]any) ([]T, error) {
	var out []T
	if err := r.db.WithContext(ctx).Where(filters).Order("id").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// First returns the first row matching filters, or ErrNotFound.
func (r *Repository[T]) First(ctx context.Context, filters map[string]any) (*T, error) {
	var obj T
	if err := r.db.WithContext(ctx).Where(filters).Order("id").First(&obj).Error; err != nil {
		return nil, translate(err)
	}
	return &obj, nil
}

func (r *Repository[T]) Create(ctx context.Context, obj *T) error {
	return translate(r.db.WithContext(ctx).Create(obj).Error)
}

// UpdateByID applies changes (column name to value) and returns the updated
// row. An empty change set only loads the row.
func (r *Repository[T]) UpdateByID(ctx context.Context, id uint, changes map[string]any) (*T, error) {
	obj, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return obj, nil
	}
	if err := r.db.WithContext(ctx).Model(obj).Updates(changes).Error; err != nil {
		return nil, translate(err)
	}
	return r.GetByID(ctx, id)
}

// DeleteByID removes the row, returning ErrNotFound when there is none.
func (r *Repository[T]) DeleteByID(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository[T]) Exists(ctx context.Context, filters map[string]any) (bool, error) {
	n, err := r.Count(ctx, filters)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository[T]) Count(ctx context.Context, filters map[string]any) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(new(T))
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, translate(err)
	}
	return n, nil
}
