package repository

import (
	"context"

	"gorm.io/gorm"
)

type CounterRepository interface {
	// Next allocates the next value of a named sequence atomically.
	Next(ctx context.Context, name string) (int64, error)
}

type counterRepository struct {
	db *gorm.DB
}

func NewCounterRepository(db *gorm.DB) CounterRepository {
	return &counterRepository{db: db}
}

func (r *counterRepository) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).
		Raw(`
			INSERT INTO counters (name, value) VALUES (?, 1)
			ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
			RETURNING value
		`, name).
		Scan(&value).Error
	return value, err
}
