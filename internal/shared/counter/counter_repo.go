package counter

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	Next(ctx context.Context, name string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Next issues the following value of a named sequence. Raw SQL keeps the
// upsert and the increment atomic under concurrent callers.
func (r *repository) Next(ctx context.Context, name string) (int64, error) {
	var nextValue int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO report_counters (name, last_value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (name) DO UPDATE
		SET last_value = report_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, name).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
