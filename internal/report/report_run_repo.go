package report

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=report_run_repo.go -destination=mock/report_run_repo_mock.go -package=mock
type RunRepository interface {
	WithTx(tx *gorm.DB) RunRepository
	Create(ctx context.Context, run *ReportRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*ReportRun, error)
	List(ctx context.Context, reportType string, page, pageSize int) ([]ReportRun, int64, error)
}

type runRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) WithTx(tx *gorm.DB) RunRepository {
	return &runRepository{db: tx}
}

func (r *runRepository) Create(ctx context.Context, run *ReportRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *runRepository) GetByID(ctx context.Context, id uuid.UUID) (*ReportRun, error) {
	var run ReportRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepository) List(ctx context.Context, reportType string, page, pageSize int) ([]ReportRun, int64, error) {
	db := r.db.WithContext(ctx).Model(&ReportRun{})
	if reportType != "" {
		db = db.Where("type = ?", reportType)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var runs []ReportRun
	err := db.
		Order("generated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&runs).Error
	return runs, total, err
}
