package distribution

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=distribution_repo.go -destination=mock/distribution_repo_mock.go -package=mock
type Repository interface {
	SaveSnapshots(ctx context.Context, snapshots []WorkloadSnapshot) error
	UpsertAlert(ctx context.Context, alert *BottleneckAlert) error
	ResolveStale(ctx context.Context, activeStageIDs []int64) error
	ListAlerts(ctx context.Context, page, pageSize int) ([]BottleneckAlert, int64, error)
	ListSnapshots(ctx context.Context, since time.Time, page, pageSize int) ([]WorkloadSnapshot, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveSnapshots(ctx context.Context, snapshots []WorkloadSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	for i := range snapshots {
		if snapshots[i].ID == uuid.Nil {
			snapshots[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&snapshots).Error
}

// UpsertAlert refreshes the open alert for a stage instead of stacking
// duplicates. A stage gets a new row only after its previous alert was
// resolved.
func (r *repository) UpsertAlert(ctx context.Context, alert *BottleneckAlert) error {
	var existing BottleneckAlert
	err := r.db.WithContext(ctx).
		Where("stage_id = ? AND resolved = false", alert.StageID).
		First(&existing).Error
	if err == nil {
		return r.db.WithContext(ctx).Model(&BottleneckAlert{}).
			Where("id = ?", existing.ID).
			Updates(map[string]any{
				"detected_at": alert.DetectedAt,
				"stage_name":  alert.StageName,
				"ratio":       alert.Ratio,
				"severity":    alert.Severity,
			}).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(alert).Error
}

// ResolveStale closes open alerts whose stage no longer shows up as a
// bottleneck in the latest analysis.
func (r *repository) ResolveStale(ctx context.Context, activeStageIDs []int64) error {
	db := r.db.WithContext(ctx).Model(&BottleneckAlert{}).
		Where("resolved = false")
	if len(activeStageIDs) > 0 {
		db = db.Where("stage_id NOT IN ?", activeStageIDs)
	}
	return db.Update("resolved", true).Error
}

func (r *repository) ListAlerts(ctx context.Context, page, pageSize int) ([]BottleneckAlert, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BottleneckAlert{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []BottleneckAlert
	err := r.db.WithContext(ctx).
		Order("detected_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&alerts).Error
	return alerts, total, err
}

func (r *repository) ListSnapshots(ctx context.Context, since time.Time, page, pageSize int) ([]WorkloadSnapshot, int64, error) {
	db := r.db.WithContext(ctx).Model(&WorkloadSnapshot{}).
		Where("taken_at >= ?", since)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var snapshots []WorkloadSnapshot
	err := db.
		Order("taken_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&snapshots).Error
	return snapshots, total, err
}
