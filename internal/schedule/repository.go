package schedule

import (
	"context"

	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/models"
)

type Repository interface {
	ListSplits(ctx context.Context, scheduleID uint) ([]models.ScheduleSplit, error)
	ReplaceSplits(ctx context.Context, scheduleID uint, splits []models.ScheduleSplit) error
}

type GormRepository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) ListSplits(ctx context.Context, scheduleID uint) ([]models.ScheduleSplit, error) {
	var list []models.ScheduleSplit
	err := r.DB.WithContext(ctx).
		Where("schedule_id = ?", scheduleID).
		Order("id").
		Find(&list).Error
	return list, err
}

// ReplaceSplits deletes the schedule's stored splits and inserts splits in
// their place, atomically.
func (r *GormRepository) ReplaceSplits(ctx context.Context, scheduleID uint, splits []models.ScheduleSplit) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("schedule_id = ?", scheduleID).
			Delete(&models.ScheduleSplit{}).Error; err != nil {
			return err
		}
		if len(splits) == 0 {
			return nil
		}
		for i := range splits {
			splits[i].ScheduleID = scheduleID
		}
		return tx.Create(&splits).Error
	})
}
