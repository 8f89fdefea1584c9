package attachment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/models"
)

// ErrNotFound is returned when no attachment has the requested id.
var ErrNotFound = errors.New("attachment not found")

type Repository interface {
	Create(ctx context.Context, a *models.Attachment) error
	ListByDeal(ctx context.Context, dealID uint) ([]models.Attachment, error)
	FindByID(ctx context.Context, id uint) (*models.Attachment, error)
}

// GormRepository stores attachments in Postgres.
type GormRepository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

func (r *GormRepository) Create(ctx context.Context, a *models.Attachment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// ListByDeal returns attachment metadata without the file contents.
func (r *GormRepository) ListByDeal(ctx context.Context, dealID uint) ([]models.Attachment, error) {
	var list []models.Attachment
	err := r.DB.WithContext(ctx).
		Omit("data").
		Where("deal_id = ?", dealID).
		Order("id").
		Find(&list).Error
	return list, err
}

// FindByID loads the attachment including its data.
func (r *GormRepository) FindByID(ctx context.Context, id uint) (*models.Attachment, error) {
	var a models.Attachment
	err := r.DB.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
