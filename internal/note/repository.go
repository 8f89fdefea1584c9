package note

import (
	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/models"
)

type Repository interface {
	Create(db *gorm.DB, n *models.Note) error
	ListByDeal(db *gorm.DB, dealID uint) ([]models.Note, error)
	FindByID(db *gorm.DB, id uint) (*models.Note, error)
	Update(db *gorm.DB, id uint, text string) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, n *models.Note) error {
	return db.Create(n).Error
}

func (r *repositoryImpl) ListByDeal(db *gorm.DB, dealID uint) ([]models.Note, error) {
	var notes []models.Note
	err := db.Where("deal_id = ?", dealID).Order("created_at ASC").Find(&notes).Error
	return notes, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Note, error) {
	var n models.Note
	err := db.First(&n, id).Error
	return &n, err
}

func (r *repositoryImpl) Update(db *gorm.DB, id uint, text string) error {
	return db.Model(&models.Note{}).Where("id = ?", id).Update("text", text).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&models.Note{}, id).Error
}
