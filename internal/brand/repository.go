package brand

import (
	"strings"

	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/models"
)

// Repository persists brands. Every call takes the *gorm.DB to run on.
type Repository interface {
	FindByName(db *gorm.DB, name string) (*models.Brand, error)
	Save(db *gorm.DB, b *models.Brand) error
	List(db *gorm.DB, query string) ([]models.Brand, error)
	FindByID(db *gorm.DB, id uint) (*models.Brand, error)
	Update(db *gorm.DB, id uint, req *UpdateBrandRequest) (*models.Brand, error)
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByName(db *gorm.DB, name string) (*models.Brand, error) {
	var b models.Brand
	if err := db.Where("LOWER(name) = LOWER(?)", name).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) Save(db *gorm.DB, b *models.Brand) error {
	return db.Create(b).Error
}

// List returns brands whose name contains query, or every brand when query
// is empty.
func (r *repositoryImpl) List(db *gorm.DB, query string) ([]models.Brand, error) {
	var list []models.Brand
	if q := strings.TrimSpace(query); q != "" {
		db = db.Where("name ILIKE ?", "%"+q+"%")
	}
	err := db.Order("name").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Brand, error) {
	var b models.Brand
	if err := db.First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repositoryImpl) Update(db *gorm.DB, id uint, req *UpdateBrandRequest) (*models.Brand, error) {
	var b models.Brand
	if err := db.First(&b, id).Error; err != nil {
		return nil, err
	}
	if req.Name != nil {
		b.Name = *req.Name
	}
	if req.Industry != nil {
		b.Industry = *req.Industry
	}
	if req.Website != nil {
		b.Website = *req.Website
	}
	if req.Notes != nil {
		b.Notes = *req.Notes
	}
	return &b, db.Save(&b).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&models.Brand{}, id).Error
}
