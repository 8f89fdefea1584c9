package agent

import (
	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/models"
)

// Repository persists agents. Every call takes the *gorm.DB to run on.
type Repository interface {
	FindByEmail(db *gorm.DB, email string) (*models.Agent, error)
	Save(db *gorm.DB, a *models.Agent) error
	ListAll(db *gorm.DB) ([]models.Agent, error)
	FindByID(db *gorm.DB, id uint) (*models.Agent, error)
	Update(db *gorm.DB, id uint, req *UpdateAgentRequest) (*models.Agent, error)
	Delete(db *gorm.DB, id uint) error
	DealsFor(db *gorm.DB, agentID uint) ([]models.Deal, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*models.Agent, error) {
	var a models.Agent
	if err := db.Where("LOWER(email) = LOWER(?)", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) Save(db *gorm.DB, a *models.Agent) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]models.Agent, error) {
	var list []models.Agent
	err := db.Order("first_name, last_name").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Agent, error) {
	var a models.Agent
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) Update(db *gorm.DB, id uint, req *UpdateAgentRequest) (*models.Agent, error) {
	var a models.Agent
	if err := db.First(&a, id).Error; err != nil {
		return nil, err
	}
	if req.FirstName != nil {
		a.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		a.LastName = *req.LastName
	}
	if req.Phone != nil {
		a.Phone = *req.Phone
	}
	if req.Division != nil {
		a.Division = *req.Division
	}
	return &a, db.Save(&a).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&models.Agent{}, id).Error
}

// DealsFor lists the deals the agent owns or participates in.
func (r *repositoryImpl) DealsFor(db *gorm.DB, agentID uint) ([]models.Deal, error) {
	var list []models.Deal
	members := db.Session(&gorm.Session{NewDB: true}).
		Table("deal_agents").
		Select("deal_id").
		Where("agent_id = ?", agentID)
	err := db.Where("owner_id = ? OR id IN (?)", agentID, members).Find(&list).Error
	return list, err
}
