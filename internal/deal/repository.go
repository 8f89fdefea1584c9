package deal

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prism-talent/deal-desk/internal/models"
)

// Repository persists deals with their products, schedules and splits.
type Repository interface {
	Create(ctx context.Context, d *models.Deal) error
	List(ctx context.Context, f Filter) ([]models.Deal, error)
	FindByID(ctx context.Context, id uint) (*models.Deal, error)
	UpdateStage(ctx context.Context, id uint, stage string) error
	Delete(ctx context.Context, id uint) error
}

type GormRepository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{DB: db}
}

// Create inserts the deal, its agents, products and schedules in one
// transaction, then re-sums product totals and the deal amount from the
// stored rows.
func (r *GormRepository) Create(ctx context.Context, d *models.Deal) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		agentIDs := make([]uint, 0, len(d.Agents))
		for _, a := range d.Agents {
			agentIDs = append(agentIDs, a.ID)
		}
		if err := checkAgents(tx, append([]uint{d.OwnerID}, agentIDs...)); err != nil {
			return err
		}
		if d.BrandID != nil {
			var n int64
			if err := tx.Model(&models.Brand{}).Where("id = ?", *d.BrandID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return ErrUnknownBrand
			}
		}

		products, schedules := d.Products, d.Schedules
		if err := tx.Omit(clause.Associations).Create(d).Error; err != nil {
			return err
		}

		if len(agentIDs) > 0 {
			rows := make([]map[string]any, 0, len(agentIDs))
			for _, id := range agentIDs {
				rows = append(rows, map[string]any{"deal_id": d.ID, "agent_id": id})
			}
			if err := tx.Table("deal_agents").Create(&rows).Error; err != nil {
				return err
			}
		}

		for i := range products {
			p := &products[i]
			p.DealID = d.ID
			if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
				return err
			}
			for j := range p.Schedules {
				s := &p.Schedules[j]
				s.DealID = d.ID
				s.ProductID = &p.ID
				if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
					return err
				}
			}
			if len(p.Schedules) > 0 {
				if err := recalcProductTotal(tx, p.ID); err != nil {
					return err
				}
			}
		}

		for i := range schedules {
			s := &schedules[i]
			s.DealID = d.ID
			if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
				return err
			}
		}

		if len(products) > 0 {
			return recalcDealAmount(tx, d.ID)
		}
		return nil
	})
}

func checkAgents(tx *gorm.DB, ids []uint) error {
	unique := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	var n int64
	if err := tx.Model(&models.Agent{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(unique) {
		return ErrUnknownAgent
	}
	return nil
}

// recalcProductTotal sums the product's schedules into products.total_price.
func recalcProductTotal(tx *gorm.DB, productID uint) error {
	var total decimal.Decimal
	if err := tx.Model(&models.Schedule{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(revenue), 0)").
		Row().Scan(&total); err != nil {
		return err
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("total_price", total.Round(2)).Error
}

// recalcDealAmount sums the deal's product totals into deals.amount.
func recalcDealAmount(tx *gorm.DB, dealID uint) error {
	var total decimal.Decimal
	if err := tx.Model(&models.Product{}).
		Where("deal_id = ?", dealID).
		Select("COALESCE(SUM(total_price), 0)").
		Row().Scan(&total); err != nil {
		return err
	}
	return tx.Model(&models.Deal{}).
		Where("id = ?", dealID).
		Update("amount", total.Round(2)).Error
}

func (r *GormRepository) List(ctx context.Context, f Filter) ([]models.Deal, error) {
	var list []models.Deal
	err := f.Apply(r.DB.WithContext(ctx).Model(&models.Deal{})).
		Preload("Agents").
		Find(&list).Error
	return list, err
}

func byID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// FindByID loads a deal with every association, or ErrNotFound.
func (r *GormRepository) FindByID(ctx context.Context, id uint) (*models.Deal, error) {
	var d models.Deal
	err := r.DB.WithContext(ctx).
		Preload("Agents").
		Preload("Products", byID).
		Preload("Products.Schedules", byID).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Where("product_id IS NULL").Order("id")
		}).
		First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepository) UpdateStage(ctx context.Context, id uint, stage string) error {
	res := r.DB.WithContext(ctx).Model(&models.Deal{}).Where("id = ?", id).Update("stage", stage)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Deal{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
