package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SplitShare is one payee line of the deal-level split, stored as JSON on
// the deal. AgentID is nil for custom payees.
type SplitShare struct {
	AgentName    string          `json:"agentName"`
	AgentID      *uint           `json:"agentId"`
	SplitPercent decimal.Decimal `json:"splitPercent"`
	SplitAmount  decimal.Decimal `json:"splitAmount"`
}

// Deal is the stored aggregate. Amount and SplitPercent are re-derived from
// products and schedules on create.
type Deal struct {
	gorm.Model
	Name              string                           `gorm:"size:255;not null" json:"name"`
	Stage             string                           `gorm:"size:50;not null;index" json:"stage"`
	Division          string                           `gorm:"size:100;index" json:"division"`
	Industry          string                           `gorm:"size:100" json:"industry"`
	Description       string                           `gorm:"type:text" json:"description"`
	BrandID           *uint                            `gorm:"index" json:"brandId"`
	OwnerID           uint                             `gorm:"not null;index" json:"ownerId"`
	Agents            []Agent                          `gorm:"many2many:deal_agents" json:"agents"`
	Amount            decimal.Decimal                  `gorm:"type:numeric(12,2);not null;default:0" json:"amount"`
	ContractAmount    decimal.Decimal                  `gorm:"type:numeric(12,2);not null;default:0" json:"contractAmount"`
	SplitPercent      decimal.Decimal                  `gorm:"type:numeric(5,2);not null;default:0" json:"splitPercent"`
	ContractStartDate string                           `gorm:"size:32" json:"contractStartDate"`
	ContractEndDate   string                           `gorm:"size:32" json:"contractEndDate"`
	CloseDate         string                           `gorm:"size:32" json:"closeDate"`
	CLMContractNumber string                           `gorm:"size:100" json:"clmContractNumber"`
	SplitOnSchedule   bool                             `json:"splitOnSchedule"`
	AgentSplits       datatypes.JSONType[[]SplitShare] `gorm:"type:jsonb" json:"agentSplits"`
	Products          []Product                        `gorm:"constraint:OnDelete:CASCADE" json:"products"`
	Schedules         []Schedule                       `gorm:"constraint:OnDelete:CASCADE" json:"schedules"`
	Attachments       []Attachment                     `gorm:"constraint:OnDelete:CASCADE" json:"attachments"`
}

type Product struct {
	gorm.Model
	DealID       uint            `gorm:"not null;index" json:"dealId"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Code         string          `gorm:"size:100" json:"code"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"unitPrice"`
	Quantity     decimal.Decimal `gorm:"type:numeric(12,4);not null;default:0" json:"quantity"`
	TotalPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"totalPrice"`
	Deliverables string          `gorm:"type:text" json:"deliverables"`
	StartDate    string          `gorm:"size:32" json:"startDate"`
	EndDate      string          `gorm:"size:32" json:"endDate"`
	Division     string          `gorm:"size:100" json:"division"`
	Schedules    []Schedule      `json:"schedules"`
}

// Schedule is a payment schedule line. ProductID is nil for schedules that
// belong to the deal itself. ClientRef is the id the submitting client gave
// the schedule before it was created.
type Schedule struct {
	gorm.Model
	DealID           uint            `gorm:"not null;index" json:"dealId"`
	ProductID        *uint           `gorm:"index" json:"productId"`
	ClientRef        string          `gorm:"size:64;index" json:"clientRef"`
	Description      string          `gorm:"size:255" json:"description"`
	ScheduleDate     string          `gorm:"size:32" json:"scheduleDate"`
	Revenue          decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"revenue"`
	PaymentTerms     string          `gorm:"size:20" json:"paymentTerms"`
	Type             string          `gorm:"size:30;default:'Revenue'" json:"type"`
	SplitPercent     decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"splitPercent"`
	TalentAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"talentAmount"`
	CommissionAmount decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"commissionAmount"`
	Billable         bool            `gorm:"default:true" json:"billable"`
	Splits           []ScheduleSplit `gorm:"constraint:OnDelete:CASCADE" json:"splits"`
}

// ScheduleSplit is one payee's share of a schedule's commission.
type ScheduleSplit struct {
	gorm.Model
	ScheduleID   uint            `gorm:"not null;index" json:"scheduleId"`
	AgentID      *uint           `gorm:"index" json:"agentId"`
	AgentName    string          `gorm:"size:200;not null" json:"agentName"`
	SplitPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"splitPercent"`
	SplitAmount  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"splitAmount"`
}

type Attachment struct {
	gorm.Model
	DealID       uint   `gorm:"not null;index" json:"dealId"`
	FileName     string `gorm:"size:255;not null" json:"fileName"`
	FileType     string `gorm:"size:100" json:"fileType"`
	FileSize     int64  `json:"fileSize"`
	Data         []byte `gorm:"type:bytea" json:"-"`
	Description  string `gorm:"type:text" json:"description"`
	UploadedByID uint   `gorm:"index" json:"uploadedById"`
}

// Migrate creates or updates every table of the intake API.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Agent{},
		&Brand{},
		&Deal{},
		&Product{},
		&Schedule{},
		&ScheduleSplit{},
		&Attachment{},
		&Note{},
	)
}
