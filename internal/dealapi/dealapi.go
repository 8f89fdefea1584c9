// Package dealapi holds the JSON contract shared by the deal intake API and
// the submission client.
package dealapi

import "time"

// CreateDealRequest is the body of POST /deals.
type CreateDealRequest struct {
	Name              string         `json:"name" validate:"required,max=255"`
	Stage             string         `json:"stage" validate:"required,oneof='Initial Outreach' 'Negotiation' 'Terms Agreed Upon' 'Closed Won'"`
	Division          string         `json:"division"`
	Industry          string         `json:"industry"`
	Description       string         `json:"description"`
	BrandID           *uint          `json:"brandId"`
	OwnerID           uint           `json:"ownerId" validate:"required"`
	AgentIDs          []uint         `json:"agentIds"`
	Amount            float64        `json:"amount" validate:"gte=0"`
	ContractAmount    float64        `json:"contractAmount" validate:"gte=0"`
	SplitPercent      float64        `json:"splitPercent" validate:"gte=0,lte=100"`
	ContractStartDate string         `json:"contractStartDate"`
	ContractEndDate   string         `json:"contractEndDate"`
	CloseDate         string         `json:"closeDate"`
	CLMContractNumber string         `json:"clmContractNumber"`
	SplitOnSchedule   bool           `json:"splitOnSchedule"`
	AgentSplits       []SplitEntry   `json:"agentSplits" validate:"dive"`
	Products          []ProductInput `json:"products" validate:"dive"`

	// Schedules not attached to any product.
	Schedules []ScheduleInput `json:"schedules" validate:"dive"`
}

// ProductInput is one product of a CreateDealRequest with its schedules.
type ProductInput struct {
	Name         string          `json:"name" validate:"required"`
	Code         string          `json:"code"`
	UnitPrice    float64         `json:"unitPrice"`
	Quantity     float64         `json:"quantity"`
	TotalPrice   float64         `json:"totalPrice"`
	Deliverables string          `json:"deliverables"`
	StartDate    string          `json:"startDate"`
	EndDate      string          `json:"endDate"`
	Division     string          `json:"division"`
	Schedules    []ScheduleInput `json:"schedules" validate:"dive"`
}

// ScheduleInput is one payment schedule. ClientRef is echoed back so the
// caller can match created rows to its own ids.
type ScheduleInput struct {
	ClientRef        string  `json:"clientRef"`
	Description      string  `json:"description"`
	ScheduleDate     string  `json:"scheduleDate"`
	Revenue          float64 `json:"revenue"`
	PaymentTerms     string  `json:"paymentTerms" validate:"omitempty,oneof=NET_15 NET_30 NET_45 NET_60 DUE_ON_RECEIPT"`
	Type             string  `json:"type"`
	SplitPercent     float64 `json:"splitPercent" validate:"gte=0,lte=100"`
	TalentAmount     float64 `json:"talentAmount"`
	CommissionAmount float64 `json:"commissionAmount"`
	Billable         bool    `json:"billable"`
}

// DealResponse is a stored deal with its products, schedules and splits.
type DealResponse struct {
	ID                uint               `json:"id"`
	Name              string             `json:"name"`
	Stage             string             `json:"stage"`
	Division          string             `json:"division"`
	Industry          string             `json:"industry"`
	Description       string             `json:"description"`
	BrandID           *uint              `json:"brandId"`
	OwnerID           uint               `json:"ownerId"`
	AgentIDs          []uint             `json:"agentIds"`
	Amount            float64            `json:"amount"`
	ContractAmount    float64            `json:"contractAmount"`
	SplitPercent      float64            `json:"splitPercent"`
	ContractStartDate string             `json:"contractStartDate"`
	ContractEndDate   string             `json:"contractEndDate"`
	CloseDate         string             `json:"closeDate"`
	CLMContractNumber string             `json:"clmContractNumber"`
	SplitOnSchedule   bool               `json:"splitOnSchedule"`
	AgentSplits       []SplitEntry       `json:"agentSplits"`
	Products          []ProductResponse  `json:"products"`
	Schedules         []ScheduleResponse `json:"schedules"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

type ProductResponse struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	Code         string             `json:"code"`
	UnitPrice    float64            `json:"unitPrice"`
	Quantity     float64            `json:"quantity"`
	TotalPrice   float64            `json:"totalPrice"`
	Deliverables string             `json:"deliverables"`
	StartDate    string             `json:"startDate"`
	EndDate      string             `json:"endDate"`
	Division     string             `json:"division"`
	Schedules    []ScheduleResponse `json:"schedules"`
}

type ScheduleResponse struct {
	ID               uint    `json:"id"`
	ProductID        *uint   `json:"productId"`
	ClientRef        string  `json:"clientRef,omitempty"`
	Description      string  `json:"description"`
	ScheduleDate     string  `json:"scheduleDate"`
	Revenue          float64 `json:"revenue"`
	PaymentTerms     string  `json:"paymentTerms"`
	Type             string  `json:"type"`
	SplitPercent     float64 `json:"splitPercent"`
	TalentAmount     float64 `json:"talentAmount"`
	CommissionAmount float64 `json:"commissionAmount"`
	Billable         bool    `json:"billable"`
}

// AllSchedules flattens product schedules and deal-level schedules.
func (d DealResponse) AllSchedules() []ScheduleResponse {
	out := make([]ScheduleResponse, 0, len(d.Schedules))
	for _, p := range d.Products {
		out = append(out, p.Schedules...)
	}
	return append(out, d.Schedules...)
}

// AttachmentUploadRequest is the body of POST /attachments.
type AttachmentUploadRequest struct {
	FileName     string `json:"fileName" validate:"required,max=255"`
	FileType     string `json:"fileType" validate:"max=100"`
	FileSize     int64  `json:"fileSize" validate:"gte=0"`
	Base64Data   string `json:"base64Data" validate:"required,base64"`
	DealID       uint   `json:"dealId" validate:"required"`
	Description  string `json:"description"`
	UploadedByID uint   `json:"uploadedById"`
}

// AttachmentResponse omits the file contents.
type AttachmentResponse struct {
	ID           uint      `json:"id"`
	DealID       uint      `json:"dealId"`
	FileName     string    `json:"fileName"`
	FileType     string    `json:"fileType"`
	FileSize     int64     `json:"fileSize"`
	Description  string    `json:"description"`
	UploadedByID uint      `json:"uploadedById"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SplitEntry is one payee's share. AgentID is nil for custom payees.
type SplitEntry struct {
	AgentName    string   `json:"agentName" validate:"required"`
	AgentID      *uint    `json:"agentId"`
	SplitPercent float64  `json:"splitPercent" validate:"gte=0,lte=100"`
	SplitAmount  *float64 `json:"splitAmount"`
}

// SplitBatchRequest replaces every payee split of one schedule.
type SplitBatchRequest struct {
	Splits []SplitEntry `json:"splits" validate:"dive"`
}
