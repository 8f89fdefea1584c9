package calculator

import (
	"github.com/prism-talent/deal-desk/internal/agentsplit"
	"github.com/prism-talent/deal-desk/internal/dealcalc"
	"github.com/prism-talent/deal-desk/internal/draft"
)

// ScheduleRequest applies one field edit to a schedule.
type ScheduleRequest struct {
	Schedule dealcalc.Schedule      `json:"schedule"`
	Field    dealcalc.ScheduleField `json:"field" validate:"required"`
	Value    string                 `json:"value"`
}

type ProductTotalRequest struct {
	Product   dealcalc.Product    `json:"product"`
	Schedules []dealcalc.Schedule `json:"schedules"`
}

type ProductTotalResponse struct {
	TotalPrice string `json:"totalPrice"`
}

// DealSplitRequest carries the schedules the deal split is derived from.
type DealSplitRequest struct {
	Schedules []dealcalc.Schedule `json:"schedules"`
}

// DealSplitResponse reports Derived=false when no schedule carries a split;
// the deal then keeps its manually entered percentage.
type DealSplitResponse struct {
	SplitPercent string `json:"splitPercent"`
	Derived      bool   `json:"derived"`
}

const (
	OpEqual  = "equal"
	OpAdd    = "add"
	OpRemove = "remove"
	OpSet    = "set"
)

// AgentSplitsRequest runs one agent split operation on Splits.
type AgentSplitsRequest struct {
	Op     string            `json:"op" validate:"required,oneof=equal add remove set"`
	Payees []string          `json:"payees"`
	Splits agentsplit.Splits `json:"splits"`
	Payee  string            `json:"payee" validate:"required_unless=Op equal"`
	Value  string            `json:"value"`

	// Pool, when positive, is distributed into per-payee amounts.
	Pool float64 `json:"pool" validate:"gte=0"`
}

type AgentSplitsResponse struct {
	Splits  agentsplit.Splits  `json:"splits"`
	Total   string             `json:"total"`
	Status  agentsplit.Status  `json:"status"`
	Amounts map[string]float64 `json:"amounts,omitempty"`
}

// RecalculateResponse is the recalculated draft plus its submit readiness.
type RecalculateResponse struct {
	Draft                *draft.Draft `json:"draft"`
	Warnings             []string     `json:"warnings"`
	AmountEditable       bool         `json:"amountEditable"`
	SplitPercentEditable bool         `json:"splitPercentEditable"`
}
