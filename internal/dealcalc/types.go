// Package dealcalc implements the deal financial roll-up: product totals,
// schedule commission splits and the deal-level weighted split percentage.
//
// Every numeric field is a string as entered by the user. Values are parsed
// leniently (see package money) and derived fields are written back with two
// decimals.
package dealcalc

import (
	"errors"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
)

var (
	// ErrUnknownField is returned for an edit naming a field that does not exist.
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidPaymentTerms is returned for terms outside the fixed set.
	ErrInvalidPaymentTerms = errors.New("invalid payment terms")
)

// PaymentTerms is when a schedule's invoice falls due.
type PaymentTerms string

const (
	Net15        PaymentTerms = "NET_15"
	Net30        PaymentTerms = "NET_30"
	Net45        PaymentTerms = "NET_45"
	Net60        PaymentTerms = "NET_60"
	DueOnReceipt PaymentTerms = "DUE_ON_RECEIPT"
)

// Valid reports whether t is one of the supported payment terms.
func (t PaymentTerms) Valid() bool {
	switch t {
	case Net15, Net30, Net45, Net60, DueOnReceipt:
		return true
	}
	return false
}

// ScheduleTypeRevenue is the only schedule type in use.
const ScheduleTypeRevenue = "Revenue"

// Product is a line of a deal draft.
type Product struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	UnitPrice    string `json:"unitPrice"`
	Quantity     string `json:"quantity"`
	TotalPrice   string `json:"totalPrice"`
	Deliverables string `json:"deliverables"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	Division     string `json:"division"`
}

// Schedule is a payment schedule line. An empty ProductID means the schedule
// belongs to the deal itself.
type Schedule struct {
	ID               string            `json:"id"`
	ProductID        string            `json:"productId,omitempty"`
	Description      string            `json:"description"`
	ScheduleDate     string            `json:"scheduleDate"`
	Revenue          string            `json:"revenue"`
	PaymentTerms     PaymentTerms      `json:"paymentTerms"`
	Type             string            `json:"type"`
	SplitPercent     string            `json:"splitPercent"`
	TalentAmount     string            `json:"talentAmount"`
	CommissionAmount string            `json:"commissionAmount"`
	Billable         bool              `json:"billable"`
	AgentSplits      agentsplit.Splits `json:"agentSplits,omitempty"`
}
