// Package calculator exposes the deal roll-up calculations over HTTP so
// clients that do not embed the Go packages get identical figures.
package calculator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
	"github.com/prism-talent/deal-desk/internal/dealcalc"
	"github.com/prism-talent/deal-desk/internal/draft"
	"github.com/prism-talent/deal-desk/internal/httpx"
	"github.com/prism-talent/deal-desk/internal/money"
	"github.com/prism-talent/deal-desk/internal/validate"
)

// Handler exposes the pure calculators over HTTP. It holds no state.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// POST /calculators/schedule
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}
	s, err := dealcalc.UpdateSchedule(req.Schedule, req.Field, req.Value)
	if errors.Is(err, dealcalc.ErrUnknownField) || errors.Is(err, dealcalc.ErrInvalidPaymentTerms) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "invalid value: "+err.Error(), http.StatusBadRequest)
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

// POST /calculators/product-total
func (h *Handler) ProductTotal(w http.ResponseWriter, r *http.Request) {
	var req ProductTotalRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}
	scheds := req.Schedules
	if req.Product.ID != "" {
		scheds = dealcalc.SchedulesForProduct(req.Schedules, req.Product.ID)
	}
	httpx.JSON(w, http.StatusOK, ProductTotalResponse{TotalPrice: dealcalc.ProductTotal(req.Product, scheds)})
}

// POST /calculators/deal-split
func (h *Handler) DealSplit(w http.ResponseWriter, r *http.Request) {
	var req DealSplitRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}
	pct, ok := dealcalc.DealSplitPercent(req.Schedules)
	httpx.JSON(w, http.StatusOK, DealSplitResponse{SplitPercent: pct, Derived: ok})
}

// POST /calculators/agent-splits
func (h *Handler) AgentSplits(w http.ResponseWriter, r *http.Request) {
	var req AgentSplitsRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}

	var s agentsplit.Splits
	switch req.Op {
	case OpEqual:
		s = agentsplit.Equal(req.Payees)
	case OpAdd:
		s = agentsplit.Add(req.Splits, req.Payee)
	case OpRemove:
		s = agentsplit.Remove(req.Splits, req.Payee)
	case OpSet:
		s = agentsplit.Set(req.Splits, req.Payee, req.Value)
	}

	resp := AgentSplitsResponse{
		Splits: s,
		Total:  money.Fixed2(agentsplit.Total(s)),
		Status: agentsplit.Check(s),
	}
	if req.Pool > 0 {
		resp.Amounts = agentsplit.Amounts(s, req.Pool)
	}
	httpx.JSON(w, http.StatusOK, resp)
}

// POST /deal-drafts/recalculate
func (h *Handler) Recalculate(w http.ResponseWriter, r *http.Request) {
	d := draft.New()
	if err := json.NewDecoder(r.Body).Decode(d); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	d.Recalculate()

	warnings := make([]string, 0)
	for _, warn := range d.Warnings() {
		warnings = append(warnings, warn.String())
	}
	httpx.JSON(w, http.StatusOK, RecalculateResponse{
		Draft:                d,
		Warnings:             warnings,
		AmountEditable:       d.AmountEditable(),
		SplitPercentEditable: d.SplitPercentEditable(),
	})
}
