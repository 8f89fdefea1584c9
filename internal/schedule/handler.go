// Package schedule serves the per-schedule agent split endpoints.
package schedule

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/prism-talent/deal-desk/internal/agentsplit"
	"github.com/prism-talent/deal-desk/internal/deal"
	"github.com/prism-talent/deal-desk/internal/dealapi"
	"github.com/prism-talent/deal-desk/internal/httpx"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/money"
	"github.com/prism-talent/deal-desk/internal/validate"
)

// Handler serves the per-schedule split routes.
type Handler struct {
	Repository Repository
	Deals      deal.Repository
}

func NewHandler(repo Repository, deals deal.Repository) *Handler {
	return &Handler{Repository: repo, Deals: deals}
}

// load resolves {id} and {sid}, checking that the schedule belongs to the
// deal and the caller may see the deal.
func (h *Handler) load(w http.ResponseWriter, r *http.Request) *models.Schedule {
	d := deal.Load(w, r, h.Deals)
	if d == nil {
		return nil
	}
	sid, ok := httpx.PathID(r, "sid")
	if !ok {
		http.Error(w, "invalid schedule id", http.StatusBadRequest)
		return nil
	}
	s, ok := deal.FindSchedule(d, sid)
	if !ok {
		http.Error(w, "schedule not found", http.StatusNotFound)
		return nil
	}
	return s
}

// GET /deals/{id}/schedules/{sid}/splits
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	s := h.load(w, r)
	if s == nil {
		return
	}
	list, err := h.Repository.ListSplits(r.Context(), s.ID)
	if err != nil {
		slog.Error("list schedule splits", "scheduleId", s.ID, "error", err)
		http.Error(w, "failed to list splits", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, toEntries(list))
}

// PUT /deals/{id}/schedules/{sid}/splits/batch
func (h *Handler) ReplaceBatch(w http.ResponseWriter, r *http.Request) {
	s := h.load(w, r)
	if s == nil {
		return
	}
	var req dealapi.SplitBatchRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}

	rows := NewSplits(req.Splits, s.CommissionAmount)
	if err := h.Repository.ReplaceSplits(r.Context(), s.ID, rows); err != nil {
		slog.Error("replace schedule splits", "scheduleId", s.ID, "error", err)
		http.Error(w, "failed to save splits", http.StatusInternalServerError)
		return
	}

	total := 0.0
	for _, e := range req.Splits {
		total += e.SplitPercent
	}
	if len(rows) > 0 && math.Abs(total-100) > agentsplit.Tolerance+1e-9 {
		slog.Warn("schedule splits do not total 100%", "scheduleId", s.ID, "total", money.Fixed2(total))
	}
	httpx.JSON(w, http.StatusOK, toEntries(rows))
}

// NewSplits converts batch entries to rows. A missing splitAmount is derived
// from the schedule's commission.
func NewSplits(entries []dealapi.SplitEntry, commission decimal.Decimal) []models.ScheduleSplit {
	rows := make([]models.ScheduleSplit, 0, len(entries))
	for _, e := range entries {
		pct := money.FromFloat(e.SplitPercent)
		amount := commission.Mul(pct).Div(decimal.NewFromInt(100)).Round(2)
		if e.SplitAmount != nil {
			amount = money.FromFloat(*e.SplitAmount)
		}
		rows = append(rows, models.ScheduleSplit{
			AgentID:      e.AgentID,
			AgentName:    e.AgentName,
			SplitPercent: pct,
			SplitAmount:  amount,
		})
	}
	return rows
}

func toEntries(rows []models.ScheduleSplit) []dealapi.SplitEntry {
	out := make([]dealapi.SplitEntry, 0, len(rows))
	for _, row := range rows {
		amount := row.SplitAmount.InexactFloat64()
		out = append(out, dealapi.SplitEntry{
			AgentName:    row.AgentName,
			AgentID:      row.AgentID,
			SplitPercent: row.SplitPercent.InexactFloat64(),
			SplitAmount:  &amount,
		})
	}
	return out
}
