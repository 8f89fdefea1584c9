package deal

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/prism-talent/deal-desk/internal/auth"
	"github.com/prism-talent/deal-desk/internal/dealapi"
	"github.com/prism-talent/deal-desk/internal/httpx"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/notify"
	"github.com/prism-talent/deal-desk/internal/validate"
)

// Handler serves the /deals routes.
type Handler struct {
	Repository Repository
	Notifier   notify.Notifier
}

// NewHandler returns a Handler that reports lifecycle events to n.
func NewHandler(repo Repository, n notify.Notifier) *Handler {
	if n == nil {
		n = notify.Nop{}
	}
	return &Handler{Repository: repo, Notifier: n}
}

// CanAccess reports whether the caller may see d: admins, the owner and
// participating agents.
func CanAccess(ctx context.Context, d *models.Deal) bool {
	if auth.IsAdmin(ctx) {
		return true
	}
	id, ok := auth.AgentID(ctx)
	if !ok {
		return false
	}
	if d.OwnerID == id {
		return true
	}
	return slices.ContainsFunc(d.Agents, func(a models.Agent) bool { return a.ID == id })
}

// FindSchedule looks a schedule up among the deal's product and deal-level
// schedules.
func FindSchedule(d *models.Deal, id uint) (*models.Schedule, bool) {
	for i := range d.Products {
		for j := range d.Products[i].Schedules {
			if d.Products[i].Schedules[j].ID == id {
				return &d.Products[i].Schedules[j], true
			}
		}
	}
	for i := range d.Schedules {
		if d.Schedules[i].ID == id {
			return &d.Schedules[i], true
		}
	}
	return nil, false
}

func (h *Handler) load(w http.ResponseWriter, r *http.Request) *models.Deal {
	return Load(w, r, h.Repository)
}

// Load fetches the deal named by the {id} path variable and checks access.
// It writes the error response itself and returns nil on failure.
func Load(w http.ResponseWriter, r *http.Request, repo Repository) *models.Deal {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil
	}
	d, err := repo.FindByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "deal not found", http.StatusNotFound)
		return nil
	}
	if err != nil {
		slog.Error("load deal", "dealId", id, "error", err)
		http.Error(w, "failed to load deal", http.StatusInternalServerError)
		return nil
	}
	if !CanAccess(r.Context(), d) {
		http.Error(w, "access denied", http.StatusForbidden)
		return nil
	}
	return d
}

// POST /deals
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req dealapi.CreateDealRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}

	if !auth.IsAdmin(r.Context()) {
		caller, _ := auth.AgentID(r.Context())
		if caller != req.OwnerID && !slices.Contains(req.AgentIDs, caller) {
			http.Error(w, "access denied", http.StatusForbidden)
			return
		}
	}

	d := NewDeal(req)
	if err := h.Repository.Create(r.Context(), &d); err != nil {
		switch {
		case errors.Is(err, ErrUnknownAgent), errors.Is(err, ErrUnknownBrand):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			slog.Error("create deal", "error", err)
			http.Error(w, "failed to save deal", http.StatusInternalServerError)
		}
		return
	}

	created, err := h.Repository.FindByID(r.Context(), d.ID)
	if err != nil {
		slog.Error("reload deal", "dealId", d.ID, "error", err)
		http.Error(w, "failed to load deal", http.StatusInternalServerError)
		return
	}
	slog.Info("deal created", "dealId", created.ID, "products", len(created.Products), "amount", created.Amount.String())

	h.Notifier.Notify(r.Context(), notify.Event{
		Type:     notify.DealCreated,
		DealID:   created.ID,
		DealName: created.Name,
		Stage:    created.Stage,
		OwnerID:  created.OwnerID,
		Amount:   created.Amount.InexactFloat64(),
	})
	httpx.JSON(w, http.StatusCreated, ToResponse(*created))
}

// GET /deals
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Stage:    q.Get("stage"),
		Division: q.Get("division"),
		OwnerID:  httpx.QueryUint(r, "ownerId"),
		Query:    q.Get("q"),
		Limit:    httpx.QueryInt(r, "limit"),
		Offset:   httpx.QueryInt(r, "offset"),
	}
	if !auth.IsAdmin(r.Context()) {
		id, ok := auth.AgentID(r.Context())
		if !ok {
			http.Error(w, "access denied", http.StatusForbidden)
			return
		}
		f.VisibleTo = id
	}

	list, err := h.Repository.List(r.Context(), f)
	if err != nil {
		slog.Error("list deals", "error", err)
		http.Error(w, "failed to list deals", http.StatusInternalServerError)
		return
	}
	out := make([]dealapi.DealResponse, 0, len(list))
	for _, d := range list {
		out = append(out, ToResponse(d))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GET /deals/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d := h.load(w, r)
	if d == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(*d))
}

// GET /deals/{id}/products
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	d := h.load(w, r)
	if d == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(*d).Products)
}

// GET /deals/{id}/schedules
func (h *Handler) Schedules(w http.ResponseWriter, r *http.Request) {
	d := h.load(w, r)
	if d == nil {
		return
	}
	httpx.JSON(w, http.StatusOK, ToResponse(*d).AllSchedules())
}

// PATCH /deals/{id}/stage
func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	d := h.load(w, r)
	if d == nil {
		return
	}
	var req StageRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}

	previous := d.Stage
	if req.Stage != previous {
		if err := h.Repository.UpdateStage(r.Context(), d.ID, req.Stage); err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "deal not found", http.StatusNotFound)
				return
			}
			slog.Error("update stage", "dealId", d.ID, "error", err)
			http.Error(w, "failed to update stage", http.StatusInternalServerError)
			return
		}
		d.Stage = req.Stage
		h.Notifier.Notify(r.Context(), notify.Event{
			Type:          notify.DealStageChanged,
			DealID:        d.ID,
			DealName:      d.Name,
			Stage:         d.Stage,
			PreviousStage: previous,
			OwnerID:       d.OwnerID,
			Amount:        d.Amount.InexactFloat64(),
		})
	}
	httpx.JSON(w, http.StatusOK, ToResponse(*d))
}

// DELETE /deals/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	d := h.load(w, r)
	if d == nil {
		return
	}
	caller, _ := auth.AgentID(r.Context())
	if !auth.IsAdmin(r.Context()) && caller != d.OwnerID {
		http.Error(w, "only the owner can delete a deal", http.StatusForbidden)
		return
	}
	if err := h.Repository.Delete(r.Context(), d.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "deal not found", http.StatusNotFound)
			return
		}
		slog.Error("delete deal", "dealId", d.ID, "error", err)
		http.Error(w, "failed to delete deal", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
