// Package brand serves the brand directory deals refer to.
package brand

import (
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/httpx"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/validate"
)

// Handler serves the /brands routes.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "brand not found", http.StatusNotFound)
		return
	}
	slog.Error("brand lookup", "error", err)
	http.Error(w, "failed to load brand", http.StatusInternalServerError)
}

// POST /brands
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBrandRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}
	if _, err := h.Repository.FindByName(h.DB, req.Name); err == nil {
		http.Error(w, "brand already exists", http.StatusConflict)
		return
	}

	b := models.Brand{
		Name:     req.Name,
		Industry: req.Industry,
		Website:  req.Website,
		Notes:    req.Notes,
	}
	if err := h.Repository.Save(h.DB, &b); err != nil {
		slog.Error("save brand", "name", req.Name, "error", err)
		http.Error(w, "failed to save brand", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

// GET /brands?q=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.List(h.DB, r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("list brands", "error", err)
		http.Error(w, "failed to list brands", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// GET /brands/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	b, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// PATCH /brands/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	var req UpdateBrandRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}
	b, err := h.Repository.Update(h.DB, id, &req)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

// DELETE /brands/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Delete(h.DB, id); err != nil {
		slog.Error("delete brand", "brandId", id, "error", err)
		http.Error(w, "failed to delete brand", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
