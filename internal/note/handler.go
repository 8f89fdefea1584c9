// Package note serves the notes attached to a deal and records system notes
// for deal lifecycle events.
package note

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/auth"
	"github.com/prism-talent/deal-desk/internal/deal"
	"github.com/prism-talent/deal-desk/internal/httpx"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/validate"
)

// NoteRequest is the body for creating or editing a note.
type NoteRequest struct {
	Text string `json:"text" validate:"required,max=4000"`
}

// Handler serves the notes of a deal.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Deals      deal.Repository
}

// NewHandler wires the default repository. deals is used for access checks.
func NewHandler(db *gorm.DB, deals deal.Repository) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Deals:      deals,
	}
}

// Create handles POST /deals/{id}/notes.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	// 1. Load the deal and check access
	d := deal.Load(w, r, h.Deals)
	if d == nil {
		return
	}

	// 2. Decode the body
	var req NoteRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}

	// 3. The author is the authenticated agent
	agentID, ok := auth.AgentID(r.Context())
	if !ok {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	// 4. Save
	n := models.Note{DealID: d.ID, AuthorID: &agentID, Text: req.Text}
	if err := h.Repository.Create(h.DB, &n); err != nil {
		http.Error(w, "could not save note", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, n)
}

// ListByDeal handles GET /deals/{id}/notes.
func (h *Handler) ListByDeal(w http.ResponseWriter, r *http.Request) {
	d := deal.Load(w, r, h.Deals)
	if d == nil {
		return
	}
	notes, err := h.Repository.ListByDeal(h.DB, d.ID)
	if err != nil {
		http.Error(w, "could not list notes", http.StatusInternalServerError)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	httpx.JSON(w, http.StatusOK, notes)
}

// own loads the note named by {id} and checks that the caller wrote it.
// Admins may act on any note, including system notes.
func (h *Handler) own(w http.ResponseWriter, r *http.Request) *models.Note {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return nil
	}
	n, err := h.Repository.FindByID(h.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "note not found", http.StatusNotFound)
		return nil
	}
	if err != nil {
		http.Error(w, "could not load note", http.StatusInternalServerError)
		return nil
	}
	if auth.IsAdmin(r.Context()) {
		return n
	}
	agentID, _ := auth.AgentID(r.Context())
	if n.AuthorID == nil || *n.AuthorID != agentID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return nil
	}
	return n
}

// Update handles PATCH /notes/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	n := h.own(w, r)
	if n == nil {
		return
	}
	var req NoteRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}
	if err := h.Repository.Update(h.DB, n.ID, req.Text); err != nil {
		http.Error(w, "could not update note", http.StatusInternalServerError)
		return
	}
	n.Text = req.Text
	httpx.JSON(w, http.StatusOK, n)
}

// Delete handles DELETE /notes/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	n := h.own(w, r)
	if n == nil {
		return
	}
	if err := h.Repository.Delete(h.DB, n.ID); err != nil {
		http.Error(w, "could not delete note", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
