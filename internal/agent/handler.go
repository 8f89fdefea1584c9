// Package agent manages the agent directory and agent login.
package agent

import (
	"errors"
	"log/slog"
	"net/http"

	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/auth"
	"github.com/prism-talent/deal-desk/internal/httpx"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/utils"
	"github.com/prism-talent/deal-desk/internal/validate"
)

// TokenIssuer writes the login response for an authenticated agent.
type TokenIssuer interface {
	IssueOnLogin(w http.ResponseWriter, agentID uint, isAdmin bool) error
}

// Handler serves login and the /agents routes.
type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Sessions   TokenIssuer
}

// NewHandler wires the default repository. sessions issues tokens on login.
func NewHandler(db *gorm.DB, sessions TokenIssuer) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Sessions:   sessions,
	}
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}

	a, err := h.Repository.FindByEmail(h.DB, req.Email)
	if err != nil || !utils.CheckPassword(a.Password, req.Password) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	if err := h.Sessions.IssueOnLogin(w, a.ID, a.IsAdmin); err != nil {
		slog.Error("issue tokens", "agentId", a.ID, "error", err)
		http.Error(w, "failed to issue tokens", http.StatusInternalServerError)
		return
	}
	slog.Info("agent logged in", "agentId", a.ID)
}

// POST /agents (admin)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAgentRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}

	if _, err := h.Repository.FindByEmail(h.DB, req.Email); err == nil {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}

	password, temporary := req.Password, ""
	if password == "" {
		var err error
		if temporary, err = utils.TemporaryPassword(); err != nil {
			http.Error(w, "failed to generate password", http.StatusInternalServerError)
			return
		}
		password = temporary
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		http.Error(w, "failed to hash password", http.StatusInternalServerError)
		return
	}

	a := models.Agent{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		Division:          req.Division,
		Password:          hash,
		MustResetPassword: temporary != "",
		IsAdmin:           req.IsAdmin,
	}
	if err := h.Repository.Save(h.DB, &a); err != nil {
		slog.Error("save agent", "email", req.Email, "error", err)
		http.Error(w, "failed to save agent", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, CreatedResponse{Agent: a, TemporaryPassword: temporary})
}

// GET /agents
// Every authenticated agent may list the directory; deal payloads need the
// names of co-agents.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListAll(h.DB)
	if err != nil {
		slog.Error("list agents", "error", err)
		http.Error(w, "failed to list agents", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// selfOrAdmin resolves {id} and checks the caller is that agent or an admin.
func selfOrAdmin(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	caller, _ := auth.AgentID(r.Context())
	if !auth.IsAdmin(r.Context()) && caller != id {
		http.Error(w, "access denied", http.StatusForbidden)
		return 0, false
	}
	return id, true
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "agent not found", http.StatusNotFound)
		return
	}
	slog.Error("agent lookup", "error", err)
	http.Error(w, "failed to load agent", http.StatusInternalServerError)
}

// GET /agents/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := selfOrAdmin(w, r)
	if !ok {
		return
	}
	a, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// GET /agents/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.AgentID(r.Context())
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	a, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// PATCH /agents/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := selfOrAdmin(w, r)
	if !ok {
		return
	}
	var req UpdateAgentRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}
	a, err := h.Repository.Update(h.DB, id, &req)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

// DELETE /agents/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if err := h.Repository.Delete(h.DB, id); err != nil {
		slog.Error("delete agent", "agentId", id, "error", err)
		http.Error(w, "failed to delete agent", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /agents/{id}/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := selfOrAdmin(w, r)
	if !ok {
		return
	}
	a, err := h.Repository.FindByID(h.DB, id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	deals, err := h.Repository.DealsFor(h.DB, id)
	if err != nil {
		slog.Error("list agent deals", "agentId", id, "error", err)
		http.Error(w, "failed to load deals", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusOK, BuildSummary(*a, deals))
}
