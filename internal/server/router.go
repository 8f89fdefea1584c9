// Package server wires the API handlers into a router.
package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/prism-talent/deal-desk/internal/agent"
	"github.com/prism-talent/deal-desk/internal/attachment"
	"github.com/prism-talent/deal-desk/internal/auth"
	"github.com/prism-talent/deal-desk/internal/brand"
	"github.com/prism-talent/deal-desk/internal/calculator"
	"github.com/prism-talent/deal-desk/internal/deal"
	"github.com/prism-talent/deal-desk/internal/httpx"
	"github.com/prism-talent/deal-desk/internal/middleware"
	"github.com/prism-talent/deal-desk/internal/note"
	"github.com/prism-talent/deal-desk/internal/schedule"
)

// Deps carries everything the router needs to build its handlers.
type Deps struct {
	Tokens      *auth.Tokens
	Sessions    *auth.Sessions
	Agents      *agent.Handler
	Brands      *brand.Handler
	Deals       *deal.Handler
	Schedules   *schedule.Handler
	Attachments *attachment.Handler
	Notes       *note.Handler
	Calculators *calculator.Handler

	AllowedOrigins []string
	BodyLimitBytes int64
}

func admin(fn http.HandlerFunc) http.Handler {
	return auth.RequireAdmin(fn)
}

// NewRouter registers every route and wraps the router with CORS, security
// headers, request logging and the body size limit.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/auth/login", d.Agents.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", d.Sessions.Refresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", d.Sessions.Logout).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(d.Tokens.Middleware)

	// Agents
	api.Handle("/agents", admin(d.Agents.Create)).Methods(http.MethodPost)
	api.HandleFunc("/agents", d.Agents.List).Methods(http.MethodGet)
	api.HandleFunc("/agents/me", d.Agents.Me).Methods(http.MethodGet)
	api.HandleFunc("/agents/{id}", d.Agents.Get).Methods(http.MethodGet)
	api.HandleFunc("/agents/{id}", d.Agents.Update).Methods(http.MethodPatch)
	api.Handle("/agents/{id}", admin(d.Agents.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/agents/{id}/summary", d.Agents.Summary).Methods(http.MethodGet)

	// Brands
	api.HandleFunc("/brands", d.Brands.Create).Methods(http.MethodPost)
	api.HandleFunc("/brands", d.Brands.List).Methods(http.MethodGet)
	api.HandleFunc("/brands/{id}", d.Brands.Get).Methods(http.MethodGet)
	api.HandleFunc("/brands/{id}", d.Brands.Update).Methods(http.MethodPatch)
	api.Handle("/brands/{id}", admin(d.Brands.Delete)).Methods(http.MethodDelete)

	// Deals
	api.HandleFunc("/deals", d.Deals.Create).Methods(http.MethodPost)
	api.HandleFunc("/deals", d.Deals.List).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}", d.Deals.Get).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}", d.Deals.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/deals/{id}/stage", d.Deals.UpdateStage).Methods(http.MethodPatch)
	api.HandleFunc("/deals/{id}/products", d.Deals.Products).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}/schedules", d.Deals.Schedules).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}/schedules/{sid}/splits", d.Schedules.List).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}/schedules/{sid}/splits/batch", d.Schedules.ReplaceBatch).Methods(http.MethodPut)

	// Attachments
	api.HandleFunc("/attachments", d.Attachments.Upload).Methods(http.MethodPost)
	api.HandleFunc("/attachments/{id}", d.Attachments.Download).Methods(http.MethodGet)
	api.HandleFunc("/deals/{id}/attachments", d.Attachments.ListByDeal).Methods(http.MethodGet)

	// Notes
	api.HandleFunc("/deals/{id}/notes", d.Notes.Create).Methods(http.MethodPost)
	api.HandleFunc("/deals/{id}/notes", d.Notes.ListByDeal).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", d.Notes.Update).Methods(http.MethodPatch)
	api.HandleFunc("/notes/{id}", d.Notes.Delete).Methods(http.MethodDelete)

	// Calculators
	api.HandleFunc("/calculators/schedule", d.Calculators.Schedule).Methods(http.MethodPost)
	api.HandleFunc("/calculators/product-total", d.Calculators.ProductTotal).Methods(http.MethodPost)
	api.HandleFunc("/calculators/deal-split", d.Calculators.DealSplit).Methods(http.MethodPost)
	api.HandleFunc("/calculators/agent-splits", d.Calculators.AgentSplits).Methods(http.MethodPost)
	api.HandleFunc("/deal-drafts/recalculate", d.Calculators.Recalculate).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	var h http.Handler = r
	if d.BodyLimitBytes > 0 {
		h = middleware.BodyLimit(d.BodyLimitBytes)(h)
	}
	return c.Handler(middleware.SecurityHeaders(middleware.RequestLogger(h)))
}
