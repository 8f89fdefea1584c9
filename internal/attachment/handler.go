// Package attachment stores files uploaded against a deal.
package attachment

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gabriel-vasile/mimetype"

	"github.com/prism-talent/deal-desk/internal/auth"
	"github.com/prism-talent/deal-desk/internal/deal"
	"github.com/prism-talent/deal-desk/internal/dealapi"
	"github.com/prism-talent/deal-desk/internal/httpx"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/validate"
)

// Handler serves attachment upload, listing and download.
type Handler struct {
	Repository Repository
	Deals      deal.Repository
}

func NewHandler(repo Repository, deals deal.Repository) *Handler {
	return &Handler{Repository: repo, Deals: deals}
}

// checkDeal answers 404/403 itself and reports whether the caller may attach
// to or read from dealID.
func (h *Handler) checkDeal(w http.ResponseWriter, r *http.Request, dealID uint) bool {
	d, err := h.Deals.FindByID(r.Context(), dealID)
	if errors.Is(err, deal.ErrNotFound) {
		http.Error(w, "deal not found", http.StatusNotFound)
		return false
	}
	if err != nil {
		slog.Error("load deal", "dealId", dealID, "error", err)
		http.Error(w, "failed to load deal", http.StatusInternalServerError)
		return false
	}
	if !deal.CanAccess(r.Context(), d) {
		http.Error(w, "access denied", http.StatusForbidden)
		return false
	}
	return true
}

// POST /attachments
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	// 1. Decode and validate the payload
	var req dealapi.AttachmentUploadRequest
	if err := validate.DecodeAndValidate(r, &req); err != nil {
		validate.WriteError(w, err)
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Base64Data)
	if err != nil {
		http.Error(w, "base64Data is not valid base64", http.StatusBadRequest)
		return
	}
	if req.FileSize > 0 && req.FileSize != int64(len(data)) {
		http.Error(w, fmt.Sprintf("fileSize %d does not match %d decoded bytes", req.FileSize, len(data)), http.StatusBadRequest)
		return
	}

	// 2. The deal must exist and be visible to the caller
	if !h.checkDeal(w, r, req.DealID) {
		return
	}

	// 3. Fill defaults; only admins may record another agent as uploader
	uploader, _ := auth.AgentID(r.Context())
	if req.UploadedByID != 0 && auth.IsAdmin(r.Context()) {
		uploader = req.UploadedByID
	}
	fileType := req.FileType
	if fileType == "" {
		fileType = mimetype.Detect(data).String()
	}

	a := models.Attachment{
		DealID:       req.DealID,
		FileName:     req.FileName,
		FileType:     fileType,
		FileSize:     int64(len(data)),
		Data:         data,
		Description:  req.Description,
		UploadedByID: uploader,
	}
	if err := h.Repository.Create(r.Context(), &a); err != nil {
		slog.Error("save attachment", "dealId", req.DealID, "file", req.FileName, "error", err)
		http.Error(w, "failed to save attachment", http.StatusInternalServerError)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(a))
}

// GET /deals/{id}/attachments
func (h *Handler) ListByDeal(w http.ResponseWriter, r *http.Request) {
	d := deal.Load(w, r, h.Deals)
	if d == nil {
		return
	}
	list, err := h.Repository.ListByDeal(r.Context(), d.ID)
	if err != nil {
		slog.Error("list attachments", "dealId", d.ID, "error", err)
		http.Error(w, "failed to list attachments", http.StatusInternalServerError)
		return
	}
	out := make([]dealapi.AttachmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toResponse(a))
	}
	httpx.JSON(w, http.StatusOK, out)
}

// GET /attachments/{id}
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathID(r, "id")
	if !ok {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	a, err := h.Repository.FindByID(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "attachment not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("load attachment", "attachmentId", id, "error", err)
		http.Error(w, "failed to load attachment", http.StatusInternalServerError)
		return
	}
	if !h.checkDeal(w, r, a.DealID) {
		return
	}

	w.Header().Set("Content-Type", a.FileType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.FileName))
	_, _ = w.Write(a.Data)
}

func toResponse(a models.Attachment) dealapi.AttachmentResponse {
	return dealapi.AttachmentResponse{
		ID:           a.ID,
		DealID:       a.DealID,
		FileName:     a.FileName,
		FileType:     a.FileType,
		FileSize:     a.FileSize,
		Description:  a.Description,
		UploadedByID: a.UploadedByID,
		CreatedAt:    a.CreatedAt,
	}
}
