package note

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/notify"
)

// SystemNotes records deal lifecycle events as system notes on the deal.
type SystemNotes struct {
	DB         *gorm.DB
	Repository Repository
}

func NewSystemNotes(db *gorm.DB) *SystemNotes {
	return &SystemNotes{DB: db, Repository: NewRepository()}
}

// Text returns the note written for e, or "" for events that leave no note.
func Text(e notify.Event) string {
	switch e.Type {
	case notify.DealCreated:
		return fmt.Sprintf("Deal created at stage %s", e.Stage)
	case notify.DealStageChanged:
		return fmt.Sprintf("Stage changed from %s to %s", e.PreviousStage, e.Stage)
	}
	return ""
}

// Notify records e as a system note. Failures are logged and dropped.
func (s *SystemNotes) Notify(ctx context.Context, e notify.Event) {
	text := Text(e)
	if text == "" {
		return
	}
	n := models.Note{DealID: e.DealID, Text: text, System: true}
	if err := s.Repository.Create(s.DB.WithContext(ctx), &n); err != nil {
		slog.Warn("system note not saved", "dealId", e.DealID, "event", e.Type, "error", err)
	}
}
