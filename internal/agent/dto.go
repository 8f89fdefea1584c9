package agent

import (
	"strconv"

	"github.com/prism-talent/deal-desk/internal/draft"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/money"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateAgentRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"required,email,max=150"`
	Phone     string `json:"phone" validate:"max=30"`
	Division  string `json:"division" validate:"max=100"`
	Password  string `json:"password" validate:"omitempty,min=8"`
	IsAdmin   bool   `json:"isAdmin"`
}

type UpdateAgentRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=30"`
	Division  *string `json:"division" validate:"omitempty,max=100"`
}

// CreatedResponse carries the generated password when the request did not
// set one. It is shown once.
type CreatedResponse struct {
	Agent             models.Agent `json:"agent"`
	TemporaryPassword string       `json:"temporaryPassword,omitempty"`
}

// SummaryResponse is an agent's pipeline and closed totals.
type SummaryResponse struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Division           string  `json:"division"`
	OpenDeals          int     `json:"openDeals"`
	ClosedWonDeals     int     `json:"closedWonDeals"`
	PipelineAmount     float64 `json:"pipelineAmount"`
	ClosedAmount       float64 `json:"closedAmount"`
	PipelineCommission float64 `json:"pipelineCommission"`
	ClosedCommission   float64 `json:"closedCommission"`
}

// BuildSummary aggregates the deals an agent owns or takes part in. Commission
// is the deal amount times the deal split percentage.
func BuildSummary(a models.Agent, deals []models.Deal) SummaryResponse {
	var pipeline, closed, pipelineComm, closedComm float64
	open, won := 0, 0
	for _, d := range deals {
		amount := d.Amount.InexactFloat64()
		commission := amount * d.SplitPercent.InexactFloat64() / 100
		if draft.Stage(d.Stage) == draft.StageClosedWon {
			won++
			closed += amount
			closedComm += commission
			continue
		}
		open++
		pipeline += amount
		pipelineComm += commission
	}
	return SummaryResponse{
		ID:                 a.ID,
		Name:               a.DisplayName(),
		Email:              a.Email,
		Division:           a.Division,
		OpenDeals:          open,
		ClosedWonDeals:     won,
		PipelineAmount:     money.Round2(pipeline),
		ClosedAmount:       money.Round2(closed),
		PipelineCommission: money.Round2(pipelineComm),
		ClosedCommission:   money.Round2(closedComm),
	}
}

// Directory maps agent ids to display names, the form draft payloads use for
// agentName.
func Directory(agents []models.Agent) map[string]string {
	out := make(map[string]string, len(agents))
	for _, a := range agents {
		out[strconv.FormatUint(uint64(a.ID), 10)] = a.DisplayName()
	}
	return out
}
