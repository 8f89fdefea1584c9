package note

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/auth"
	"github.com/prism-talent/deal-desk/internal/deal"
	"github.com/prism-talent/deal-desk/internal/models"
	"github.com/prism-talent/deal-desk/internal/notify"
)

type mockRepo struct {
	createFn func(n *models.Note) error
	listFn   func(dealID uint) ([]models.Note, error)
	findFn   func(id uint) (*models.Note, error)
	updateFn func(id uint, text string) error
	deleteFn func(id uint) error
}

func (m *mockRepo) Create(_ *gorm.DB, n *models.Note) error { return m.createFn(n) }

func (m *mockRepo) ListByDeal(_ *gorm.DB, dealID uint) ([]models.Note, error) {
	return m.listFn(dealID)
}

func (m *mockRepo) FindByID(_ *gorm.DB, id uint) (*models.Note, error) { return m.findFn(id) }

func (m *mockRepo) Update(_ *gorm.DB, id uint, text string) error { return m.updateFn(id, text) }

func (m *mockRepo) Delete(_ *gorm.DB, id uint) error { return m.deleteFn(id) }

type dealRepo struct {
	deal.Repository
	d *models.Deal
}

func (r dealRepo) FindByID(_ context.Context, id uint) (*models.Deal, error) {
	if r.d == nil || r.d.ID != id {
		return nil, deal.ErrNotFound
	}
	return r.d, nil
}

func ownedDeal() dealRepo {
	return dealRepo{d: &models.Deal{Model: gorm.Model{ID: 1}, OwnerID: 5}}
}

func request(method, target, body string, agentID uint, isAdmin bool, id string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r = r.WithContext(auth.WithAgent(r.Context(), agentID, isAdmin))
	return mux.SetURLVars(r, map[string]string{"id": id})
}

func uintPtr(v uint) *uint { return &v }

func TestCreate(t *testing.T) {
	var saved models.Note
	repo := &mockRepo{createFn: func(n *models.Note) error {
		saved = *n
		n.ID = 9
		return nil
	}}
	h := &Handler{Repository: repo, Deals: ownedDeal()}

	rec := httptest.NewRecorder()
	h.Create(rec, request(http.MethodPost, "/deals/1/notes", `{"text":"Brand asked for a second draft"}`, 5, false, "1"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, uint(1), saved.DealID)
	require.NotNil(t, saved.AuthorID)
	assert.Equal(t, uint(5), *saved.AuthorID)
	assert.False(t, saved.System)

	var got models.Note
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, uint(9), got.ID)
}

func TestCreate_Errors(t *testing.T) {
	repo := &mockRepo{createFn: func(*models.Note) error { return errors.New("boom") }}
	h := &Handler{Repository: repo, Deals: ownedDeal()}

	tests := []struct {
		name    string
		body    string
		agentID uint
		id      string
		want    int
	}{
		{"empty text", `{"text":""}`, 5, "1", http.StatusUnprocessableEntity},
		{"not a participant", `{"text":"hi"}`, 8, "1", http.StatusForbidden},
		{"unknown deal", `{"text":"hi"}`, 5, "2", http.StatusNotFound},
		{"store failure", `{"text":"hi"}`, 5, "1", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Create(rec, request(http.MethodPost, "/deals/"+tt.id+"/notes", tt.body, tt.agentID, false, tt.id))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestListByDeal(t *testing.T) {
	repo := &mockRepo{listFn: func(dealID uint) ([]models.Note, error) {
		assert.Equal(t, uint(1), dealID)
		return nil, nil
	}}
	h := &Handler{Repository: repo, Deals: ownedDeal()}

	rec := httptest.NewRecorder()
	h.ListByDeal(rec, request(http.MethodGet, "/deals/1/notes", "", 5, false, "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestUpdateAndDelete_Ownership(t *testing.T) {
	notes := map[uint]*models.Note{
		1: {Model: gorm.Model{ID: 1}, DealID: 1, AuthorID: uintPtr(5), Text: "mine"},
		2: {Model: gorm.Model{ID: 2}, DealID: 1, Text: "Deal created at stage Negotiation", System: true},
	}
	var deleted []uint
	repo := &mockRepo{
		findFn: func(id uint) (*models.Note, error) {
			n, ok := notes[id]
			if !ok {
				return nil, gorm.ErrRecordNotFound
			}
			cp := *n
			return &cp, nil
		},
		updateFn: func(uint, string) error { return nil },
		deleteFn: func(id uint) error {
			deleted = append(deleted, id)
			return nil
		},
	}
	h := &Handler{Repository: repo}

	rec := httptest.NewRecorder()
	h.Update(rec, request(http.MethodPatch, "/notes/1", `{"text":"edited"}`, 5, false, "1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"text":"edited"`)

	tests := []struct {
		name    string
		agentID uint
		isAdmin bool
		id      string
		want    int
	}{
		{"other agent", 6, false, "1", http.StatusForbidden},
		{"system note by agent", 5, false, "2", http.StatusForbidden},
		{"missing", 5, false, "3", http.StatusNotFound},
		{"bad id", 5, false, "x", http.StatusBadRequest},
		{"author", 5, false, "1", http.StatusNoContent},
		{"admin on system note", 1, true, "2", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Delete(rec, request(http.MethodDelete, "/notes/"+tt.id, "", tt.agentID, tt.isAdmin, tt.id))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, []uint{1, 2}, deleted)
}

func TestSystemNotes(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=prism dbname=prism sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var saved []models.Note
	s := &SystemNotes{DB: db, Repository: &mockRepo{createFn: func(n *models.Note) error {
		saved = append(saved, *n)
		return nil
	}}}

	ctx := context.Background()
	s.Notify(ctx, notify.Event{Type: notify.DealStageChanged, DealID: 4, Stage: "Closed Won", PreviousStage: "Terms Agreed Upon"})
	s.Notify(ctx, notify.Event{Type: "deal.deleted", DealID: 4})

	require.Len(t, saved, 1)
	assert.Equal(t, uint(4), saved[0].DealID)
	assert.True(t, saved[0].System)
	assert.Nil(t, saved[0].AuthorID)
	assert.Equal(t, "Stage changed from Terms Agreed Upon to Closed Won", saved[0].Text)
	assert.Equal(t, "Deal created at stage Negotiation", Text(notify.Event{Type: notify.DealCreated, Stage: "Negotiation"}))
}
