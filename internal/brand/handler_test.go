package brand

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/prism-talent/deal-desk/internal/models"
)

type mockRepo struct {
	findByNameFn func(name string) (*models.Brand, error)
	saveFn       func(b *models.Brand) error
	listFn       func(query string) ([]models.Brand, error)
	findByIDFn   func(id uint) (*models.Brand, error)
	updateFn     func(id uint, req *UpdateBrandRequest) (*models.Brand, error)
	deleteFn     func(id uint) error
}

func (m *mockRepo) FindByName(_ *gorm.DB, name string) (*models.Brand, error) {
	return m.findByNameFn(name)
}
func (m *mockRepo) Save(_ *gorm.DB, b *models.Brand) error { return m.saveFn(b) }
func (m *mockRepo) List(_ *gorm.DB, query string) ([]models.Brand, error) {
	return m.listFn(query)
}
func (m *mockRepo) FindByID(_ *gorm.DB, id uint) (*models.Brand, error) { return m.findByIDFn(id) }
func (m *mockRepo) Update(_ *gorm.DB, id uint, req *UpdateBrandRequest) (*models.Brand, error) {
	return m.updateFn(id, req)
}
func (m *mockRepo) Delete(_ *gorm.DB, id uint) error { return m.deleteFn(id) }

func TestCreate(t *testing.T) {
	var saved models.Brand
	repo := &mockRepo{
		findByNameFn: func(name string) (*models.Brand, error) {
			if name == "Acme" {
				return &models.Brand{Name: "Acme"}, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		saveFn: func(b *models.Brand) error {
			b.ID = 3
			saved = *b
			return nil
		},
	}
	h := &Handler{Repository: repo}

	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/brands", strings.NewReader(`{"name":"Globex","industry":"Beverage","website":"https://globex.test"}`)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Beverage", saved.Industry)

	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/brands", strings.NewReader(`{"name":"Acme"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/brands", strings.NewReader(`{"name":"Initech","website":"not a url"}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestList_PassesQuery(t *testing.T) {
	var got string
	repo := &mockRepo{listFn: func(q string) ([]models.Brand, error) {
		got = q
		return []models.Brand{{Name: "Globex"}}, nil
	}}
	h := &Handler{Repository: repo}

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/brands?q=glo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "glo", got)

	var out []models.Brand
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	assert.Len(t, out, 1)
}

func TestGetAndUpdate_NotFound(t *testing.T) {
	repo := &mockRepo{
		findByIDFn: func(uint) (*models.Brand, error) { return nil, gorm.ErrRecordNotFound },
		updateFn: func(uint, *UpdateBrandRequest) (*models.Brand, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := &Handler{Repository: repo}
	vars := map[string]string{"id": "8"}

	rec := httptest.NewRecorder()
	h.Get(rec, mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/brands/8", nil), vars))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.Update(rec, mux.SetURLVars(httptest.NewRequest(http.MethodPatch, "/brands/8", strings.NewReader(`{"notes":"x"}`)), vars))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
