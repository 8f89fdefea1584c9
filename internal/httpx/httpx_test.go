package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func TestPathID(t *testing.T) {
	cases := map[string]struct {
		value string
		want  uint
		ok    bool
	}{
		"valid":    {"42", 42, true},
		"zero":     {"0", 0, false},
		"negative": {"-1", 0, false},
		"text":     {"abc", 0, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": tc.value})
			got, ok := PathID(r, "id")
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?ownerId=7&limit=x", nil)
	assert.Equal(t, uint(7), QueryUint(r, "ownerId"))
	assert.Equal(t, 0, QueryInt(r, "limit"))
	assert.Equal(t, uint(0), QueryUint(r, "missing"))
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"id": 1})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":1}`, rec.Body.String())
}
