package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T) *Tokens {
	t.Helper()
	tk, err := NewTokens("test-secret", time.Hour, "prism", "deal-desk")
	require.NoError(t, err)
	return tk
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	_, err := NewTokens("", time.Hour, "prism", "deal-desk")
	assert.ErrorIs(t, err, ErrMissingSecret)

	tk, err := NewTokens("s", 0, "prism", "deal-desk")
	require.NoError(t, err)
	assert.Equal(t, DefaultAccessTTL, tk.TTL())
}

func TestTokens_RoundTrip(t *testing.T) {
	tk := newTestTokens(t)
	raw, err := tk.GenerateAccessToken(42, true)
	require.NoError(t, err)

	claims, err := tk.ParseAndValidate(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AgentID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokens_Rejects(t *testing.T) {
	tk := newTestTokens(t)
	raw, err := tk.GenerateAccessToken(1, false)
	require.NoError(t, err)

	other, err := NewTokens("other-secret", time.Hour, "prism", "deal-desk")
	require.NoError(t, err)
	_, err = other.ParseAndValidate(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongAud, err := NewTokens("test-secret", time.Hour, "prism", "billing")
	require.NoError(t, err)
	_, err = wrongAud.ParseAndValidate(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	later := *tk
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.ParseAndValidate(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tk.ParseAndValidate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	tk := newTestTokens(t)
	var gotID uint
	var gotAdmin bool
	h := tk.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = AgentID(r.Context())
		gotAdmin = IsAdmin(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/deals", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	raw, err := tk.GenerateAccessToken(7, false)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/deals", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, uint(7), gotID)
	assert.False(t, gotAdmin)

	// preflight passes through untouched
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/deals", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	h := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/agents", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithAgent(req.Context(), 1, false)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(WithAgent(req.Context(), 1, true)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRefreshTokenHelpers(t *testing.T) {
	raw, err := genRaw()
	require.NoError(t, err)
	assert.Len(t, raw, 43)
	assert.Equal(t, hashRaw(raw), hashRaw(raw))
	assert.NotEqual(t, raw, hashRaw(raw))

	now := time.Now()
	assert.True(t, RefreshToken{ExpiresAt: now.Add(time.Hour)}.Active(now))
	assert.False(t, RefreshToken{ExpiresAt: now.Add(-time.Hour)}.Active(now))
	assert.False(t, RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &now}.Active(now))
}
