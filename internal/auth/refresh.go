package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gorm.io/gorm"
)

const (
	RefreshTTL    = 30 * 24 * time.Hour
	RefreshCookie = "rt"
)

// TokenResponse is the body returned by login and refresh.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Sessions issues access tokens together with rotating refresh cookies.
type Sessions struct {
	DB           *gorm.DB
	Tokens       *Tokens
	CookieSecure bool
}

func genRaw() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashRaw(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

func (s *Sessions) setCookie(w http.ResponseWriter, raw string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    raw,
		Path:     "/auth",
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

func (s *Sessions) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookie,
		Value:    "",
		Path:     "/auth",
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (s *Sessions) writeToken(w http.ResponseWriter, access string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.Tokens.TTL().Seconds()),
	})
}

// IssueOnLogin writes an access token and sets a fresh refresh cookie. Call
// it once the agent's password has been checked.
func (s *Sessions) IssueOnLogin(w http.ResponseWriter, agentID uint, isAdmin bool) error {
	access, err := s.Tokens.GenerateAccessToken(agentID, isAdmin)
	if err != nil {
		return err
	}
	raw, err := genRaw()
	if err != nil {
		return err
	}
	rt := RefreshToken{
		AgentID:   agentID,
		FamilyID:  fmt.Sprintf("fam-%d-%d", agentID, time.Now().UnixNano()),
		Hash:      hashRaw(raw),
		IsAdmin:   isAdmin,
		ExpiresAt: time.Now().Add(RefreshTTL),
	}
	if err := s.DB.Create(&rt).Error; err != nil {
		return err
	}
	s.setCookie(w, raw, rt.ExpiresAt)
	s.writeToken(w, access)
	return nil
}

// Refresh handles POST /auth/refresh: the presented refresh token is revoked
// and replaced, and a new access token is returned.
func (s *Sessions) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil || c.Value == "" {
		http.Error(w, "no refresh token", http.StatusUnauthorized)
		return
	}

	var cur RefreshToken
	if err := s.DB.Where("hash = ?", hashRaw(c.Value)).First(&cur).Error; err != nil {
		s.clearCookie(w)
		http.Error(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}
	if !cur.Active(time.Now()) {
		s.clearCookie(w)
		http.Error(w, "expired refresh token", http.StatusUnauthorized)
		return
	}

	now := time.Now()
	if err := s.DB.Model(&cur).Update("revoked_at", &now).Error; err != nil {
		slog.Error("revoke refresh token", "agent_id", cur.AgentID, "error", err)
	}

	access, err := s.Tokens.GenerateAccessToken(cur.AgentID, cur.IsAdmin)
	if err != nil {
		s.clearCookie(w)
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	newRaw, err := genRaw()
	if err != nil {
		s.clearCookie(w)
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	next := RefreshToken{
		AgentID:   cur.AgentID,
		FamilyID:  cur.FamilyID,
		Hash:      hashRaw(newRaw),
		IsAdmin:   cur.IsAdmin,
		ExpiresAt: now.Add(RefreshTTL),
	}
	if err := s.DB.Create(&next).Error; err != nil {
		s.clearCookie(w)
		http.Error(w, "could not issue token", http.StatusInternalServerError)
		return
	}
	s.setCookie(w, newRaw, next.ExpiresAt)
	s.writeToken(w, access)
}

// Logout handles POST /auth/logout.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(RefreshCookie); err == nil && c.Value != "" {
		now := time.Now()
		if err := s.DB.Model(&RefreshToken{}).Where("hash = ?", hashRaw(c.Value)).Update("revoked_at", &now).Error; err != nil {
			slog.Error("revoke refresh token on logout", "error", err)
		}
	}
	s.clearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
