package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingSecret = errors.New("JWT_SECRET is not set")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims of an access token. IsAdmin gates agent and brand administration.
type Claims struct {
	AgentID uint `json:"agentId"`
	IsAdmin bool `json:"isAdmin"`
	jwt.RegisteredClaims
}

// DefaultAccessTTL is the lifetime of an access token when none is configured.
const DefaultAccessTTL = 15 * time.Minute

// Tokens signs and validates HS256 access tokens.
type Tokens struct {
	secret   []byte
	ttl      time.Duration
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokens returns a signer for access tokens. A zero ttl uses DefaultAccessTTL.
func NewTokens(secret string, ttl time.Duration, issuer, audience string) (*Tokens, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultAccessTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, issuer: issuer, audience: audience, now: time.Now}, nil
}

// TTL is the lifetime of issued access tokens.
func (t *Tokens) TTL() time.Duration { return t.ttl }

// GenerateAccessToken issues a token with iss, aud, iat, nbf and jti set.
func (t *Tokens) GenerateAccessToken(agentID uint, isAdmin bool) (string, error) {
	now := t.now()
	claims := &Claims{
		AgentID: agentID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Audience:  []string{t.audience},
			Subject:   fmt.Sprint(agentID),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
			ID:        fmt.Sprintf("%d-%d", agentID, now.UnixNano()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseAndValidate checks signature, issuer, audience and expiry.
func (t *Tokens) ParseAndValidate(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return c, nil
}
