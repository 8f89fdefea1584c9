package auth

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const (
	CtxAgentID ctxKey = "agentID"
	CtxIsAdmin ctxKey = "isAdmin"
)

// Middleware rejects requests without a valid bearer token and stores the
// agent id and admin flag in the request context.
func (t *Tokens) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}
		claims, err := t.ParseAndValidate(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAgent(r.Context(), claims.AgentID, claims.IsAdmin)))
	})
}

// RequireAdmin rejects non-admin callers with 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsAdmin(r.Context()) {
			http.Error(w, "forbidden (admin only)", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithAgent returns a context carrying the authenticated agent.
func WithAgent(ctx context.Context, agentID uint, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, CtxAgentID, agentID)
	return context.WithValue(ctx, CtxIsAdmin, isAdmin)
}

// AgentID returns the authenticated agent stored by Middleware.
func AgentID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(CtxAgentID).(uint)
	return id, ok
}

// IsAdmin reports whether the authenticated agent is an admin.
func IsAdmin(ctx context.Context) bool {
	ok, _ := ctx.Value(CtxIsAdmin).(bool)
	return ok
}
