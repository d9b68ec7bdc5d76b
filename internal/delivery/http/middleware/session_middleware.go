package middleware

import (
	"context"
	"errors"
	"net/http"

	"mediconnect/internal/domain/entity"
	"mediconnect/internal/service"
	"mediconnect/pkg/response"

	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	SessionKey contextKey = "session"
	TokenKey   contextKey = "session_token"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "mediconnect_session"

type SessionMiddleware struct {
	sessionStore service.SessionStore
	log          *logrus.Logger
}

func NewSessionMiddleware(sessionStore service.SessionStore, log *logrus.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		sessionStore: sessionStore,
		log:          log,
	}
}

// LoadSession attaches the session named by the cookie, if any. Requests
// without a valid session pass through anonymously.
func (m *SessionMiddleware) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := m.sessionStore.Get(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, service.ErrSessionNotFound) {
				m.log.Warnf("Failed to load session: %+v", err)
			}
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, session)
		ctx = context.WithValue(ctx, TokenKey, cookie.Value)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects requests whose session is missing or belongs to
// another portal. It must run after LoadSession.
func RequireRole(role entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := GetSessionFromContext(r.Context())
			if !ok {
				response.Unauthorized(w, "Please log in to continue")
				return
			}

			if session.Role != role {
				response.Forbidden(w, "You don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for admin-only endpoints
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)(next)
}

// RequireDoctor is a convenience middleware for doctor-only endpoints
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor)(next)
}

// RequirePatient is a convenience middleware for patient-only endpoints
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient)(next)
}

// GetSessionFromContext extracts the session from context
func GetSessionFromContext(ctx context.Context) (*entity.Session, bool) {
	session, ok := ctx.Value(SessionKey).(*entity.Session)
	return session, ok
}

// GetTokenFromContext extracts the raw session token from context
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}
