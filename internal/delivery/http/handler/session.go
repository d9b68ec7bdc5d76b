package handler

import (
	"net/http"

	"mediconnect/internal/delivery/http/middleware"
	"mediconnect/internal/domain/entity"
	"mediconnect/internal/service"

	"github.com/sirupsen/logrus"
)

// SessionManager issues and clears the session cookie for every portal
type SessionManager struct {
	sessionStore service.SessionStore
	secure       bool
	log          *logrus.Logger
}

func NewSessionManager(sessionStore service.SessionStore, secure bool, log *logrus.Logger) *SessionManager {
	return &SessionManager{
		sessionStore: sessionStore,
		secure:       secure,
		log:          log,
	}
}

// Start replaces any session the request already carries with a new one
func (m *SessionManager) Start(w http.ResponseWriter, r *http.Request, session *entity.Session) error {
	if token, ok := middleware.GetTokenFromContext(r.Context()); ok {
		if err := m.sessionStore.Delete(r.Context(), token); err != nil {
			m.log.Warnf("Failed to drop previous session: %+v", err)
		}
	}

	token, err := m.sessionStore.Create(r.Context(), session)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.sessionStore.TTL().Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *SessionManager) End(w http.ResponseWriter, r *http.Request) {
	if token, ok := middleware.GetTokenFromContext(r.Context()); ok {
		if err := m.sessionStore.Delete(r.Context(), token); err != nil {
			m.log.Warnf("Failed to delete session: %+v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func currentSession(r *http.Request) *entity.Session {
	session, _ := middleware.GetSessionFromContext(r.Context())
	return session
}
