package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-credential-server/server/loginsession"
	"github.com/rs/zerolog/log"
)

// LoginHandler authenticates a resource owner and establishes the
// login session that later credential authorisations are bound to.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, "invalid_request", "Failed to parse form data", http.StatusBadRequest)
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")
		if username == "" || password == "" {
			writeJSONError(w, "invalid_request", "username and password are required", http.StatusBadRequest)
			return
		}

		principal, err := s.identities.GetByUsername(r.Context(), username)
		if err != nil || principal.Anonymous() {
			writeJSONError(w, "access_denied", "invalid username or password", http.StatusUnauthorized)
			return
		}

		if err := s.provider.Authenticate(r.Context(), principal, password); err != nil {
			writeJSONError(w, "access_denied", "invalid username or password", http.StatusUnauthorized)
			return
		}

		sessionID := uuid.New().String()
		now := time.Now()
		if err := s.loginSessions.Upsert(sessionID, loginsession.Session{
			PrincipalID: principal.ID,
			Username:    principal.Username,
			CreatedAt:   now,
			ExpiresAt:   now.Add(s.config.GetSessionTTL()),
		}); err != nil {
			writeJSONError(w, "server_error", "failed to create session", http.StatusInternalServerError)
			return
		}

		s.setSessionCookie(w, r, sessionID)
		log.Info().Str("username", username).Msg("resource owner signed in")
		w.WriteHeader(http.StatusNoContent)
	}
}

// LogoutHandler tears down the login session.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err == nil && cookie.Value != "" {
			_ = s.loginSessions.Delete(cookie.Value)
		}
		s.clearSessionCookie(w, r)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionTTL().Seconds()),
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
