package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-credential-server/auth"
	"github.com/jrsteele09/go-credential-server/identity"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON   = "application/json; charset=utf-8"
	sessionCookieName = "session_id"
)

// AuthoriseCredentials exchanges a temporary credential set, bound to
// the signed-in resource owner, for access and refresh tokens.
func (s *Server) AuthoriseCredentials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeJSONError(w, "invalid_request", "Failed to parse form data", http.StatusBadRequest)
			return
		}

		req := auth.AuthorisationRequest{
			ClientID:               r.FormValue("client_id"),
			ClientSecret:           r.FormValue("client_secret"),
			AuthenticationMaterial: authenticationMaterial(r),
		}

		if req.ClientID == "" || req.ClientSecret == "" {
			writeJSONError(w, "invalid_request", "client_id and client_secret are required", http.StatusBadRequest)
			return
		}

		// Resolve the signed-in resource owner before the engine runs;
		// the engine takes the principal explicitly and holds no
		// ambient state.
		principal := s.currentPrincipal(r)

		outcome := s.engine.Authorise(r.Context(), req, principal)
		if !outcome.Granted() {
			rejection := outcome.Rejection
			log.Info().
				Str("client_id", req.ClientID).
				Str("rejection", string(rejection.Kind)).
				Msg("credential authorisation rejected")
			writeJSONError(w, oauthErrorCode(rejection.Kind), rejection.Message, rejectionStatus(rejection.Kind))
			return
		}

		log.Info().Str("client_id", req.ClientID).Msg("credential set authorised")

		w.Header().Set("Content-Type", contentTypeJSON)
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")
		_ = json.NewEncoder(w).Encode(outcome.Grant)
	}
}

// authenticationMaterial picks the opaque material for the identity
// provider: a password for directory-backed providers, or a raw ID
// token for federated OIDC providers.
func authenticationMaterial(r *http.Request) string {
	if password := r.FormValue("password"); password != "" {
		return password
	}
	return r.FormValue("id_token")
}

// currentPrincipal resolves the signed-in resource owner from the
// session cookie. A missing or stale session yields no principal.
func (s *Server) currentPrincipal(r *http.Request) *identity.Principal {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := s.loginSessions.Get(cookie.Value)
	if err != nil {
		return nil
	}

	principal, err := s.identities.GetByID(r.Context(), session.PrincipalID)
	if err != nil {
		return nil
	}
	return principal
}

func rejectionStatus(kind auth.RejectionKind) int {
	switch kind {
	case auth.RejectionAuthenticationFailed, auth.RejectionPrincipalNotAuthenticated:
		return http.StatusUnauthorized
	case auth.RejectionStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}

func oauthErrorCode(kind auth.RejectionKind) string {
	switch kind {
	case auth.RejectionCredentialNotFound, auth.RejectionClientNotFound, auth.RejectionAuthenticationFailed:
		return "invalid_client"
	case auth.RejectionNotTemporaryStage:
		return "invalid_grant"
	case auth.RejectionPrincipalNotAuthenticated:
		return "access_denied"
	case auth.RejectionStoreUnavailable:
		return "temporarily_unavailable"
	default:
		return "invalid_request"
	}
}

func writeJSONError(w http.ResponseWriter, errorCode, description string, statusCode int) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             errorCode,
		"error_description": description,
	})
}
