package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"mcpanel/appctx"
	"mcpanel/core"
	"mcpanel/services"
)

// SessionAuthMiddleware authenticates dashboard requests with signed session tokens
type SessionAuthMiddleware struct {
	sessionsService   services.SessionsService
	identitiesService services.IdentitiesService
}

// NewSessionAuthMiddleware creates a new authentication middleware instance
func NewSessionAuthMiddleware(
	sessionsService services.SessionsService,
	identitiesService services.IdentitiesService,
) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{
		sessionsService:   sessionsService,
		identitiesService: identitiesService,
	}
}

// WithAuth wraps an HTTP handler with session token authentication
func (m *SessionAuthMiddleware) WithAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Printf("🔐 Authentication middleware processing request from %s", r.RemoteAddr)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ Missing Authorization header")
			m.writeErrorResponse(w, "missing authorization header", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Printf("❌ Invalid Authorization header format")
			m.writeErrorResponse(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			log.Printf("❌ Empty bearer token")
			m.writeErrorResponse(w, "empty bearer token", http.StatusUnauthorized)
			return
		}

		session, err := m.sessionsService.VerifySession(r.Context(), token)
		if err != nil {
			log.Printf("❌ Session verification failed: %v", err)
			m.writeErrorResponse(w, "invalid session", http.StatusUnauthorized)
			return
		}

		maybeIdentity, err := m.identitiesService.GetIdentityByID(r.Context(), session.IdentityID)
		if err != nil {
			log.Printf("❌ Failed to load identity for session %s: %v", session.ID, err)
			if errors.Is(err, core.ErrStoreUnavailable) {
				m.writeErrorResponse(w, "store unavailable", http.StatusServiceUnavailable)
				return
			}
			m.writeErrorResponse(w, "internal server error", http.StatusInternalServerError)
			return
		}
		identity, ok := maybeIdentity.Get()
		if !ok {
			log.Printf("❌ Session %s refers to unknown identity %s", session.ID, session.IdentityID)
			m.writeErrorResponse(w, "invalid session", http.StatusUnauthorized)
			return
		}

		log.Printf("✅ Session %s authenticated for identity: %s", session.ID, identity.ID)
		ctx := appctx.SetIdentity(r.Context(), identity)
		ctx = appctx.SetSessionID(ctx, session.ID)
		next(w, r.WithContext(ctx))
	}
}

// WithIdentityMatch requires the {id} path variable to be the authenticated identity
func (m *SessionAuthMiddleware) WithIdentityMatch(next http.HandlerFunc) http.HandlerFunc {
	return m.WithAuth(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := appctx.GetIdentity(r.Context())
		if !ok {
			m.writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
			return
		}

		if mux.Vars(r)["id"] != identity.ID {
			log.Printf("❌ Identity %s tried to access another identity's resources", identity.ID)
			m.writeErrorResponse(w, "forbidden", http.StatusForbidden)
			return
		}

		next(w, r)
	})
}

// WithGuildAdmin requires the authenticated identity to administer the {guildId} path variable
func (m *SessionAuthMiddleware) WithGuildAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.WithAuth(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := appctx.GetIdentity(r.Context())
		if !ok {
			m.writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
			return
		}

		guildID := mux.Vars(r)["guildId"]
		isAdmin, err := m.identitiesService.IsGuildAdministrator(r.Context(), identity.ID, guildID)
		if err != nil {
			log.Printf("❌ Failed to check guild admin permission for %s on guild %s: %v", identity.ID, guildID, err)
			switch {
			case errors.Is(err, core.ErrValidation):
				m.writeErrorResponse(w, "invalid guild ID", http.StatusBadRequest)
			case errors.Is(err, core.ErrInvalidSession):
				m.writeErrorResponse(w, "Discord authorization expired, please log in again", http.StatusUnauthorized)
			case errors.Is(err, core.ErrUpstreamUnavailable), errors.Is(err, core.ErrStoreUnavailable):
				m.writeErrorResponse(w, "service unavailable", http.StatusServiceUnavailable)
			default:
				m.writeErrorResponse(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}
		if !isAdmin {
			log.Printf("❌ Identity %s is not an administrator of guild %s", identity.ID, guildID)
			m.writeErrorResponse(w, "forbidden", http.StatusForbidden)
			return
		}

		next(w, r)
	})
}

// writeErrorResponse writes a standardized error response
func (m *SessionAuthMiddleware) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	errorResponse := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("❌ Failed to encode error response: %v", err)
	}
}
