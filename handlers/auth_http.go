package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"mcpanel/appctx"
	"mcpanel/core"
	"mcpanel/middleware"
	"mcpanel/models/api"
	"mcpanel/services"
)

// AuthHTTPHandler serves the Discord login handshake
type AuthHTTPHandler struct {
	sessionsService services.SessionsService
	frontendURL     string
}

func NewAuthHTTPHandler(sessionsService services.SessionsService, frontendURL string) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		sessionsService: sessionsService,
		frontendURL:     frontendURL,
	}
}

func (h *AuthHTTPHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 Login request received from %s", r.RemoteAddr)
	http.Redirect(w, r, h.sessionsService.AuthorizationURL(), http.StatusFound)
}

// HandleCallback completes the login. Failures are terminal and rendered as plain text; the
// user has to start over from /auth/login.
func (h *AuthHTTPHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔐 OAuth callback received from %s", r.RemoteAddr)

	result, err := h.sessionsService.CompleteLogin(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.Printf("❌ Login failed: %v", err)
		switch {
		case errors.Is(err, core.ErrMissingAuthorizationCode):
			http.Error(w, "Login failed: no authorization code received.", http.StatusBadRequest)
		case errors.Is(err, core.ErrAuthorizationExchangeFailed):
			http.Error(w, "Login failed: Discord rejected the authorization.", http.StatusBadGateway)
		case errors.Is(err, core.ErrStoreUnavailable), errors.Is(err, core.ErrUpstreamUnavailable):
			http.Error(w, "Login failed: service temporarily unavailable.", http.StatusServiceUnavailable)
		default:
			http.Error(w, "Login failed.", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Login completed for identity %s (created: %t)", result.Identity.ID, result.Created)
	http.Redirect(w, r, h.dashboardRedirectURL(result.Identity.ID, result.Session.Token), http.StatusFound)
}

// HandleGetSession returns the identity behind the presented session token
func (h *AuthHTTPHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	identity, ok := appctx.GetIdentity(r.Context())
	if !ok {
		log.Printf("❌ Identity not found in context")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(api.ErrorResponse{Error: "authentication required"})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(api.DomainIdentityToAPIIdentity(identity)); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}

func (h *AuthHTTPHandler) dashboardRedirectURL(identityID, sessionToken string) string {
	query := url.Values{}
	query.Set("uid", identityID)
	query.Set("session", sessionToken)
	return h.frontendURL + "?" + query.Encode()
}

func (h *AuthHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SessionAuthMiddleware) {
	router.HandleFunc("/auth/login", h.HandleLogin).Methods("GET")
	log.Printf("✅ GET /auth/login endpoint registered")

	router.HandleFunc("/auth/callback", h.HandleCallback).Methods("GET")
	log.Printf("✅ GET /auth/callback endpoint registered")

	router.HandleFunc("/auth/session", authMiddleware.WithAuth(h.HandleGetSession)).Methods("GET")
	log.Printf("✅ GET /auth/session endpoint registered")
}
