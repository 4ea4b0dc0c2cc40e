package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"mcpanel/appctx"
	"mcpanel/core"
	"mcpanel/middleware"
	"mcpanel/models/api"
)

type DashboardHTTPHandler struct {
	handler *DashboardAPIHandler
}

func NewDashboardHTTPHandler(handler *DashboardAPIHandler) *DashboardHTTPHandler {
	return &DashboardHTTPHandler{
		handler: handler,
	}
}

// GuildConfigRequest accepts the legacy mcServerIp field as an alias of serverAddress
type GuildConfigRequest struct {
	ServerAddress string `json:"serverAddress"`
	MCServerIP    string `json:"mcServerIp"`
}

type CustomCommandRequest struct {
	Trigger  string `json:"trigger"`
	Response string `json:"response"`
}

type RemoveCommandRequest struct {
	Trigger string `json:"trigger"`
}

func (h *DashboardHTTPHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DashboardHTTPHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	log.Printf("👤 Get user request received from %s", r.RemoteAddr)

	identityID := mux.Vars(r)["id"]
	identity, err := h.handler.GetIdentity(r.Context(), identityID)
	if err != nil {
		h.writeServiceError(w, err, "failed to get user")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainIdentityToAPIIdentity(identity))
}

func (h *DashboardHTTPHandler) HandleListUserGuilds(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List user guilds request received from %s", r.RemoteAddr)

	identity, ok := appctx.GetIdentity(r.Context())
	if !ok {
		log.Printf("❌ Identity not found in context")
		h.writeErrorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	guilds, err := h.handler.ListAdministeredGuilds(r.Context(), identity)
	if err != nil {
		h.writeServiceError(w, err, "failed to list guilds")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainAdminGuildsToAPIAdminGuilds(guilds))
}

func (h *DashboardHTTPHandler) HandleGetGuildConfig(w http.ResponseWriter, r *http.Request) {
	log.Printf("🎮 Get guild config request received from %s", r.RemoteAddr)

	guildID := mux.Vars(r)["guildId"]
	config, err := h.handler.GetGuildConfig(r.Context(), guildID)
	if err != nil {
		h.writeServiceError(w, err, "failed to get guild config")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.DomainGuildConfigToAPIGuildConfig(config))
}

func (h *DashboardHTTPHandler) HandleUpdateGuildConfig(w http.ResponseWriter, r *http.Request) {
	log.Printf("🎮 Update guild config request received from %s", r.RemoteAddr)

	var req GuildConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	serverAddress := req.ServerAddress
	if serverAddress == "" {
		serverAddress = req.MCServerIP
	}
	if strings.TrimSpace(serverAddress) == "" {
		log.Printf("❌ Missing serverAddress in request")
		h.writeErrorResponse(w, http.StatusBadRequest, "serverAddress is required")
		return
	}

	guildID := mux.Vars(r)["guildId"]
	if err := h.handler.SetServerAddress(r.Context(), guildID, serverAddress); err != nil {
		h.writeServiceError(w, err, "failed to update guild config")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.SuccessResponse{Success: true})
}

func (h *DashboardHTTPHandler) HandleAddCommand(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Add custom command request received from %s", r.RemoteAddr)

	var req CustomCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	guildID := mux.Vars(r)["guildId"]
	if err := h.handler.AppendCommand(r.Context(), guildID, req.Trigger, req.Response); err != nil {
		h.writeServiceError(w, err, "failed to add custom command")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.SuccessResponse{Success: true})
}

func (h *DashboardHTTPHandler) HandleRemoveCommand(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Remove custom command request received from %s", r.RemoteAddr)

	// DELETE bodies are optional; fall back to ?trigger=
	var req RemoveCommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ Failed to parse request body: %v", err)
		h.writeErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}
	trigger := req.Trigger
	if trigger == "" {
		trigger = r.URL.Query().Get("trigger")
	}

	guildID := mux.Vars(r)["guildId"]
	if err := h.handler.RemoveCommand(r.Context(), guildID, trigger); err != nil {
		h.writeServiceError(w, err, "failed to remove custom command")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.SuccessResponse{Success: true})
}

func (h *DashboardHTTPHandler) HandleListGuildBans(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔨 List guild bans request received from %s", r.RemoteAddr)

	guildID := mux.Vars(r)["guildId"]
	bans, err := h.handler.GetGuildBans(r.Context(), guildID)
	if err != nil {
		if errors.Is(err, core.ErrPermissionDenied) {
			h.writeJSONResponse(w, http.StatusOK, api.ErrorResponse{
				Error: "the bot is not in this guild or lacks the Ban Members permission",
			})
			return
		}
		h.writeServiceError(w, err, "failed to list guild bans")
		return
	}

	h.writeJSONResponse(w, http.StatusOK, api.GuildBansResponse{Bans: api.DomainGuildBansToAPIGuildBans(bans)})
}

func (h *DashboardHTTPHandler) HandleMinecraftStatus(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	log.Printf("🎮 Minecraft status request received from %s for %s", r.RemoteAddr, address)

	snapshot := h.handler.ProbeServer(r.Context(), address)
	h.writeJSONResponse(w, http.StatusOK, api.DomainStatusSnapshotToAPIStatusSnapshot(snapshot))
}

func (h *DashboardHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SessionAuthMiddleware) {
	log.Printf("🚀 Registering dashboard API endpoints")

	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	log.Printf("✅ GET /health endpoint registered")

	// User endpoints
	router.HandleFunc("/user/{id}", authMiddleware.WithIdentityMatch(h.HandleGetUser)).Methods("GET")
	log.Printf("✅ GET /user/{id} endpoint registered")

	router.HandleFunc("/user/{id}/guilds", authMiddleware.WithIdentityMatch(h.HandleListUserGuilds)).Methods("GET")
	log.Printf("✅ GET /user/{id}/guilds endpoint registered")

	// Guild configuration endpoints
	for _, path := range []string{"/guild/{guildId}", "/guild/{guildId}/config"} {
		router.HandleFunc(path, authMiddleware.WithGuildAdmin(h.HandleGetGuildConfig)).Methods("GET")
		log.Printf("✅ GET %s endpoint registered", path)

		router.HandleFunc(path, authMiddleware.WithGuildAdmin(h.HandleUpdateGuildConfig)).Methods("POST")
		log.Printf("✅ POST %s endpoint registered", path)
	}

	router.HandleFunc("/guild/{guildId}/command", authMiddleware.WithGuildAdmin(h.HandleAddCommand)).Methods("POST")
	log.Printf("✅ POST /guild/{guildId}/command endpoint registered")

	router.HandleFunc("/guild/{guildId}/command", authMiddleware.WithGuildAdmin(h.HandleRemoveCommand)).
		Methods("DELETE")
	log.Printf("✅ DELETE /guild/{guildId}/command endpoint registered")

	router.HandleFunc("/guild/{guildId}/bans", authMiddleware.WithGuildAdmin(h.HandleListGuildBans)).Methods("GET")
	log.Printf("✅ GET /guild/{guildId}/bans endpoint registered")

	// Public status proxy
	router.HandleFunc("/minecraft/{address}", h.HandleMinecraftStatus).Methods("GET")
	log.Printf("✅ GET /minecraft/{address} endpoint registered")

	log.Printf("✅ All dashboard API endpoints registered successfully")
}

// writeServiceError maps the core error taxonomy onto HTTP statuses
func (h *DashboardHTTPHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	status, message := statusForError(err, fallback)
	h.writeErrorResponse(w, status, message)
}

func statusForError(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, core.ErrInvalidSession):
		return http.StatusUnauthorized, "invalid session"
	case errors.Is(err, core.ErrPermissionDenied):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, core.ErrStoreUnavailable), errors.Is(err, core.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable, "service unavailable"
	default:
		return http.StatusInternalServerError, fallback
	}
}

func (h *DashboardHTTPHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	h.writeJSONResponse(w, statusCode, api.ErrorResponse{Error: message})
}

func (h *DashboardHTTPHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
