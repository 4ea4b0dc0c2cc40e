package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"mcpanel/appctx"
	"mcpanel/core"
	"mcpanel/models"
	"mcpanel/services/identities"
	"mcpanel/services/sessions"
)

func newAuthTestMiddleware() (*SessionAuthMiddleware, *sessions.MockSessionsService, *identities.MockIdentitiesService) {
	sessionsService := &sessions.MockSessionsService{}
	identitiesService := &identities.MockIdentitiesService{}
	return NewSessionAuthMiddleware(sessionsService, identitiesService), sessionsService, identitiesService
}

func okHandler(t *testing.T, called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		identity, ok := appctx.GetIdentity(r.Context())
		require.True(t, ok)
		sessionID, ok := appctx.GetSessionID(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Identity", identity.ID)
		w.Header().Set("X-Session", sessionID)
		w.WriteHeader(http.StatusOK)
	}
}

func TestSessionAuthMiddleware_WithAuth_Success(t *testing.T) {
	m, sessionsService, identitiesService := newAuthTestMiddleware()
	sessionsService.On("VerifySession", mock.Anything, "good-token").
		Return(&models.Session{ID: "ses_1", IdentityID: "42"}, nil)
	identitiesService.On("GetIdentityByID", mock.Anything, "42").
		Return(mo.Some(&models.Identity{ID: "42"}), nil)

	called := false
	req := httptest.NewRequest("GET", "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()

	m.WithAuth(okHandler(t, &called))(rr, req)

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "42", rr.Header().Get("X-Identity"))
	assert.Equal(t, "ses_1", rr.Header().Get("X-Session"))
}

func TestSessionAuthMiddleware_WithAuth_Rejections(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setup          func(*sessions.MockSessionsService, *identities.MockIdentitiesService)
		expectedStatus int
	}{
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer token",
			authHeader:     "Basic abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty bearer token",
			authHeader:     "Bearer ",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "invalid session",
			authHeader: "Bearer forged",
			setup: func(s *sessions.MockSessionsService, _ *identities.MockIdentitiesService) {
				s.On("VerifySession", mock.Anything, "forged").Return(nil, core.ErrInvalidSession)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown identity",
			authHeader: "Bearer good",
			setup: func(s *sessions.MockSessionsService, i *identities.MockIdentitiesService) {
				s.On("VerifySession", mock.Anything, "good").Return(&models.Session{ID: "ses_1", IdentityID: "42"}, nil)
				i.On("GetIdentityByID", mock.Anything, "42").Return(mo.None[*models.Identity](), nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:       "store unavailable",
			authHeader: "Bearer good",
			setup: func(s *sessions.MockSessionsService, i *identities.MockIdentitiesService) {
				s.On("VerifySession", mock.Anything, "good").Return(&models.Session{ID: "ses_1", IdentityID: "42"}, nil)
				i.On("GetIdentityByID", mock.Anything, "42").
					Return(nil, core.StoreError("get identity", errors.New("connection refused")))
			},
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sessionsService, identitiesService := newAuthTestMiddleware()
			if tt.setup != nil {
				tt.setup(sessionsService, identitiesService)
			}

			called := false
			req := httptest.NewRequest("GET", "/auth/session", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			m.WithAuth(okHandler(t, &called))(rr, req)

			assert.False(t, called)
			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), `"error"`)
		})
	}
}

func TestSessionAuthMiddleware_WithIdentityMatch(t *testing.T) {
	m, sessionsService, identitiesService := newAuthTestMiddleware()
	sessionsService.On("VerifySession", mock.Anything, "token").Return(&models.Session{ID: "ses_1", IdentityID: "42"}, nil)
	identitiesService.On("GetIdentityByID", mock.Anything, "42").Return(mo.Some(&models.Identity{ID: "42"}), nil)

	called := false
	router := mux.NewRouter()
	router.HandleFunc("/user/{id}", m.WithIdentityMatch(okHandler(t, &called)))

	req := httptest.NewRequest("GET", "/user/42", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, called)

	called = false
	req = httptest.NewRequest("GET", "/user/43", nil)
	req.Header.Set("Authorization", "Bearer token")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, called)
}

func TestSessionAuthMiddleware_WithGuildAdmin(t *testing.T) {
	tests := []struct {
		name           string
		isAdmin        bool
		err            error
		expectedStatus int
	}{
		{name: "administrator", isAdmin: true, expectedStatus: http.StatusOK},
		{name: "not administrator", isAdmin: false, expectedStatus: http.StatusForbidden},
		{name: "delegated token revoked", err: core.ErrInvalidSession, expectedStatus: http.StatusUnauthorized},
		{name: "discord unavailable", err: core.ErrUpstreamUnavailable, expectedStatus: http.StatusServiceUnavailable},
		{name: "unexpected failure", err: errors.New("boom"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, sessionsService, identitiesService := newAuthTestMiddleware()
			sessionsService.On("VerifySession", mock.Anything, "token").
				Return(&models.Session{ID: "ses_1", IdentityID: "42"}, nil)
			identitiesService.On("GetIdentityByID", mock.Anything, "42").
				Return(mo.Some(&models.Identity{ID: "42"}), nil)
			identitiesService.On("IsGuildAdministrator", mock.Anything, "42", "guild-1").Return(tt.isAdmin, tt.err)

			called := false
			router := mux.NewRouter()
			router.HandleFunc("/guild/{guildId}", m.WithGuildAdmin(okHandler(t, &called)))

			req := httptest.NewRequest("GET", "/guild/guild-1", nil)
			req.Header.Set("Authorization", "Bearer token")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, tt.expectedStatus == http.StatusOK, called)
		})
	}
}
