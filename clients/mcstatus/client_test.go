package mcstatus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcpanel/clients"
)

const onlineStatusJSON = `{
	"online": true,
	"host": "play.hypixel.net",
	"port": 25565,
	"version": {"name_raw": "Requires MC 1.8 / 1.21", "name_clean": "Requires MC 1.8 / 1.21", "protocol": 47},
	"players": {"online": 31245, "max": 200000, "list": []},
	"motd": {"raw": "§aHypixel Network", "clean": "Hypixel Network", "html": "<span>Hypixel Network</span>"},
	"icon": "data:image/png;base64,iVBORw0KGgo="
}`

func TestStatusClient_FetchJavaStatus_Online(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v2/status/java/play.hypixel.net:25565", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(onlineStatusJSON))
	}))
	defer server.Close()

	client := NewStatusClient(&http.Client{}, server.URL+"/v2/status/java/")

	status, err := client.FetchJavaStatus(context.Background(), "play.hypixel.net:25565")

	require.NoError(t, err)
	assert.True(t, status.Online)
	require.NotNil(t, status.Players)
	assert.Equal(t, int64(31245), status.Players.Online)
	assert.Equal(t, int64(200000), status.Players.Max)
	require.NotNil(t, status.Version)
	assert.Equal(t, "Requires MC 1.8 / 1.21", status.Version.NameClean)
	require.NotNil(t, status.MOTD)
	assert.Equal(t, "Hypixel Network", status.MOTD.Clean)
	require.NotNil(t, status.Icon)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", *status.Icon)
}

func TestStatusClient_FetchJavaStatus_Offline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"online": false, "host": "nonexistent.invalid", "port": 25565}`))
	}))
	defer server.Close()

	client := NewStatusClient(&http.Client{}, server.URL)

	status, err := client.FetchJavaStatus(context.Background(), "nonexistent.invalid")

	require.NoError(t, err)
	assert.False(t, status.Online)
	assert.Nil(t, status.Players)
	assert.Nil(t, status.Icon)
}

func TestStatusClient_FetchJavaStatus_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		errContains string
	}{
		{
			name:        "non-200 status",
			status:      http.StatusBadRequest,
			body:        `Invalid address value`,
			errContains: "status request failed with status 400",
		},
		{
			name:        "invalid json",
			status:      http.StatusOK,
			body:        `not json`,
			errContains: "failed to decode status response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewStatusClient(&http.Client{}, server.URL)

			status, err := client.FetchJavaStatus(context.Background(), "example.com")

			assert.Error(t, err)
			assert.Nil(t, status)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestStatusClient_FetchJavaStatus_EscapesAddress(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/a%2Fb", r.URL.RawPath)
		w.Write([]byte(`{"online": false}`))
	}))
	defer server.Close()

	client := NewStatusClient(&http.Client{}, server.URL)

	_, err := client.FetchJavaStatus(context.Background(), "a/b")
	require.NoError(t, err)
}

func TestStatusClient_FetchJavaStatus_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewStatusClient(&http.Client{}, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	status, err := client.FetchJavaStatus(ctx, "slow.example.com")

	assert.Error(t, err)
	assert.Nil(t, status)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStatusClient_FetchJavaStatus_EmptyAddress(t *testing.T) {
	client := NewStatusClient(&http.Client{}, "http://unused")

	status, err := client.FetchJavaStatus(context.Background(), "")

	assert.Error(t, err)
	assert.Nil(t, status)
}

func TestStatusClient_ImplementsInterface(t *testing.T) {
	var _ clients.MinecraftStatusClient = &StatusClient{}
	var _ clients.MinecraftStatusClient = &MockStatusClient{}
}
