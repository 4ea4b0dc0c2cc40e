package mcstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"mcpanel/clients"
)

// maxResponseBytes bounds the status body; favicons are base64 PNGs of a few KB
const maxResponseBytes = 1 << 20

// StatusClient implements the clients.MinecraftStatusClient interface against an
// mcstatus.io compatible HTTP service
type StatusClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewStatusClient creates a status client. baseURL is the Java status endpoint,
// e.g. https://api.mcstatus.io/v2/status/java
func NewStatusClient(httpClient *http.Client, baseURL string) clients.MinecraftStatusClient {
	return &StatusClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// FetchJavaStatus queries the status of a Java edition server at address (host or host:port)
func (c *StatusClient) FetchJavaStatus(ctx context.Context, address string) (*clients.JavaStatus, error) {
	if address == "" {
		return nil, fmt.Errorf("address cannot be empty")
	}

	requestURL := c.baseURL + "/" + url.PathEscape(address)
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute status request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read status response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var status clients.JavaStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return &status, nil
}
