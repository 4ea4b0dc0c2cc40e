package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"

	"mcpanel/clients"
	"mcpanel/core"
	"mcpanel/models"
)

var (
	discordAPIBase  = "https://discord.com/api"
	discordOAuthURL = discordAPIBase + "/oauth2/token"
)

// userGuildsPageSize is the maximum page size of GET /users/@me/guilds
const userGuildsPageSize = 200

// DiscordClient implements the clients.DiscordClient interface
type DiscordClient struct {
	// httpClient is used for OAuth2 token exchange since discordgo doesn't support it
	httpClient *http.Client
}

// NewDiscordClient creates a new Discord client for OAuth operations
func NewDiscordClient(httpClient *http.Client) clients.DiscordClient {
	return &DiscordClient{
		httpClient: httpClient,
	}
}

// ExchangeCodeForToken exchanges an OAuth authorization code for an access token.
// Note: This uses HTTP directly as discordgo doesn't support OAuth2 token exchange
func (c *DiscordClient) ExchangeCodeForToken(
	ctx context.Context,
	clientID, clientSecret, code, redirectURL string,
) (*models.DiscordOAuthToken, error) {
	data := url.Values{}
	data.Set("client_id", clientID)
	data.Set("client_secret", clientSecret)
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", redirectURL)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		discordOAuthURL,
		strings.NewReader(data.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute OAuth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OAuth response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OAuth request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var token models.DiscordOAuthToken
	if err := json.Unmarshal(body, &token); err != nil {
		return nil, fmt.Errorf("failed to decode OAuth response: %w", err)
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("OAuth response did not contain an access token")
	}

	return &token, nil
}

// GetCurrentUser fetches the profile of the account that owns accessToken
func (c *DiscordClient) GetCurrentUser(ctx context.Context, accessToken string) (*models.DiscordProfile, error) {
	sdkClient, err := c.newBearerSession(accessToken)
	if err != nil {
		return nil, err
	}

	user, err := sdkClient.User("@me", discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapRESTError("fetch current user", err)
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("failed to fetch current user: %w", core.ErrUpstreamUnavailable)
	}

	return &models.DiscordProfile{
		ID:        user.ID,
		Username:  displayName(user),
		AvatarRef: user.Avatar,
	}, nil
}

// ListCurrentUserGuilds lists every guild the account behind accessToken is a member of,
// following pagination until Discord returns a short page
func (c *DiscordClient) ListCurrentUserGuilds(ctx context.Context, accessToken string) ([]*models.AdminGuild, error) {
	sdkClient, err := c.newBearerSession(accessToken)
	if err != nil {
		return nil, err
	}

	var result []*models.AdminGuild
	afterID := ""
	for {
		page, err := sdkClient.UserGuilds(userGuildsPageSize, "", afterID, false, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapRESTError("list current user guilds", err)
		}

		for _, guild := range page {
			result = append(result, &models.AdminGuild{
				ID:          guild.ID,
				Name:        guild.Name,
				IconRef:     guild.Icon,
				Owner:       guild.Owner,
				Permissions: guild.Permissions,
			})
		}

		if len(page) < userGuildsPageSize {
			break
		}
		afterID = page[len(page)-1].ID
	}

	return result, nil
}

func (c *DiscordClient) newBearerSession(accessToken string) (*discordgo.Session, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("access token cannot be empty: %w", core.ErrInvalidSession)
	}

	sdkClient, err := discordgo.New("Bearer " + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Use our HTTP client
	sdkClient.Client = c.httpClient
	return sdkClient, nil
}

func displayName(user *discordgo.User) string {
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// mapRESTError classifies a discordgo failure: a rejected bearer token means the linked session
// must be renewed, forbidden/not-found means missing access, anything else is upstream trouble
func mapRESTError(op string, err error) error {
	if errors.Is(err, discordgo.ErrUnauthorized) {
		return fmt.Errorf("failed to %s: %w: %w", op, core.ErrInvalidSession, err)
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("failed to %s: %w: %w", op, core.ErrInvalidSession, err)
		case http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("failed to %s: %w: %w", op, core.ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("failed to %s: %w: %w", op, core.ErrUpstreamUnavailable, err)
}
