package clients

import (
	"context"

	"mcpanel/models"
)

// DiscordClient talks to Discord's REST API on behalf of a linked account
type DiscordClient interface {
	ExchangeCodeForToken(ctx context.Context, clientID, clientSecret, code, redirectURL string) (*models.DiscordOAuthToken, error)
	GetCurrentUser(ctx context.Context, accessToken string) (*models.DiscordProfile, error)
	ListCurrentUserGuilds(ctx context.Context, accessToken string) ([]*models.AdminGuild, error)
}

// MinecraftStatusClient queries the status of a Java edition server
type MinecraftStatusClient interface {
	FetchJavaStatus(ctx context.Context, address string) (*JavaStatus, error)
}
