package discord

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mcpanel/models"
)

// MockDiscordClient implements the clients.DiscordClient interface for testing
type MockDiscordClient struct {
	mock.Mock
}

// ExchangeCodeForToken mocks the Discord OAuth code exchange
func (m *MockDiscordClient) ExchangeCodeForToken(
	ctx context.Context,
	clientID, clientSecret, code, redirectURL string,
) (*models.DiscordOAuthToken, error) {
	args := m.Called(ctx, clientID, clientSecret, code, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordOAuthToken), args.Error(1)
}

// GetCurrentUser mocks fetching the profile behind an access token
func (m *MockDiscordClient) GetCurrentUser(ctx context.Context, accessToken string) (*models.DiscordProfile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordProfile), args.Error(1)
}

// ListCurrentUserGuilds mocks listing the guilds behind an access token
func (m *MockDiscordClient) ListCurrentUserGuilds(ctx context.Context, accessToken string) ([]*models.AdminGuild, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AdminGuild), args.Error(1)
}
