package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"mcpanel/models"
)

// MockGuildBansReader implements services.GuildBansReader for testing
type MockGuildBansReader struct {
	mock.Mock
}

func (m *MockGuildBansReader) GetGuildBans(ctx context.Context, guildID string) ([]*models.GuildBan, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GuildBan), args.Error(1)
}
