package guildconfigs

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"mcpanel/models"
)

// MockGuildConfigsService is a mock implementation of the GuildConfigsService interface
type MockGuildConfigsService struct {
	mock.Mock
}

func (m *MockGuildConfigsService) GetGuildConfig(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GuildConfig), args.Error(1)
}

func (m *MockGuildConfigsService) SetServerAddress(ctx context.Context, guildID, serverAddress string) error {
	args := m.Called(ctx, guildID, serverAddress)
	return args.Error(0)
}

func (m *MockGuildConfigsService) AppendCommand(ctx context.Context, guildID, trigger, response string) error {
	args := m.Called(ctx, guildID, trigger, response)
	return args.Error(0)
}

func (m *MockGuildConfigsService) RemoveCommand(ctx context.Context, guildID, trigger string) (bool, error) {
	args := m.Called(ctx, guildID, trigger)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildConfigsService) MatchMessage(ctx context.Context, guildID, content string) (mo.Option[string], error) {
	args := m.Called(ctx, guildID, content)
	if args.Get(0) == nil {
		return mo.None[string](), args.Error(1)
	}
	return args.Get(0).(mo.Option[string]), args.Error(1)
}
