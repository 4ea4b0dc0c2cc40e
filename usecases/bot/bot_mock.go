package bot

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"mcpanel/models"
)

// MockBotUseCase is a mock implementation of the BotUseCase
type MockBotUseCase struct {
	mock.Mock
}

func (m *MockBotUseCase) ProcessSlashCommand(
	ctx context.Context,
	guildID, commandName string,
) (*models.BotReply, error) {
	args := m.Called(ctx, guildID, commandName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BotReply), args.Error(1)
}

func (m *MockBotUseCase) ProcessMessageEvent(
	ctx context.Context,
	event models.DiscordMessageEvent,
) (mo.Option[string], error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return mo.None[string](), args.Error(1)
	}
	return args.Get(0).(mo.Option[string]), args.Error(1)
}
