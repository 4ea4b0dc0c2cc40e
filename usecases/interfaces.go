package usecases

import (
	"context"

	"github.com/samber/mo"

	"mcpanel/models"
)

// BotUseCaseInterface defines the interface for gateway use case operations
type BotUseCaseInterface interface {
	ProcessSlashCommand(ctx context.Context, guildID, commandName string) (*models.BotReply, error)
	ProcessMessageEvent(ctx context.Context, event models.DiscordMessageEvent) (mo.Option[string], error)
}
