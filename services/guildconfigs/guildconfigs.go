package guildconfigs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/samber/mo"

	"mcpanel/core"
	"mcpanel/models"
	"mcpanel/utils"
)

const (
	// MaxServerAddressLength is in bytes, the unit DNS names are limited in
	MaxServerAddressLength = 255
	// MaxTriggerLength is in runes, the unit Discord counts message length in
	MaxTriggerLength = 100
	// MaxResponseLength is in runes
	MaxResponseLength = utils.DiscordMessageLimit
)

// GuildConfigsRepository defines the interface for guild configuration repository operations.
// Every mutation must be a single atomic document update.
type GuildConfigsRepository interface {
	GetGuildConfig(ctx context.Context, guildID string) (mo.Option[*models.GuildConfig], error)
	UpsertServerAddress(ctx context.Context, guildID, serverAddress string) error
	AppendCommand(ctx context.Context, guildID string, command models.CustomCommand, defaultServerAddress string) error
	RemoveCommandsByTrigger(ctx context.Context, guildID, trigger string) (bool, error)
}

type GuildConfigsService struct {
	guildConfigsRepo     GuildConfigsRepository
	defaultServerAddress string
}

func NewGuildConfigsService(repo GuildConfigsRepository, defaultServerAddress string) *GuildConfigsService {
	if defaultServerAddress == "" {
		defaultServerAddress = models.DefaultServerAddress
	}
	return &GuildConfigsService{
		guildConfigsRepo:     repo,
		defaultServerAddress: defaultServerAddress,
	}
}

// GetGuildConfig returns the stored configuration, or an unsaved default one. It never reports not found.
func (s *GuildConfigsService) GetGuildConfig(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	log.Printf("📋 Starting to get guild config for guild: %s", guildID)
	if guildID == "" {
		return nil, core.ValidationError("guild ID cannot be empty")
	}

	maybeConfig, err := s.guildConfigsRepo.GetGuildConfig(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config: %w", err)
	}

	config, ok := maybeConfig.Get()
	if !ok {
		log.Printf("📋 Completed successfully - no stored config for guild %s, returning defaults", guildID)
		return models.NewDefaultGuildConfig(guildID, s.defaultServerAddress), nil
	}
	if config.Commands == nil {
		config.Commands = models.CustomCommands{}
	}

	log.Printf("📋 Completed successfully - retrieved guild config for guild %s with %d commands", guildID, len(config.Commands))
	return config, nil
}

// SetServerAddress overwrites the guild's Minecraft server address without touching its commands
func (s *GuildConfigsService) SetServerAddress(ctx context.Context, guildID, serverAddress string) error {
	log.Printf("📋 Starting to set server address for guild: %s", guildID)
	if guildID == "" {
		return core.ValidationError("guild ID cannot be empty")
	}

	serverAddress = strings.TrimSpace(serverAddress)
	if serverAddress == "" {
		return core.ValidationError("server address cannot be empty")
	}
	if len(serverAddress) > MaxServerAddressLength {
		return core.ValidationError("server address cannot be longer than %d bytes", MaxServerAddressLength)
	}
	if containsNUL(serverAddress) {
		return core.ValidationError("server address cannot contain NUL characters")
	}

	if err := s.guildConfigsRepo.UpsertServerAddress(ctx, guildID, serverAddress); err != nil {
		return fmt.Errorf("failed to set server address: %w", err)
	}

	log.Printf("📋 Completed successfully - set server address for guild %s to %s", guildID, serverAddress)
	return nil
}

// AppendCommand adds a trigger/response pair at the end of the guild's command list
func (s *GuildConfigsService) AppendCommand(ctx context.Context, guildID, trigger, response string) error {
	log.Printf("📋 Starting to append command for guild: %s", guildID)
	if guildID == "" {
		return core.ValidationError("guild ID cannot be empty")
	}
	if trigger == "" {
		return core.ValidationError("trigger cannot be empty")
	}
	if response == "" {
		return core.ValidationError("response cannot be empty")
	}
	if utf8.RuneCountInString(trigger) > MaxTriggerLength {
		return core.ValidationError("trigger cannot be longer than %d characters", MaxTriggerLength)
	}
	if utf8.RuneCountInString(response) > MaxResponseLength {
		return core.ValidationError("response cannot be longer than %d characters", MaxResponseLength)
	}
	// Postgres text and JSONB reject U+0000
	if containsNUL(trigger) || containsNUL(response) {
		return core.ValidationError("trigger and response cannot contain NUL characters")
	}

	command := models.CustomCommand{Trigger: trigger, Response: response}
	if err := s.guildConfigsRepo.AppendCommand(ctx, guildID, command, s.defaultServerAddress); err != nil {
		return fmt.Errorf("failed to append command: %w", err)
	}

	log.Printf("📋 Completed successfully - appended command %q for guild %s", trigger, guildID)
	return nil
}

// RemoveCommand removes every command with exactly this trigger. Removing a trigger that
// doesn't exist, or from a guild without a record, succeeds with removed=false.
func (s *GuildConfigsService) RemoveCommand(ctx context.Context, guildID, trigger string) (bool, error) {
	log.Printf("📋 Starting to remove command %q for guild: %s", trigger, guildID)
	if guildID == "" {
		return false, core.ValidationError("guild ID cannot be empty")
	}
	if trigger == "" {
		return false, core.ValidationError("trigger cannot be empty")
	}
	if containsNUL(trigger) {
		return false, core.ValidationError("trigger cannot contain NUL characters")
	}

	removed, err := s.guildConfigsRepo.RemoveCommandsByTrigger(ctx, guildID, trigger)
	if err != nil {
		return false, fmt.Errorf("failed to remove command: %w", err)
	}

	log.Printf("📋 Completed successfully - removed command %q for guild %s (matched: %t)", trigger, guildID, removed)
	return removed, nil
}

// MatchMessage runs the guild's commands against a chat message. Guilds without a record never match.
func (s *GuildConfigsService) MatchMessage(ctx context.Context, guildID, content string) (mo.Option[string], error) {
	if guildID == "" || content == "" {
		return mo.None[string](), nil
	}

	maybeConfig, err := s.guildConfigsRepo.GetGuildConfig(ctx, guildID)
	if err != nil {
		return mo.None[string](), fmt.Errorf("failed to get guild config: %w", err)
	}

	config, ok := maybeConfig.Get()
	if !ok {
		return mo.None[string](), nil
	}

	return core.MatchCommand(config.Commands, content), nil
}

func containsNUL(s string) bool {
	return strings.ContainsRune(s, 0)
}
