package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/samber/mo"

	"mcpanel/models"
	"mcpanel/services"
	"mcpanel/utils"
)

// Slash command names registered with Discord
const (
	CommandPanel  = "panel"
	CommandHelp   = "help"
	CommandStatus = "status"
	CommandServer = "server"
)

const helpReply = "Use `/panel` to set up your own Minecraft server!\n" +
	"`/status` shows whether the configured server is online and `/server` shows its address."

// BotUseCase holds the gateway's business logic: slash-command replies and chat triggers.
// It only reads guild configuration.
type BotUseCase struct {
	guildConfigsService services.GuildConfigsService
	statusProber        services.StatusProber
	frontendURL         string
}

// NewBotUseCase creates a new instance of BotUseCase
func NewBotUseCase(
	guildConfigsService services.GuildConfigsService,
	statusProber services.StatusProber,
	frontendURL string,
) *BotUseCase {
	return &BotUseCase{
		guildConfigsService: guildConfigsService,
		statusProber:        statusProber,
		frontendURL:         frontendURL,
	}
}

// IsDeferred reports whether a command needs a deferred interaction response because its
// reply depends on a network probe
func IsDeferred(commandName string) bool {
	return commandName == CommandStatus
}

// ProcessSlashCommand builds the reply for a slash command invoked in guildID
func (b *BotUseCase) ProcessSlashCommand(ctx context.Context, guildID, commandName string) (*models.BotReply, error) {
	log.Printf("📋 Starting to process slash command /%s in guild %s", commandName, guildID)

	var reply *models.BotReply
	switch commandName {
	case CommandPanel:
		reply = &models.BotReply{
			Content:   fmt.Sprintf("🔗 **Manage your dashboard here:**\n%s", b.frontendURL),
			Ephemeral: true,
		}
	case CommandHelp:
		reply = &models.BotReply{Content: helpReply}
	case CommandStatus, CommandServer:
		if guildID == "" {
			reply = &models.BotReply{Content: "This command only works inside a server.", Ephemeral: true}
			break
		}

		config, err := b.guildConfigsService.GetGuildConfig(ctx, guildID)
		if err != nil {
			log.Printf("❌ Failed to get guild config for guild %s: %v", guildID, err)
			return nil, fmt.Errorf("failed to get guild config: %w", err)
		}

		if commandName == CommandServer {
			reply = &models.BotReply{
				Content: fmt.Sprintf("🎮 This server's Minecraft address is **%s**", utils.EscapeDiscordMarkdown(config.ServerAddress)),
			}
			break
		}

		snapshot := b.statusProber.Probe(ctx, config.ServerAddress)
		reply = &models.BotReply{Content: FormatStatusReply(config.ServerAddress, snapshot)}
	default:
		log.Printf("⚠️ Unknown slash command /%s", commandName)
		reply = &models.BotReply{Content: "Unknown command.", Ephemeral: true}
	}

	reply.Content = utils.TruncateDiscordMessage(reply.Content)
	log.Printf("📋 Completed successfully - built reply for /%s in guild %s", commandName, guildID)
	return reply, nil
}

// ProcessMessageEvent returns the configured auto-response for a chat message, if any.
// Bot authors and direct messages never match.
func (b *BotUseCase) ProcessMessageEvent(ctx context.Context, event models.DiscordMessageEvent) (mo.Option[string], error) {
	if event.AuthorBot {
		return mo.None[string](), nil
	}
	if event.GuildID == "" {
		return mo.None[string](), nil
	}

	response, err := b.guildConfigsService.MatchMessage(ctx, event.GuildID, event.Content)
	if err != nil {
		log.Printf("❌ Failed to match message %s in guild %s: %v", event.MessageID, event.GuildID, err)
		return mo.None[string](), fmt.Errorf("failed to match message: %w", err)
	}

	text, ok := response.Get()
	if !ok {
		return mo.None[string](), nil
	}

	log.Printf("🤖 Message %s in guild %s matched a custom command", event.MessageID, event.GuildID)
	return mo.Some(utils.TruncateDiscordMessage(text)), nil
}

// FormatStatusReply renders a status snapshot as a Discord message
func FormatStatusReply(address string, snapshot models.StatusSnapshot) string {
	escapedAddress := utils.EscapeDiscordMarkdown(address)
	if !snapshot.Online {
		return fmt.Sprintf("🔴 **%s** is OFFLINE", escapedAddress)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🟢 **%s** is ONLINE\n", escapedAddress)
	fmt.Fprintf(&sb, "👥 Players: %d/%d", snapshot.PlayerCount, snapshot.MaxPlayers)
	if snapshot.VersionName != "" {
		fmt.Fprintf(&sb, "\n🧱 Version: %s", utils.EscapeDiscordMarkdown(snapshot.VersionName))
	}
	if motd := strings.TrimSpace(snapshot.MOTD); motd != "" {
		fmt.Fprintf(&sb, "\n📝 %s", utils.EscapeDiscordMarkdown(motd))
	}
	return sb.String()
}
