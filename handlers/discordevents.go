package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gammazero/workerpool"

	"mcpanel/core"
	"mcpanel/middleware"
	"mcpanel/models"
	"mcpanel/usecases"
	"mcpanel/usecases/bot"
)

const (
	defaultEventWorkers = 16
	guildBansPageSize   = 1000
	presenceActivity    = "Minecraft Servers"
	interactionTimeout  = 10 * time.Second
)

type banRequest struct {
	ctx     context.Context
	guildID string
	reply   chan banResult
}

type banResult struct {
	bans []*models.GuildBan
	err  error
}

// DiscordEventsHandler owns the gateway connection. HTTP handlers reach it only through the
// GuildBansReader it implements; ban reads are passed as messages to its request loop.
type DiscordEventsHandler struct {
	discordSDKClient *discordgo.Session
	botUseCase       usecases.BotUseCaseInterface
	alerts           *middleware.ErrorAlertMiddleware
	pool             *workerpool.WorkerPool

	banRequests chan banRequest
	fetchBans   func(ctx context.Context, guildID string) ([]*models.GuildBan, error)

	cancel   context.CancelFunc
	loopDone chan struct{}
	stopOnce sync.Once
}

func NewDiscordEventsHandler(
	botToken string,
	botUseCase usecases.BotUseCaseInterface,
	alerts *middleware.ErrorAlertMiddleware,
	maxWorkers int,
) (*DiscordEventsHandler, error) {
	// Create a new Discord session using the provided bot token
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	if maxWorkers <= 0 {
		maxWorkers = defaultEventWorkers
	}

	handler := &DiscordEventsHandler{
		discordSDKClient: session,
		botUseCase:       botUseCase,
		alerts:           alerts,
		pool:             workerpool.New(maxWorkers),
		banRequests:      make(chan banRequest),
		loopDone:         make(chan struct{}),
	}
	handler.fetchBans = handler.fetchBansFromDiscord

	// Register event handlers
	session.AddHandler(handler.handleReadyEvent)
	session.AddHandler(handler.handleInteractionCreatedEvent)
	session.AddHandler(handler.handleMessageCreatedEvent)

	// Guilds keeps the state cache of joined guilds, message content is needed for chat triggers
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	return handler, nil
}

// StartBot opens the Discord connection and starts the request loop
func (h *DiscordEventsHandler) StartBot(ctx context.Context) error {
	// Open a websocket connection to Discord and begin listening
	if err := h.discordSDKClient.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	go h.runRequestLoop(loopCtx)

	log.Printf("🤖 Discord bot is now running and listening for events")
	return nil
}

// StopBot gracefully closes the Discord connection and drains in-flight events
func (h *DiscordEventsHandler) StopBot() {
	h.stopOnce.Do(func() {
		if err := h.discordSDKClient.Close(); err != nil {
			log.Printf("⚠️ Failed to close Discord session: %v", err)
		}
		if h.cancel != nil {
			h.cancel()
			<-h.loopDone
		}
		h.pool.StopWait()
		log.Printf("🤖 Discord bot stopped")
	})
}

// GetGuildBans reads a guild's ban list. The bot must be a member of the guild with the
// ban-members permission, otherwise core.ErrPermissionDenied is returned.
func (h *DiscordEventsHandler) GetGuildBans(ctx context.Context, guildID string) ([]*models.GuildBan, error) {
	if guildID == "" {
		return nil, core.ValidationError("guild ID cannot be empty")
	}

	req := banRequest{ctx: ctx, guildID: guildID, reply: make(chan banResult, 1)}
	select {
	case h.banRequests <- req:
	case <-ctx.Done():
		return nil, fmt.Errorf("ban list request for guild %s not accepted: %w: %w", guildID, core.ErrUpstreamUnavailable, ctx.Err())
	case <-h.loopDone:
		return nil, fmt.Errorf("gateway listener is stopped: %w", core.ErrUpstreamUnavailable)
	}

	select {
	case result := <-req.reply:
		return result.bans, result.err
	case <-ctx.Done():
		return nil, fmt.Errorf("ban list request for guild %s timed out: %w: %w", guildID, core.ErrUpstreamUnavailable, ctx.Err())
	}
}

// runRequestLoop serves ban-list requests until ctx is cancelled
func (h *DiscordEventsHandler) runRequestLoop(ctx context.Context) {
	defer close(h.loopDone)
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-h.banRequests:
			bans, err := h.fetchBans(req.ctx, req.guildID)
			req.reply <- banResult{bans: bans, err: err}
		}
	}
}

func (h *DiscordEventsHandler) fetchBansFromDiscord(ctx context.Context, guildID string) ([]*models.GuildBan, error) {
	if _, err := h.discordSDKClient.State.Guild(guildID); err != nil {
		log.Printf("⚠️ Bot is not a member of guild %s, cannot list bans", guildID)
		return nil, fmt.Errorf("bot is not a member of guild %s: %w", guildID, core.ErrPermissionDenied)
	}

	var result []*models.GuildBan
	afterID := ""
	for {
		page, err := h.discordSDKClient.GuildBans(guildID, guildBansPageSize, "", afterID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, mapGatewayRESTError(fmt.Sprintf("list bans of guild %s", guildID), err)
		}

		for _, ban := range page {
			result = append(result, mapToGuildBan(ban))
		}

		if len(page) < guildBansPageSize {
			break
		}
		afterID = page[len(page)-1].User.ID
	}

	log.Printf("✅ Retrieved %d bans for guild %s", len(result), guildID)
	return result, nil
}

// handleReadyEvent sets presence and registers slash commands on every (re)connect
func (h *DiscordEventsHandler) handleReadyEvent(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("🤖 Discord bot online as %s#%s in %d guilds", r.User.Username, r.User.Discriminator, len(r.Guilds))

	h.alerts.WrapGatewayHandler("READY", func() error {
		if err := s.UpdateWatchStatus(0, presenceActivity); err != nil {
			log.Printf("⚠️ Failed to set bot presence: %v", err)
		}

		commands, err := RegisterApplicationCommands(s, r.User.ID)
		if err != nil {
			return fmt.Errorf("failed to register slash commands: %w", err)
		}
		log.Printf("✅ Registered %d slash commands", len(commands))
		return nil
	})()
}

// handleInteractionCreatedEvent answers slash commands
func (h *DiscordEventsHandler) handleInteractionCreatedEvent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	commandName := i.ApplicationCommandData().Name
	log.Printf("🤖 Slash command /%s received in guild %s", commandName, i.GuildID)

	deferred := bot.IsDeferred(commandName)
	if deferred {
		// Discord drops interactions not acknowledged within 3 seconds
		err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		})
		if err != nil {
			log.Printf("❌ Failed to defer interaction for /%s: %v", commandName, err)
			return
		}
	}

	h.pool.Submit(h.alerts.WrapGatewayHandler("INTERACTION_CREATE /"+commandName, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
		defer cancel()

		reply, err := h.botUseCase.ProcessSlashCommand(ctx, i.GuildID, commandName)
		if err != nil {
			reply = &models.BotReply{Content: "Something went wrong, please try again later.", Ephemeral: true}
			log.Printf("❌ Failed to process /%s: %v", commandName, err)
		}

		if deferred {
			if _, editErr := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &reply.Content}); editErr != nil {
				return fmt.Errorf("failed to edit deferred response: %w", editErr)
			}
			return err
		}

		if respondErr := s.InteractionRespond(i.Interaction, interactionResponseFor(reply)); respondErr != nil {
			return fmt.Errorf("failed to respond to interaction: %w", respondErr)
		}
		return err
	}))
}

// handleMessageCreatedEvent runs chat messages through the guild's custom commands
func (h *DiscordEventsHandler) handleMessageCreatedEvent(s *discordgo.Session, m *discordgo.MessageCreate) {
	event, ok := mapToDiscordMessageEvent(m)
	if !ok {
		return
	}

	h.pool.Submit(h.alerts.WrapGatewayHandler("MESSAGE_CREATE", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
		defer cancel()

		maybeResponse, err := h.botUseCase.ProcessMessageEvent(ctx, event)
		if err != nil {
			return err
		}
		response, matched := maybeResponse.Get()
		if !matched {
			return nil
		}

		if _, err := s.ChannelMessageSend(event.ChannelID, response, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("failed to send custom command reply in channel %s: %w", event.ChannelID, err)
		}
		log.Printf("📨 Sent custom command reply in guild %s, channel %s", event.GuildID, event.ChannelID)
		return nil
	}))
}

// mapToDiscordMessageEvent maps a gateway message to our domain model. Messages from bots or
// outside guilds are dropped here so they never reach the worker pool.
func mapToDiscordMessageEvent(m *discordgo.MessageCreate) (models.DiscordMessageEvent, bool) {
	if m == nil || m.Message == nil || m.Author == nil {
		return models.DiscordMessageEvent{}, false
	}
	if m.Author.Bot || m.GuildID == "" || m.Content == "" {
		return models.DiscordMessageEvent{}, false
	}

	return models.DiscordMessageEvent{
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		MessageID: m.ID,
		AuthorID:  m.Author.ID,
		AuthorBot: m.Author.Bot,
		Content:   m.Content,
	}, true
}

func mapToGuildBan(ban *discordgo.GuildBan) *models.GuildBan {
	result := &models.GuildBan{Reason: ban.Reason}
	if ban.User != nil {
		result.UserID = ban.User.ID
		result.Username = ban.User.Username
		result.AvatarRef = ban.User.Avatar
	}
	return result
}

func interactionResponseFor(reply *models.BotReply) *discordgo.InteractionResponse {
	data := &discordgo.InteractionResponseData{Content: reply.Content}
	if reply.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}
}

func mapGatewayRESTError(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("failed to %s: %w: %w", op, core.ErrPermissionDenied, err)
		}
	}
	return fmt.Errorf("failed to %s: %w: %w", op, core.ErrUpstreamUnavailable, err)
}
