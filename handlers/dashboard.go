package handlers

import (
	"context"
	"fmt"
	"log"
	"time"

	"mcpanel/core"
	"mcpanel/models"
	"mcpanel/services"
)

const guildBansTimeout = 10 * time.Second

type DashboardAPIHandler struct {
	identitiesService   services.IdentitiesService
	guildConfigsService services.GuildConfigsService
	statusProber        services.StatusProber
	guildBansReader     services.GuildBansReader
}

func NewDashboardAPIHandler(
	identitiesService services.IdentitiesService,
	guildConfigsService services.GuildConfigsService,
	statusProber services.StatusProber,
	guildBansReader services.GuildBansReader,
) *DashboardAPIHandler {
	return &DashboardAPIHandler{
		identitiesService:   identitiesService,
		guildConfigsService: guildConfigsService,
		statusProber:        statusProber,
		guildBansReader:     guildBansReader,
	}
}

// GetIdentity returns a linked account or core.ErrNotFound
func (h *DashboardAPIHandler) GetIdentity(ctx context.Context, identityID string) (*models.Identity, error) {
	log.Printf("👤 Getting identity: %s", identityID)
	maybeIdentity, err := h.identitiesService.GetIdentityByID(ctx, identityID)
	if err != nil {
		log.Printf("❌ Failed to get identity: %v", err)
		return nil, err
	}

	identity, ok := maybeIdentity.Get()
	if !ok {
		log.Printf("❌ Identity not found: %s", identityID)
		return nil, fmt.Errorf("identity %s: %w", identityID, core.ErrNotFound)
	}

	return identity, nil
}

// ListAdministeredGuilds returns the guilds the identity can configure
func (h *DashboardAPIHandler) ListAdministeredGuilds(ctx context.Context, identity *models.Identity) ([]*models.AdminGuild, error) {
	log.Printf("📋 Listing administered guilds for identity: %s", identity.ID)
	guilds, err := h.identitiesService.ListAdministeredGuilds(ctx, identity.ID)
	if err != nil {
		log.Printf("❌ Failed to list administered guilds: %v", err)
		return nil, err
	}

	log.Printf("✅ Retrieved %d administered guilds for identity: %s", len(guilds), identity.ID)
	return guilds, nil
}

func (h *DashboardAPIHandler) GetGuildConfig(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	config, err := h.guildConfigsService.GetGuildConfig(ctx, guildID)
	if err != nil {
		log.Printf("❌ Failed to get guild config: %v", err)
		return nil, err
	}
	return config, nil
}

// SetServerAddress overwrites the guild's Minecraft server address
func (h *DashboardAPIHandler) SetServerAddress(ctx context.Context, guildID, serverAddress string) error {
	log.Printf("🎮 Setting server address for guild %s", guildID)
	if err := h.guildConfigsService.SetServerAddress(ctx, guildID, serverAddress); err != nil {
		log.Printf("❌ Failed to set server address: %v", err)
		return err
	}

	log.Printf("✅ Server address updated for guild %s", guildID)
	return nil
}

func (h *DashboardAPIHandler) AppendCommand(ctx context.Context, guildID, trigger, response string) error {
	log.Printf("➕ Adding custom command to guild %s", guildID)
	if err := h.guildConfigsService.AppendCommand(ctx, guildID, trigger, response); err != nil {
		log.Printf("❌ Failed to add custom command: %v", err)
		return err
	}

	log.Printf("✅ Custom command added to guild %s", guildID)
	return nil
}

// RemoveCommand removes every command with the trigger. Removing nothing is not an error.
func (h *DashboardAPIHandler) RemoveCommand(ctx context.Context, guildID, trigger string) error {
	log.Printf("🗑️ Removing custom command from guild %s", guildID)
	removed, err := h.guildConfigsService.RemoveCommand(ctx, guildID, trigger)
	if err != nil {
		log.Printf("❌ Failed to remove custom command: %v", err)
		return err
	}

	if removed {
		log.Printf("✅ Custom command removed from guild %s", guildID)
	} else {
		log.Printf("⚠️ No custom command matched in guild %s", guildID)
	}
	return nil
}

// GetGuildBans reads the ban list through the gateway listener with its own deadline
func (h *DashboardAPIHandler) GetGuildBans(ctx context.Context, guildID string) ([]*models.GuildBan, error) {
	log.Printf("🔨 Getting ban list for guild %s", guildID)
	ctx, cancel := context.WithTimeout(ctx, guildBansTimeout)
	defer cancel()

	bans, err := h.guildBansReader.GetGuildBans(ctx, guildID)
	if err != nil {
		log.Printf("❌ Failed to get ban list: %v", err)
		return nil, err
	}
	return bans, nil
}

// ProbeServer never fails; unreachable servers come back offline
func (h *DashboardAPIHandler) ProbeServer(ctx context.Context, address string) models.StatusSnapshot {
	return h.statusProber.Probe(ctx, address)
}
