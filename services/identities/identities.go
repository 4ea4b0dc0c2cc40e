package identities

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/mo"

	"mcpanel/clients"
	"mcpanel/core"
	"mcpanel/models"
)

const (
	administeredGuildsTTL     = 60 * time.Second
	administeredGuildsCleanup = 5 * time.Minute
)

// IdentitiesRepository defines the interface for identity repository operations
type IdentitiesRepository interface {
	UpsertIdentity(ctx context.Context, identity *models.Identity) (bool, error)
	GetIdentityByID(ctx context.Context, id string) (mo.Option[*models.Identity], error)
}

type IdentitiesService struct {
	identitiesRepo IdentitiesRepository
	discordClient  clients.DiscordClient

	// administered guild lists keyed by identity id
	guildsCache *cache.Cache
}

func NewIdentitiesService(repo IdentitiesRepository, discordClient clients.DiscordClient) *IdentitiesService {
	return &IdentitiesService{
		identitiesRepo: repo,
		discordClient:  discordClient,
		guildsCache:    cache.New(administeredGuildsTTL, administeredGuildsCleanup),
	}
}

// UpsertIdentity creates the identity or overwrites its display name, avatar and delegated token.
// created reports whether this was the account's first login.
func (s *IdentitiesService) UpsertIdentity(ctx context.Context, identity *models.Identity) (bool, error) {
	if identity == nil {
		return false, core.ValidationError("identity cannot be nil")
	}
	log.Printf("📋 Starting to upsert identity: %s", identity.ID)
	if identity.ID == "" {
		return false, core.ValidationError("identity ID cannot be empty")
	}

	created, err := s.identitiesRepo.UpsertIdentity(ctx, identity)
	if err != nil {
		return false, fmt.Errorf("failed to upsert identity: %w", err)
	}

	// the delegated token may have changed, so the guild list must be re-read
	s.guildsCache.Delete(identity.ID)

	log.Printf("📋 Completed successfully - upserted identity: %s (created: %t)", identity.ID, created)
	return created, nil
}

func (s *IdentitiesService) GetIdentityByID(ctx context.Context, id string) (mo.Option[*models.Identity], error) {
	log.Printf("📋 Starting to get identity by ID: %s", id)
	if id == "" {
		return mo.None[*models.Identity](), core.ValidationError("identity ID cannot be empty")
	}

	maybeIdentity, err := s.identitiesRepo.GetIdentityByID(ctx, id)
	if err != nil {
		return mo.None[*models.Identity](), fmt.Errorf("failed to get identity: %w", err)
	}

	if maybeIdentity.IsPresent() {
		log.Printf("📋 Completed successfully - found identity: %s", id)
	} else {
		log.Printf("📋 Completed successfully - identity not found: %s", id)
	}
	return maybeIdentity, nil
}

// ListAdministeredGuilds lists the guilds where the identity is owner or holds the manage-guild bit.
// Results are cached per identity for a minute so that guild-scoped requests don't each hit Discord.
func (s *IdentitiesService) ListAdministeredGuilds(ctx context.Context, identityID string) ([]*models.AdminGuild, error) {
	log.Printf("📋 Starting to list administered guilds for identity: %s", identityID)
	if identityID == "" {
		return nil, core.ValidationError("identity ID cannot be empty")
	}

	if cached, found := s.guildsCache.Get(identityID); found {
		guilds := cached.([]*models.AdminGuild)
		log.Printf("📋 Completed successfully - returned %d cached administered guilds for identity: %s", len(guilds), identityID)
		return guilds, nil
	}

	maybeIdentity, err := s.identitiesRepo.GetIdentityByID(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}
	identity, ok := maybeIdentity.Get()
	if !ok {
		return nil, fmt.Errorf("identity %s: %w", identityID, core.ErrNotFound)
	}

	if !identity.HasDelegatedToken() {
		log.Printf("⚠️ Identity %s has no delegated token, returning no guilds", identityID)
		return []*models.AdminGuild{}, nil
	}

	guilds, err := s.discordClient.ListCurrentUserGuilds(ctx, identity.DelegatedToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list Discord guilds: %w", err)
	}

	administered := FilterAdministeredGuilds(guilds)
	s.guildsCache.SetDefault(identityID, administered)

	log.Printf(
		"📋 Completed successfully - found %d administered guilds out of %d for identity: %s",
		len(administered),
		len(guilds),
		identityID,
	)
	return administered, nil
}

// IsGuildAdministrator reports whether guildID is among the identity's administered guilds
func (s *IdentitiesService) IsGuildAdministrator(ctx context.Context, identityID, guildID string) (bool, error) {
	if guildID == "" {
		return false, core.ValidationError("guild ID cannot be empty")
	}

	guilds, err := s.ListAdministeredGuilds(ctx, identityID)
	if err != nil {
		return false, err
	}

	for _, guild := range guilds {
		if guild.ID == guildID {
			return true, nil
		}
	}
	return false, nil
}

// FilterAdministeredGuilds keeps owned guilds and guilds with the manage-guild permission bit
func FilterAdministeredGuilds(guilds []*models.AdminGuild) []*models.AdminGuild {
	result := make([]*models.AdminGuild, 0, len(guilds))
	for _, guild := range guilds {
		if guild == nil {
			continue
		}
		if guild.Owner || guild.Permissions&models.PermissionManageGuild != 0 {
			result = append(result, guild)
		}
	}
	return result
}
