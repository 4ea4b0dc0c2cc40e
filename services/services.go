package services

import (
	"context"

	"github.com/samber/mo"

	"mcpanel/models"
)

// IdentitiesService defines the interface for Identity Store operations
type IdentitiesService interface {
	UpsertIdentity(ctx context.Context, identity *models.Identity) (bool, error)
	GetIdentityByID(ctx context.Context, id string) (mo.Option[*models.Identity], error)
	ListAdministeredGuilds(ctx context.Context, identityID string) ([]*models.AdminGuild, error)
	IsGuildAdministrator(ctx context.Context, identityID, guildID string) (bool, error)
}

// GuildConfigsService defines the interface for Guild Configuration Store operations
type GuildConfigsService interface {
	GetGuildConfig(ctx context.Context, guildID string) (*models.GuildConfig, error)
	SetServerAddress(ctx context.Context, guildID, serverAddress string) error
	AppendCommand(ctx context.Context, guildID, trigger, response string) error
	RemoveCommand(ctx context.Context, guildID, trigger string) (bool, error)
	MatchMessage(ctx context.Context, guildID, content string) (mo.Option[string], error)
}

// StatusProber queries a Minecraft server. It never fails: every problem is an offline snapshot.
type StatusProber interface {
	Probe(ctx context.Context, address string) models.StatusSnapshot
}

// SessionsService defines the interface for the login handshake and session tokens
type SessionsService interface {
	AuthorizationURL() string
	CompleteLogin(ctx context.Context, code string) (*models.LoginResult, error)
	VerifySession(ctx context.Context, token string) (*models.Session, error)
}

// GuildBansReader reads a guild's ban list through the gateway connection
type GuildBansReader interface {
	GetGuildBans(ctx context.Context, guildID string) ([]*models.GuildBan, error)
}
