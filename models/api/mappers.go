package api

import (
	"strconv"

	"mcpanel/models"
)

// DomainIdentityToAPIIdentity converts a domain Identity to an API IdentityModel.
// The delegated token is intentionally absent from the API model.
func DomainIdentityToAPIIdentity(identity *models.Identity) *IdentityModel {
	if identity == nil {
		return nil
	}

	return &IdentityModel{
		DiscordID: identity.ID,
		Username:  identity.DisplayName,
		Avatar:    identity.AvatarRef,
		CreatedAt: identity.CreatedAt,
		UpdatedAt: identity.UpdatedAt,
	}
}

// DomainGuildConfigToAPIGuildConfig converts a domain GuildConfig to an API GuildConfigModel
func DomainGuildConfigToAPIGuildConfig(config *models.GuildConfig) *GuildConfigModel {
	if config == nil {
		return nil
	}

	commands := make([]CustomCommandModel, 0, len(config.Commands))
	for _, cmd := range config.Commands {
		commands = append(commands, CustomCommandModel{Trigger: cmd.Trigger, Response: cmd.Response})
	}

	return &GuildConfigModel{
		GuildID:       config.GuildID,
		ServerAddress: config.ServerAddress,
		Commands:      commands,
	}
}

// DomainAdminGuildsToAPIAdminGuilds converts domain AdminGuilds to API models
func DomainAdminGuildsToAPIAdminGuilds(guilds []*models.AdminGuild) []*AdminGuildModel {
	result := make([]*AdminGuildModel, 0, len(guilds))
	for _, guild := range guilds {
		result = append(result, &AdminGuildModel{
			ID:          guild.ID,
			Name:        guild.Name,
			Icon:        guild.IconRef,
			Owner:       guild.Owner,
			Permissions: strconv.FormatInt(guild.Permissions, 10),
		})
	}
	return result
}

// DomainGuildBansToAPIGuildBans converts domain bans to API models
func DomainGuildBansToAPIGuildBans(bans []*models.GuildBan) []GuildBanModel {
	result := make([]GuildBanModel, 0, len(bans))
	for _, ban := range bans {
		result = append(result, GuildBanModel{
			UserID:   ban.UserID,
			Username: ban.Username,
			Avatar:   ban.AvatarRef,
			Reason:   ban.Reason,
		})
	}
	return result
}

// DomainStatusSnapshotToAPIStatusSnapshot converts a probe result to the wire shape.
// Offline snapshots carry nothing but {"online": false}.
func DomainStatusSnapshotToAPIStatusSnapshot(snapshot models.StatusSnapshot) *StatusSnapshotModel {
	if !snapshot.Online {
		return &StatusSnapshotModel{Online: false}
	}

	players := snapshot.PlayerCount
	maxPlayers := snapshot.MaxPlayers
	return &StatusSnapshotModel{
		Online:  true,
		Players: &players,
		Max:     &maxPlayers,
		Version: snapshot.VersionName,
		MOTD:    snapshot.MOTD,
		Favicon: snapshot.FaviconRef,
	}
}
