package api

import (
	"time"
)

// IdentityModel represents the linked account returned by the API
type IdentityModel struct {
	DiscordID string    `json:"discordId"`
	Username  string    `json:"username"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CustomCommandModel is one trigger/response pair
type CustomCommandModel struct {
	Trigger  string `json:"trigger"`
	Response string `json:"response"`
}

// GuildConfigModel represents a guild's configuration returned by the API
type GuildConfigModel struct {
	GuildID       string               `json:"guildId"`
	ServerAddress string               `json:"serverAddress"`
	Commands      []CustomCommandModel `json:"commands"`
}

// AdminGuildModel is a guild the caller can manage
type AdminGuildModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}

// GuildBanModel is one ban list entry
type GuildBanModel struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// GuildBansResponse always carries the bans key, an empty guild renders as {"bans":[]}.
// When the bot cannot read the list, ErrorResponse is sent with status 200 instead.
type GuildBansResponse struct {
	Bans []GuildBanModel `json:"bans"`
}

// StatusSnapshotModel mirrors the dashboard's status card. Only Online is set for offline servers.
type StatusSnapshotModel struct {
	Online  bool   `json:"online"`
	Players *int64 `json:"players,omitempty"`
	Max     *int64 `json:"max,omitempty"`
	Version string `json:"version,omitempty"`
	MOTD    string `json:"motd,omitempty"`
	Favicon string `json:"favicon,omitempty"`
}

// SuccessResponse acknowledges a mutation
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the JSON error body used by every dashboard endpoint
type ErrorResponse struct {
	Error string `json:"error"`
}
