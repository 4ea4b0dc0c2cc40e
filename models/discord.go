package models

// PermissionManageGuild is the permission bit (0x20) that marks a guild as administered
const PermissionManageGuild int64 = 0x20

// AdminGuild is a guild the linked account can configure from the dashboard
type AdminGuild struct {
	ID          string
	Name        string
	IconRef     string
	Owner       bool
	Permissions int64
}

// GuildBan is one entry of a guild's ban list
type GuildBan struct {
	UserID    string
	Username  string
	AvatarRef string
	Reason    string
}

// DiscordProfile is the subset of /users/@me needed to link an account
type DiscordProfile struct {
	ID        string
	Username  string
	AvatarRef string
}

// DiscordOAuthToken is the result of an authorization code exchange
type DiscordOAuthToken struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// DiscordMessageEvent is the platform-independent view of a gateway MESSAGE_CREATE
type DiscordMessageEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	AuthorID  string
	AuthorBot bool
	Content   string
}

// BotReply is what the gateway listener sends back for a slash command
type BotReply struct {
	Content   string
	Ephemeral bool
}
