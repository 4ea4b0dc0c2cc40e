package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DefaultServerAddress is used for guilds that never configured a Minecraft server
const DefaultServerAddress = "play.hypixel.net"

// CustomCommand is a chat trigger and the fixed reply the bot sends for it
type CustomCommand struct {
	Trigger  string `bson:"trigger"  json:"trigger"`
	Response string `bson:"response" json:"response"`
}

// CustomCommands is stored as a JSONB array so that appends and removals stay single-row updates
type CustomCommands []CustomCommand

// Value implements driver.Valuer
func (c CustomCommands) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	b, err := json.Marshal([]CustomCommand(c))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal custom commands: %w", err)
	}
	return b, nil
}

// Scan implements sql.Scanner
func (c *CustomCommands) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*c = CustomCommands{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type for custom commands: %T", src)
	}

	var commands []CustomCommand
	if err := json.Unmarshal(raw, &commands); err != nil {
		return fmt.Errorf("failed to unmarshal custom commands: %w", err)
	}
	if commands == nil {
		commands = []CustomCommand{}
	}
	*c = commands
	return nil
}

// GuildConfig is the per-guild configuration document. Commands keep insertion order.
type GuildConfig struct {
	GuildID       string         `db:"guild_id"       bson:"_id"            json:"guild_id"`
	ServerAddress string         `db:"server_address" bson:"server_address" json:"server_address"`
	Commands      CustomCommands `db:"commands"       bson:"commands"       json:"commands"`
	CreatedAt     time.Time      `db:"created_at"     bson:"created_at"     json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"     bson:"updated_at"     json:"updated_at"`
}

// NewDefaultGuildConfig returns the not-yet-persisted record used when a guild has none
func NewDefaultGuildConfig(guildID, serverAddress string) *GuildConfig {
	if serverAddress == "" {
		serverAddress = DefaultServerAddress
	}
	return &GuildConfig{
		GuildID:       guildID,
		ServerAddress: serverAddress,
		Commands:      CustomCommands{},
	}
}
