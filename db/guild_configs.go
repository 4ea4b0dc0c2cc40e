package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	// necessary import to wire up the postgres driver
	_ "github.com/lib/pq"

	"mcpanel/core"
	"mcpanel/models"
)

// PostgresGuildConfigsRepository stores one row per guild with the command list in a JSONB
// column. Every mutation is a single statement, so row-level atomicity is the only concurrency
// control: at most light concurrent writers per guild are assumed, and a remove racing an
// append resolves to whichever statement commits last.
type PostgresGuildConfigsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for guild_configs table
var guildConfigsColumns = []string{
	"guild_id",
	"server_address",
	"commands",
	"created_at",
	"updated_at",
}

func NewPostgresGuildConfigsRepository(db *sqlx.DB, schema string) *PostgresGuildConfigsRepository {
	return &PostgresGuildConfigsRepository{db: db, schema: schema}
}

func (r *PostgresGuildConfigsRepository) GetGuildConfig(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildConfig], error) {
	columnsStr := strings.Join(guildConfigsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.guild_configs 
		WHERE guild_id = $1`, columnsStr, r.schema)

	var config models.GuildConfig
	err := r.db.GetContext(ctx, &config, query, guildID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.GuildConfig](), nil
		}
		return mo.None[*models.GuildConfig](), core.StoreError("get guild config", err)
	}

	return mo.Some(&config), nil
}

// UpsertServerAddress replaces only server_address, leaving commands untouched
func (r *PostgresGuildConfigsRepository) UpsertServerAddress(
	ctx context.Context,
	guildID, serverAddress string,
) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.guild_configs (guild_id, server_address, commands, created_at, updated_at)
		VALUES ($1, $2, '[]'::jsonb, NOW(), NOW())
		ON CONFLICT (guild_id)
		DO UPDATE SET
			server_address = EXCLUDED.server_address,
			updated_at = NOW()`, r.schema)

	if _, err := r.db.ExecContext(ctx, query, guildID, serverAddress); err != nil {
		return core.StoreError("upsert guild server address", err)
	}

	return nil
}

// AppendCommand adds the command at the end of the list, creating the guild row with
// defaultServerAddress when it does not exist yet
func (r *PostgresGuildConfigsRepository) AppendCommand(
	ctx context.Context,
	guildID string,
	command models.CustomCommand,
	defaultServerAddress string,
) error {
	query := fmt.Sprintf(`
		INSERT INTO %s.guild_configs AS gc (guild_id, server_address, commands, created_at, updated_at)
		VALUES (
			$1,
			$2,
			jsonb_build_array(jsonb_build_object('trigger', $3::text, 'response', $4::text)),
			NOW(),
			NOW()
		)
		ON CONFLICT (guild_id)
		DO UPDATE SET
			commands = gc.commands || EXCLUDED.commands,
			updated_at = NOW()`, r.schema)

	_, err := r.db.ExecContext(ctx, query, guildID, defaultServerAddress, command.Trigger, command.Response)
	if err != nil {
		return core.StoreError("append guild command", err)
	}

	return nil
}

// RemoveCommandsByTrigger removes every command whose trigger equals trigger, preserving the
// order of the rest. removed is false when the guild has no such command or no row at all.
func (r *PostgresGuildConfigsRepository) RemoveCommandsByTrigger(
	ctx context.Context,
	guildID, trigger string,
) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s.guild_configs
		SET
			commands = COALESCE(
				(
					SELECT jsonb_agg(elem ORDER BY ord)
					FROM jsonb_array_elements(commands) WITH ORDINALITY AS t(elem, ord)
					WHERE elem->>'trigger' IS DISTINCT FROM $2::text
				),
				'[]'::jsonb
			),
			updated_at = NOW()
		WHERE guild_id = $1
			AND commands @> jsonb_build_array(jsonb_build_object('trigger', $2::text))`, r.schema)

	result, err := r.db.ExecContext(ctx, query, guildID, trigger)
	if err != nil {
		return false, core.StoreError("remove guild commands", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, core.StoreError("get affected rows", err)
	}

	return rowsAffected > 0, nil
}
