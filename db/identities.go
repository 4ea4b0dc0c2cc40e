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

type PostgresIdentitiesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for identities table
var identitiesColumns = []string{
	"id",
	"display_name",
	"avatar_ref",
	"delegated_token",
	"created_at",
	"updated_at",
}

type upsertedIdentity struct {
	models.Identity
	Inserted bool `db:"inserted"`
}

func NewPostgresIdentitiesRepository(db *sqlx.DB, schema string) *PostgresIdentitiesRepository {
	return &PostgresIdentitiesRepository{db: db, schema: schema}
}

// UpsertIdentity inserts the identity or overwrites display name, avatar and delegated token of
// the existing record with the same id. created reports whether a new row was inserted.
func (r *PostgresIdentitiesRepository) UpsertIdentity(
	ctx context.Context,
	identity *models.Identity,
) (bool, error) {
	returningStr := strings.Join(identitiesColumns, ", ")

	// xmax is zero only for freshly inserted tuples
	query := fmt.Sprintf(`
		INSERT INTO %s.identities (id, display_name, avatar_ref, delegated_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (id)
		DO UPDATE SET
			display_name = EXCLUDED.display_name,
			avatar_ref = EXCLUDED.avatar_ref,
			delegated_token = EXCLUDED.delegated_token,
			updated_at = NOW()
		RETURNING %s, (xmax = 0) AS inserted`, r.schema, returningStr)

	var result upsertedIdentity
	err := r.db.QueryRowxContext(
		ctx,
		query,
		identity.ID, identity.DisplayName, identity.AvatarRef, identity.DelegatedToken,
	).StructScan(&result)
	if err != nil {
		return false, core.StoreError("upsert identity", err)
	}

	*identity = result.Identity
	return result.Inserted, nil
}

func (r *PostgresIdentitiesRepository) GetIdentityByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Identity], error) {
	columnsStr := strings.Join(identitiesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s 
		FROM %s.identities 
		WHERE id = $1`, columnsStr, r.schema)

	var identity models.Identity
	err := r.db.GetContext(ctx, &identity, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return mo.None[*models.Identity](), nil
		}
		return mo.None[*models.Identity](), core.StoreError("get identity by ID", err)
	}

	return mo.Some(&identity), nil
}
