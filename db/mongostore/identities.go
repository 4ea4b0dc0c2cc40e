package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/samber/mo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"mcpanel/core"
	"mcpanel/models"
)

type MongoIdentitiesRepository struct {
	collection *mongo.Collection
}

func NewMongoIdentitiesRepository(database *mongo.Database) *MongoIdentitiesRepository {
	return &MongoIdentitiesRepository{collection: database.Collection(identitiesCollection)}
}

// UpsertIdentity inserts the identity or overwrites display name, avatar and delegated token of
// the existing document with the same id. created reports whether a new document was inserted.
func (r *MongoIdentitiesRepository) UpsertIdentity(
	ctx context.Context,
	identity *models.Identity,
) (bool, error) {
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"display_name":    identity.DisplayName,
			"avatar_ref":      identity.AvatarRef,
			"delegated_token": identity.DelegatedToken,
			"updated_at":      now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": identity.ID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, core.StoreError("upsert identity", err)
	}

	maybeStored, err := r.GetIdentityByID(ctx, identity.ID)
	if err != nil {
		return false, err
	}
	if stored, ok := maybeStored.Get(); ok {
		*identity = *stored
	}

	return result.UpsertedCount > 0, nil
}

func (r *MongoIdentitiesRepository) GetIdentityByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Identity], error) {
	var identity models.Identity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&identity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mo.None[*models.Identity](), nil
		}
		return mo.None[*models.Identity](), core.StoreError("get identity by ID", err)
	}

	return mo.Some(&identity), nil
}
