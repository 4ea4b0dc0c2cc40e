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

// MongoGuildConfigsRepository keeps one document per guild. Mutations are single-document
// updates ($set, $push, $pull), so MongoDB's document-level atomicity is the only concurrency
// control and at most light concurrent writers per guild are assumed.
type MongoGuildConfigsRepository struct {
	collection *mongo.Collection
}

func NewMongoGuildConfigsRepository(database *mongo.Database) *MongoGuildConfigsRepository {
	return &MongoGuildConfigsRepository{collection: database.Collection(guildConfigsCollection)}
}

func (r *MongoGuildConfigsRepository) GetGuildConfig(
	ctx context.Context,
	guildID string,
) (mo.Option[*models.GuildConfig], error) {
	var config models.GuildConfig
	err := r.collection.FindOne(ctx, bson.M{"_id": guildID}).Decode(&config)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return mo.None[*models.GuildConfig](), nil
		}
		return mo.None[*models.GuildConfig](), core.StoreError("get guild config", err)
	}

	if config.Commands == nil {
		config.Commands = models.CustomCommands{}
	}
	return mo.Some(&config), nil
}

// UpsertServerAddress replaces only server_address, leaving commands untouched
func (r *MongoGuildConfigsRepository) UpsertServerAddress(
	ctx context.Context,
	guildID, serverAddress string,
) error {
	now := time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"server_address": serverAddress,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{
			"commands":   bson.A{},
			"created_at": now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": guildID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return core.StoreError("upsert guild server address", err)
	}

	return nil
}

// AppendCommand pushes the command to the end of the list, creating the document with
// defaultServerAddress when it does not exist yet
func (r *MongoGuildConfigsRepository) AppendCommand(
	ctx context.Context,
	guildID string,
	command models.CustomCommand,
	defaultServerAddress string,
) error {
	now := time.Now().UTC()

	update := bson.M{
		"$push": bson.M{
			"commands": command,
		},
		"$set": bson.M{
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"server_address": defaultServerAddress,
			"created_at":     now,
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": guildID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return core.StoreError("append guild command", err)
	}

	return nil
}

// RemoveCommandsByTrigger pulls every command whose trigger equals trigger. removed is false when
// the guild has no such command or no document at all.
func (r *MongoGuildConfigsRepository) RemoveCommandsByTrigger(
	ctx context.Context,
	guildID, trigger string,
) (bool, error) {
	filter := bson.M{
		"_id":              guildID,
		"commands.trigger": trigger,
	}
	update := bson.M{
		"$pull": bson.M{
			"commands": bson.M{"trigger": trigger},
		},
		"$set": bson.M{
			"updated_at": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, core.StoreError("remove guild commands", err)
	}

	return result.ModifiedCount > 0, nil
}
