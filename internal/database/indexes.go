package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureUserIndexes creates the indexes the users collection relies on:
// a unique email index (one account per address) and an expiry index so
// the periodic token sweep stays cheap.
func EnsureUserIndexes(ctx context.Context) error {
	users := DB.Collection("users")

	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "magic_link_expires", Value: 1}},
		},
	})
	return err
}
