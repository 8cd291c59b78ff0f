package database

import (
	"context"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client
var DB *mongo.Database

func Connect(mongoURI string) error {
	// Use longer timeout for Atlas connections
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	// Ping the database with a separate context
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return err
	}

	Client = client
	DB = client.Database(databaseName(mongoURI))

	log.Println("✅ Connected to MongoDB")
	return nil
}

// databaseName extracts the database from a connection string of the form
// mongodb://host/db?opts, falling back to "rezo-db".
func databaseName(mongoURI string) string {
	name := "rezo-db"
	parts := strings.Split(mongoURI, "/")
	if len(parts) > 3 {
		dbPart := strings.Split(parts[len(parts)-1], "?")[0]
		if dbPart != "" {
			name = dbPart
		}
	}
	return name
}

func Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}
