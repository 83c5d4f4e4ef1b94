package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	leadsCollection      = "leads"
	categoriesCollection = "categories"
	usersCollection      = "users"
	contactsCollection   = "contact_messages"
)

// Connect opens the client, pings the primary and returns the database handle.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongodb connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return client, client.Database(database), nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is safe to
// call on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(leadsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("leads indexes: %w", err)
	}

	_, err = db.Collection(usersCollection).Indexes().CreateOne(ctx, userEmailIndex())
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = db.Collection(contactsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("contact indexes: %w", err)
	}
	return nil
}

// userEmailIndex compares emails case-insensitively, matching the
// lower(email) index on postgres.
func userEmailIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	}
}
