package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xavierca1/leadflow/internal/entity"
)

type ContactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{coll: db.Collection(contactsCollection)}
}

func (r *ContactRepository) Create(ctx context.Context, m *entity.ContactMessage) error {
	if _, err := r.coll.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, limit, offset int) ([]*entity.ContactMessage, error) {
	limit, offset = entity.NormalizePage(limit, offset)

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	out := make([]*entity.ContactMessage, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode contact messages: %w", err)
	}
	return out, nil
}
