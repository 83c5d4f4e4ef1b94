package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xavierca1/leadflow/internal/entity"
)

type CategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(categoriesCollection)}
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	var c entity.Category
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	filter := bson.D{}
	if activeOnly {
		filter = append(filter, bson.E{Key: "is_active", Value: true})
	}

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_en", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]*entity.Category, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, patch entity.CategoryPatch) (*entity.Category, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}

	set := bson.D{}
	if patch.NameEN != nil {
		set = append(set, bson.E{Key: "name_en", Value: *patch.NameEN})
	}
	if patch.NameHE != nil {
		set = append(set, bson.E{Key: "name_he", Value: *patch.NameHE})
	}
	if patch.DescriptionEN != nil {
		set = append(set, bson.E{Key: "description_en", Value: *patch.DescriptionEN})
	}
	if patch.DescriptionHE != nil {
		set = append(set, bson.E{Key: "description_he", Value: *patch.DescriptionHE})
	}
	if patch.Icon != nil {
		set = append(set, bson.E{Key: "icon", Value: *patch.Icon})
	}
	if patch.IsActive != nil {
		set = append(set, bson.E{Key: "is_active", Value: *patch.IsActive})
	}
	set = append(set, bson.E{Key: "updated_at", Value: time.Now().UTC()})

	var c entity.Category
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return &c, nil
}

func (r *CategoryRepository) Deactivate(ctx context.Context, id string) error {
	inactive := false
	_, err := r.Update(ctx, id, entity.CategoryPatch{IsActive: &inactive})
	return err
}
