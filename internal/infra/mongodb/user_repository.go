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

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.coll.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return entity.ErrEmailAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.User, error) {
	cur, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]*entity.User, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}

	var u entity.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: userPatchDoc(patch, time.Now().UTC())}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return &u, nil
}

func userPatchDoc(p entity.UserPatch, now time.Time) bson.D {
	set := bson.D{}
	if p.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *p.Name})
	}
	if p.Phone != nil {
		set = append(set, bson.E{Key: "phone", Value: *p.Phone})
	}
	if p.CompanyName != nil {
		set = append(set, bson.E{Key: "company_name", Value: *p.CompanyName})
	}
	if p.PackageType != nil {
		set = append(set, bson.E{Key: "package_type", Value: *p.PackageType})
	}
	if p.MonthlyLeadLimit != nil {
		set = append(set, bson.E{Key: "monthly_lead_limit", Value: *p.MonthlyLeadLimit})
	}
	if p.CategoriesAllowed != nil {
		set = append(set, bson.E{Key: "categories_allowed", Value: *p.CategoriesAllowed})
	}
	if p.IsVIP != nil {
		set = append(set, bson.E{Key: "is_vip", Value: *p.IsVIP})
	}
	if p.IsActive != nil {
		set = append(set, bson.E{Key: "is_active", Value: *p.IsActive})
	}
	if p.Categories != nil {
		set = append(set, bson.E{Key: "categories", Value: *p.Categories})
	}
	return append(set, bson.E{Key: "updated_at", Value: now})
}
