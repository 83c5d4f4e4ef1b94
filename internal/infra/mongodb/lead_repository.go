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

type LeadRepository struct {
	coll *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{coll: db.Collection(leadsCollection)}
}

func (r *LeadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	if _, err := r.coll.InsertOne(ctx, lead); err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, entity.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return &lead, nil
}

func (r *LeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	filter.Normalize()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(filter.Limit)).
		SetSkip(int64(filter.Offset))

	cur, err := r.coll.Find(ctx, leadFilterDoc(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	leads := make([]*entity.Lead, 0)
	if err := cur.All(ctx, &leads); err != nil {
		return nil, fmt.Errorf("decode leads: %w", err)
	}
	return leads, nil
}

func (r *LeadRepository) Update(ctx context.Context, id string, patch entity.LeadPatch) (*entity.Lead, error) {
	if patch.IsEmpty() {
		return nil, entity.ErrEmptyPatch
	}
	set := leadPatchDoc(patch, time.Now().UTC())
	return r.findOneAndSet(ctx, bson.D{{Key: "_id", Value: id}}, set, entity.ErrLeadNotFound)
}

// Assign relies on the filter to make the transition atomic: the document is
// only touched if it is still new and unassigned.
func (r *LeadRepository) Assign(ctx context.Context, id, clientID string, at time.Time) (*entity.Lead, error) {
	at = at.UTC()
	filter := bson.D{
		{Key: "_id", Value: id},
		{Key: "status", Value: entity.LeadStatusNew},
		{Key: "assigned_to", Value: nil},
	}
	set := bson.D{
		{Key: "assigned_to", Value: clientID},
		{Key: "assigned_at", Value: at},
		{Key: "status", Value: entity.LeadStatusSent},
		{Key: "updated_at", Value: at},
	}

	lead, err := r.findOneAndSet(ctx, filter, set, entity.ErrLeadNotAssignable)
	if errors.Is(err, entity.ErrLeadNotAssignable) {
		return nil, r.missingOr(ctx, id, entity.ErrLeadNotAssignable)
	}
	return lead, err
}

func (r *LeadRepository) TransitionStatus(ctx context.Context, id string, from, to entity.LeadStatus) (*entity.Lead, error) {
	filter := bson.D{{Key: "_id", Value: id}, {Key: "status", Value: from}}
	set := bson.D{{Key: "status", Value: to}, {Key: "updated_at", Value: time.Now().UTC()}}

	lead, err := r.findOneAndSet(ctx, filter, set, entity.ErrInvalidTransition)
	if errors.Is(err, entity.ErrInvalidTransition) {
		return nil, r.missingOr(ctx, id, entity.ErrInvalidTransition)
	}
	return lead, err
}

func (r *LeadRepository) CountByStatus(ctx context.Context) (map[entity.LeadStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	var rows []struct {
		Status entity.LeadStatus `bson:"_id"`
		Count  int64             `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode counts: %w", err)
	}

	counts := make(map[entity.LeadStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *LeadRepository) findOneAndSet(ctx context.Context, filter, set bson.D, notFound error) (*entity.Lead, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var lead entity.Lead
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.D{{Key: "$set", Value: set}}, opts).Decode(&lead)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return &lead, nil
}

// missingOr tells "no such lead" apart from a failed conditional update.
func (r *LeadRepository) missingOr(ctx context.Context, id string, conflict error) error {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("check lead: %w", err)
	}
	if n == 0 {
		return entity.ErrLeadNotFound
	}
	return conflict
}

func leadFilterDoc(f entity.LeadFilter) bson.D {
	doc := bson.D{}
	if f.Status != "" {
		doc = append(doc, bson.E{Key: "status", Value: f.Status})
	}
	if f.CategoryID != "" {
		doc = append(doc, bson.E{Key: "category_id", Value: f.CategoryID})
	}
	if f.AssignedTo != "" {
		doc = append(doc, bson.E{Key: "assigned_to", Value: f.AssignedTo})
	}
	if f.Source != "" {
		doc = append(doc, bson.E{Key: "source", Value: f.Source})
	}
	return doc
}

func leadPatchDoc(p entity.LeadPatch, now time.Time) bson.D {
	set := bson.D{}
	if p.CustomerName != nil {
		set = append(set, bson.E{Key: "customer_name", Value: *p.CustomerName})
	}
	if p.CustomerPhone != nil {
		set = append(set, bson.E{Key: "customer_phone", Value: *p.CustomerPhone})
	}
	if p.CustomerEmail != nil {
		set = append(set, bson.E{Key: "customer_email", Value: *p.CustomerEmail})
	}
	if p.City != nil {
		set = append(set, bson.E{Key: "city", Value: *p.City})
	}
	if p.Notes != nil {
		set = append(set, bson.E{Key: "notes", Value: *p.Notes})
	}
	if p.CategoryID != nil {
		set = append(set, bson.E{Key: "category_id", Value: *p.CategoryID})
	}
	if p.Priority != nil {
		set = append(set, bson.E{Key: "priority", Value: *p.Priority})
	}
	return append(set, bson.E{Key: "updated_at", Value: now})
}
