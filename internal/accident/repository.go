package accident

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accident-service/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AccidentRepository interface {
	Create(ctx context.Context, accident *Accident) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Accident, error)
	ApplyTransition(ctx context.Context, id primitive.ObjectID, t Transition) (*Accident, error)
	FindPendingBefore(ctx context.Context, before time.Time) ([]*Accident, error)
}

type accidentRepository struct {
	collection *mongo.Collection
}

func NewAccidentRepository(collection *mongo.Collection) AccidentRepository {
	_ = EnsureAccidentIndexes(context.Background(), collection)
	return &accidentRepository{
		collection: collection,
	}
}

// Create stores a new accident and assigns its id.
func (r *accidentRepository) Create(ctx context.Context, accident *Accident) error {

	if accident.ID.IsZero() {
		accident.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, accident)
	if err != nil {
		return fmt.Errorf("%w: insert accident: %v", errs.ErrStorage, err)
	}

	return nil
}

func (r *accidentRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Accident, error) {

	var accident Accident

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&accident)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find accident %s: %v", errs.ErrStorage, id.Hex(), err)
	}

	return &accident, nil
}

// ApplyTransition performs the status change as a single-document compare-and-set.
// It returns the updated accident, or nil when the id is unknown or the stored
// status is not one of t.From.
func (r *accidentRepository) ApplyTransition(ctx context.Context, id primitive.ObjectID, t Transition) (*Accident, error) {

	now := time.Now().UTC()
	set := bson.M{"status": t.To, "updated_at": now}
	switch t.To {
	case StatusActive:
		set["activated_at"] = now
	case StatusCancelled:
		set["cancelled_at"] = now
	case StatusAccepted:
		set["accepted_at"] = now
		set["responding_hospital"] = t.RespondingHospital
		set["hospital_phone"] = t.HospitalPhone
	}

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": t.From},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Accident
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: transition accident %s to %s: %v", errs.ErrStorage, id.Hex(), t.To, err)
	}

	return &updated, nil
}

func (r *accidentRepository) FindPendingBefore(ctx context.Context, before time.Time) ([]*Accident, error) {

	var accidents []*Accident

	filter := bson.M{
		"status":     bson.M{"$in": pending},
		"created_at": bson.M{"$lte": before},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: find pending accidents: %v", errs.ErrStorage, err)
	}

	if err := cursor.All(ctx, &accidents); err != nil {
		return nil, fmt.Errorf("%w: decode pending accidents: %v", errs.ErrStorage, err)
	}

	return accidents, nil
}

func EnsureAccidentIndexes(ctx context.Context, coll *mongo.Collection) error {

	models := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().
				SetName("status_created"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("by_user_created"),
		},
	}
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}
