package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accident-service/pkg/errs"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository interface {
	FindByID(ctx context.Context, userID string) (*UserProfile, error)
	AddDeviceToken(ctx context.Context, userID, token string) error
	SetEmergencyContacts(ctx context.Context, userID string, contacts []Contact) error
	AddEmergencyContacts(ctx context.Context, userID string, contacts []Contact) error
	SetPrevention(ctx context.Context, userID string, enabled bool) error
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(collection *mongo.Collection) UserRepository {
	return &userRepository{
		collection: collection,
	}
}

func (r *userRepository) FindByID(ctx context.Context, userID string) (*UserProfile, error) {

	var doc userDocument

	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: find user %s: %v", errs.ErrStorage, userID, err)
	}

	return doc.toProfile(), nil
}

// AddDeviceToken upserts the profile, so registering a device is also how a user
// comes into existence.
func (r *userRepository) AddDeviceToken(ctx context.Context, userID, token string) error {

	now := time.Now().UTC()
	update := bson.M{
		"$addToSet":    bson.M{"device_tokens": token},
		"$set":         bson.M{"prevention_enabled": true, "updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: add device token: %v", errs.ErrStorage, err)
	}
	return nil
}

func (r *userRepository) SetEmergencyContacts(ctx context.Context, userID string, contacts []Contact) error {

	update := bson.M{
		"$set":   bson.M{"emergency_contacts": contacts, "updated_at": time.Now().UTC()},
		"$unset": bson.M{"emergencyContacts": ""},
	}
	return r.updateExisting(ctx, userID, update)
}

func (r *userRepository) AddEmergencyContacts(ctx context.Context, userID string, contacts []Contact) error {

	update := bson.M{
		"$addToSet": bson.M{"emergency_contacts": bson.M{"$each": contacts}},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}
	return r.updateExisting(ctx, userID, update)
}

func (r *userRepository) SetPrevention(ctx context.Context, userID string, enabled bool) error {

	update := bson.M{"$set": bson.M{"prevention_enabled": enabled, "updated_at": time.Now().UTC()}}
	return r.updateExisting(ctx, userID, update)
}

func (r *userRepository) updateExisting(ctx context.Context, userID string, update bson.M) error {

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("%w: update user %s: %v", errs.ErrStorage, userID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: user %s", errs.ErrNotFound, userID)
	}
	return nil
}
