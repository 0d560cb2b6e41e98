package userRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sahara/database/repository"
	"sahara/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoUserRepo implements UserRepository using MongoDB.
type MongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo creates a new instance of UserRepository using MongoDB.
func NewMongoUserRepo(db *mongo.Database, logger *zap.Logger) UserRepository {
	repo := &MongoUserRepo{coll: db.Collection("users")}

	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create user indexes", zap.Error(err))
	}
	return repo
}

// withTimeout bounds a repository call.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (r *MongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by its unique ID.
func (r *MongoUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := r.findOne(ctx, bson.M{"id": id})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user with id %s: %w", id, err)
	}
	return user, nil
}

// profileSet collects the non-nil profile fields into a $set document.
func profileSet(email, phone, name *string, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if email != nil {
		set["email"] = *email
	}
	if phone != nil {
		set["phone"] = *phone
	}
	if name != nil {
		set["name"] = *name
	}
	return set
}

// profileUnset lists the nil profile fields for removal.
func profileUnset(email, phone, name *string) bson.M {
	unset := bson.M{}
	if email == nil {
		unset["email"] = ""
	}
	if phone == nil {
		unset["phone"] = ""
	}
	if name == nil {
		unset["name"] = ""
	}
	return unset
}

// Upsert inserts or updates the user keyed by firebase uid in one round trip.
func (r *MongoUserRepo) Upsert(ctx context.Context, in models.UserSync) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": profileSet(in.Email, in.Phone, in.Name, now),
		"$setOnInsert": bson.M{
			"id":           uuid.NewString(),
			"firebase_uid": in.FirebaseUID,
			"created_at":   now,
		},
	}
	if in.Replace {
		if unset := profileUnset(in.Email, in.Phone, in.Name); len(unset) > 0 {
			update["$unset"] = unset
		}
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"firebase_uid": in.FirebaseUID}, update, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", in.FirebaseUID, err)
	}
	return &user, nil
}

// Update modifies an existing user document.
func (r *MongoUserRepo) Update(ctx context.Context, id string, upd models.UserUpdateRequest) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": profileSet(upd.Email, upd.Phone, upd.Name, time.Now().UTC())}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("user with id %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	return &user, nil
}
