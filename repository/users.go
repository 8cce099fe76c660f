package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"habittracker/model"
	"habittracker/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Habit counter fields inside a day bucket.
const (
	GoodCountField = "goodCount"
	BadCountField  = "badCount"
)

type UserRepo struct {
	MongoCollection *mongo.Collection
}

func GetUserRepo(client *mongo.Client) *UserRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("USERS_COLLECTION")
	return &UserRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *UserRepo) AddUser(ctx context.Context, user *model.User) (interface{}, error) {
	timer := utils.TrackDBOperation("insert", "users")
	defer timer.ObserveDuration()

	if user.Username == "" || user.Password == "" {
		utils.TrackError("database", "invalid_user_data")
		return nil, errors.New("username and password required")
	}

	result, err := r.MongoCollection.InsertOne(ctx, user)
	if err != nil {
		utils.TrackError("database", "user_creation_failed")
		return nil, fmt.Errorf("failed to add user to database: %w", err)
	}

	return result.InsertedID, nil
}

// FindUser returns the user document, or (nil, nil) when no such user exists.
func (r *UserRepo) FindUser(ctx context.Context, userID string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.D{{Key: "user_id", Value: userID}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}

	return &user, nil
}

func (r *UserRepo) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.D{{Key: "username", Value: username}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}

	return &user, nil
}

func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	var user model.User
	filter := bson.D{{Key: "email", Value: email}}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "user_lookup_error")
		return nil, err
	}

	return &user, nil
}

func (r *UserRepo) DeleteUserByID(ctx context.Context, userID string) (int64, error) {
	timer := utils.TrackDBOperation("delete", "users")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx,
		bson.D{{Key: "user_id", Value: userID}})
	if err != nil {
		utils.TrackError("database", "user_deletion_failed")
		return 0, err
	}

	return result.DeletedCount, nil
}

func habitField(dayKey string) string {
	return "dailyHabits." + dayKey
}

// EnsureDayBucket inserts a zeroed counter pair at dayKey unless the bucket
// already exists. The $exists filter makes create-if-absent a single atomic
// update, so a concurrent increment on the same bucket cannot be clobbered.
// Returns true when a new bucket was created.
func (r *UserRepo) EnsureDayBucket(ctx context.Context, userID, dayKey string) (bool, error) {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":           userID,
		habitField(dayKey):  bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			habitField(dayKey): model.DayCounts{},
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "bucket_create_failed")
		return false, fmt.Errorf("failed to create day bucket: %w", err)
	}

	return result.ModifiedCount > 0, nil
}

// IncrementDayCount adds one to the named counter in the dayKey bucket and
// records the supplied timezone as the user's preference. The bucket must
// exist (callers run EnsureDayBucket first). Returns the updated document,
// or (nil, nil) when the user does not exist.
func (r *UserRepo) IncrementDayCount(ctx context.Context, userID, dayKey, counter, timezone string) (*model.User, error) {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$inc": bson.M{habitField(dayKey) + "." + counter: 1},
		"$set": bson.M{"timezone": timezone},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "habit_increment_failed")
		return nil, fmt.Errorf("failed to increment habit count: %w", err)
	}

	return &user, nil
}

// DecrementDayCount subtracts one from the named counter, but only when the
// counter is currently above zero: the guard lives in the filter, so the
// check and the write are one atomic operation and the counter can never go
// negative. Returns (nil, false, nil) when nothing matched; the caller
// distinguishes missing user, missing bucket and zero counter by re-reading.
func (r *UserRepo) DecrementDayCount(ctx context.Context, userID, dayKey, counter, timezone string) (*model.User, bool, error) {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{
		"user_id":                             userID,
		habitField(dayKey) + "." + counter:    bson.M{"$gt": 0},
	}
	update := bson.M{
		"$inc": bson.M{habitField(dayKey) + "." + counter: -1},
		"$set": bson.M{"timezone": timezone},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user model.User
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, nil
		}
		utils.TrackError("database", "habit_decrement_failed")
		return nil, false, fmt.Errorf("failed to decrement habit count: %w", err)
	}

	return &user, true, nil
}

// ListUsersWithTimezone streams every user that has a recorded timezone
// preference, projected down to what the rollover sweep needs.
func (r *UserRepo) ListUsersWithTimezone(ctx context.Context) ([]*model.User, error) {
	timer := utils.TrackDBOperation("find", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"timezone": bson.M{"$exists": true, "$ne": ""}}
	opts := options.Find().SetProjection(bson.M{
		"user_id":  1,
		"timezone": 1,
	})

	cursor, err := r.MongoCollection.Find(ctx, filter, opts)
	if err != nil {
		utils.TrackError("database", "user_list_failed")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			log.Printf("Error closing user cursor: %v", err)
		}
	}()

	var users []*model.User
	if err := cursor.All(ctx, &users); err != nil {
		utils.TrackError("database", "user_list_decode_failed")
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	return users, nil
}

func (r *UserRepo) Enable2FA(ctx context.Context, userID, secret string, recoveryCodes []string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"two_factor_secret":  secret,
			"two_factor_enabled": true,
			"recovery_codes":     recoveryCodes,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "2fa_enable_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}

	return nil
}

func (r *UserRepo) Disable2FA(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "users")
	defer timer.ObserveDuration()

	filter := bson.M{"user_id": userID}
	update := bson.M{
		"$set": bson.M{
			"two_factor_secret":  "",
			"two_factor_enabled": false,
			"recovery_codes":     nil,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "2fa_disable_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}

	return nil
}

// EnsureIndexes creates the unique username/email indexes backing the
// registration uniqueness checks.
func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.MongoCollection.Indexes().CreateMany(ctx, indexes)
	return err
}
