package repository

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"habittracker/model"
	"habittracker/services"
	"habittracker/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SessionRepo struct {
	MongoCollection *mongo.Collection
}

func GetSessionRepo(client *mongo.Client) *SessionRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := os.Getenv("SESSIONS_COLLECTION")
	return &SessionRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *SessionRepo) CreateSession(ctx context.Context, session *model.Session) error {
	timer := utils.TrackDBOperation("insert", "sessions")
	defer timer.ObserveDuration()

	if session == nil {
		utils.TrackError("database", "nil_session")
		return fmt.Errorf("session cannot be nil")
	}
	if session.SessionID == "" || session.UserID == "" {
		utils.TrackError("database", "invalid_session_data")
		return fmt.Errorf("invalid session data: missing required fields")
	}

	if _, err := r.MongoCollection.InsertOne(ctx, session); err != nil {
		utils.TrackError("database", "session_creation_failed")
		return fmt.Errorf("failed to create session: %w", err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(session); err != nil {
			log.Printf("Warning: failed to cache session: %v", err)
		}
	}

	return nil
}

func (r *SessionRepo) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	timer := utils.TrackDBOperation("find", "sessions")
	defer timer.ObserveDuration()

	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	if services.GlobalSessionCache != nil {
		if session, err := services.GlobalSessionCache.GetSession(sessionID); err == nil && session != nil {
			return session, nil
		}
	}

	var session model.Session
	err := r.MongoCollection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&session)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		utils.TrackError("database", "session_fetch_failed")
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.SetSession(&session); err != nil {
			log.Printf("Warning: failed to cache session: %v", err)
		}
	}

	return &session, nil
}

func (r *SessionRepo) CountActiveSessions(ctx context.Context, userID string) (int, error) {
	timer := utils.TrackDBOperation("count", "sessions")
	defer timer.ObserveDuration()

	count, err := r.MongoCollection.CountDocuments(ctx, bson.M{
		"user_id":    userID,
		"is_active":  true,
		"expires_at": bson.M{"$gt": time.Now()},
	})
	if err != nil {
		utils.TrackError("database", "session_count_failed")
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	return int(count), nil
}

// EndLeastActiveSession deactivates the session with the oldest activity
// timestamp, enforcing the per-user session cap on login.
func (r *SessionRepo) EndLeastActiveSession(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("update", "sessions")
	defer timer.ObserveDuration()

	opts := options.FindOneAndUpdate().SetSort(bson.D{{Key: "last_activity_at", Value: 1}})
	filter := bson.M{"user_id": userID, "is_active": true}
	update := bson.M{"$set": bson.M{"is_active": false}}

	var ended model.Session
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&ended)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil
		}
		utils.TrackError("database", "session_end_failed")
		return fmt.Errorf("failed to end session: %w", err)
	}

	if services.GlobalSessionCache != nil {
		if err := services.GlobalSessionCache.DeleteSession(ended.SessionID); err != nil {
			log.Printf("Warning: failed to evict cached session: %v", err)
		}
	}

	return nil
}

// DeleteUserSessions removes every session for a user. Used on logout-all
// and account deletion.
func (r *SessionRepo) DeleteUserSessions(ctx context.Context, userID string) error {
	timer := utils.TrackDBOperation("delete", "sessions")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetProjection(bson.M{"session_id": 1}))
	if err == nil {
		var sessions []*model.Session
		if err := cursor.All(ctx, &sessions); err == nil && services.GlobalSessionCache != nil {
			for _, s := range sessions {
				if err := services.GlobalSessionCache.DeleteSession(s.SessionID); err != nil {
					log.Printf("Warning: failed to evict cached session: %v", err)
				}
			}
		}
	}

	if _, err := r.MongoCollection.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		utils.TrackError("database", "session_delete_failed")
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}
