package repository

import (
	"context"
	"testing"
	"time"

	"habittracker/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func newTestRepo(t *testing.T) (*UserRepo, func()) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Skipf("MongoDB not reachable: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		t.Skipf("MongoDB not reachable: %v", err)
	}

	coll := client.Database("habits_test").Collection("users_" + uuid.New().String())
	return &UserRepo{MongoCollection: coll}, func() {
		if err := coll.Drop(context.Background()); err != nil {
			t.Logf("Warning: failed to drop collection: %v", err)
		}
		if err := client.Disconnect(context.Background()); err != nil {
			t.Logf("Warning: failed to disconnect: %v", err)
		}
	}
}

func TestUserRepoOperations(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New().String()
	const day = "2024-03-14"

	t.Run("AddUser", func(t *testing.T) {
		user := &model.User{
			UserID:      userID,
			Username:    "repouser",
			Email:       "repouser@example.com",
			Password:    "hashed",
			CreatedAt:   time.Now(),
			DailyHabits: map[string]model.DayCounts{},
		}
		if _, err := repo.AddUser(ctx, user); err != nil {
			t.Fatal("add user failed!", err)
		}
	})

	t.Run("FindUser", func(t *testing.T) {
		user, err := repo.FindUser(ctx, userID)
		if err != nil {
			t.Fatal("couldn't get the user", err)
		}
		if user == nil || user.Username != "repouser" {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("FindUserMissing", func(t *testing.T) {
		user, err := repo.FindUser(ctx, "nope")
		if err != nil {
			t.Fatal("lookup failed", err)
		}
		if user != nil {
			t.Fatalf("expected nil for missing user, got %+v", user)
		}
	})

	t.Run("EnsureDayBucket", func(t *testing.T) {
		created, err := repo.EnsureDayBucket(ctx, userID, day)
		if err != nil {
			t.Fatal("ensure bucket failed", err)
		}
		if !created {
			t.Fatal("expected bucket to be created")
		}

		// Second call finds it in place
		created, err = repo.EnsureDayBucket(ctx, userID, day)
		if err != nil {
			t.Fatal("ensure bucket failed", err)
		}
		if created {
			t.Fatal("expected no-op on existing bucket")
		}
	})

	t.Run("IncrementDayCount", func(t *testing.T) {
		user, err := repo.IncrementDayCount(ctx, userID, day, GoodCountField, "UTC")
		if err != nil {
			t.Fatal("increment failed", err)
		}
		if user.DailyHabits[day].GoodCount != 1 {
			t.Fatalf("goodCount = %d, want 1", user.DailyHabits[day].GoodCount)
		}
		if user.Timezone != "UTC" {
			t.Fatalf("timezone = %q, want UTC", user.Timezone)
		}
	})

	t.Run("IncrementMissingUser", func(t *testing.T) {
		user, err := repo.IncrementDayCount(ctx, "nope", day, GoodCountField, "UTC")
		if err != nil {
			t.Fatal("increment errored", err)
		}
		if user != nil {
			t.Fatalf("expected nil for missing user, got %+v", user)
		}
	})

	t.Run("DecrementDayCount", func(t *testing.T) {
		user, matched, err := repo.DecrementDayCount(ctx, userID, day, GoodCountField, "UTC")
		if err != nil {
			t.Fatal("decrement failed", err)
		}
		if !matched {
			t.Fatal("expected guarded decrement to match")
		}
		if user.DailyHabits[day].GoodCount != 0 {
			t.Fatalf("goodCount = %d, want 0", user.DailyHabits[day].GoodCount)
		}

		// At zero the guard refuses to match
		_, matched, err = repo.DecrementDayCount(ctx, userID, day, GoodCountField, "UTC")
		if err != nil {
			t.Fatal("decrement errored", err)
		}
		if matched {
			t.Fatal("expected guarded decrement to refuse at zero")
		}
	})

	t.Run("ListUsersWithTimezone", func(t *testing.T) {
		users, err := repo.ListUsersWithTimezone(ctx)
		if err != nil {
			t.Fatal("list failed", err)
		}
		if len(users) != 1 || users[0].UserID != userID {
			t.Fatalf("users = %+v, want the one mutated user", users)
		}
	})

	t.Run("DeleteUserByID", func(t *testing.T) {
		deleted, err := repo.DeleteUserByID(ctx, userID)
		if err != nil {
			t.Fatal("deleting failed", err)
		}
		if deleted != 1 {
			t.Fatalf("deleted = %d, want 1", deleted)
		}
	})
}

func TestConcurrentIncrementsSameBucket(t *testing.T) {
	repo, cleanup := newTestRepo(t)
	defer cleanup()

	ctx := context.Background()
	userID := uuid.New().String()
	const day = "2024-03-14"

	user := &model.User{
		UserID:      userID,
		Username:    "racer",
		Email:       "racer@example.com",
		Password:    "hashed",
		CreatedAt:   time.Now(),
		DailyHabits: map[string]model.DayCounts{},
	}
	if _, err := repo.AddUser(ctx, user); err != nil {
		t.Fatal("add user failed!", err)
	}

	// 20 concurrent increments must not lose a single update
	const workers = 20
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			if _, err := repo.EnsureDayBucket(ctx, userID, day); err != nil {
				done <- err
				return
			}
			_, err := repo.IncrementDayCount(ctx, userID, day, GoodCountField, "UTC")
			done <- err
		}()
	}
	for i := 0; i < workers; i++ {
		if err := <-done; err != nil {
			t.Fatal("concurrent increment failed", err)
		}
	}

	stored, err := repo.FindUser(ctx, userID)
	if err != nil {
		t.Fatal("couldn't get the user", err)
	}
	if stored.DailyHabits[day].GoodCount != workers {
		t.Fatalf("goodCount = %d, want %d", stored.DailyHabits[day].GoodCount, workers)
	}
}
