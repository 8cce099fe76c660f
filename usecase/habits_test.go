package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"habittracker/model"
	"habittracker/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// testUserRepo connects to the local test MongoDB and hands back a repo
// bound to a collection private to this test.
func testUserRepo(t *testing.T) (*repository.UserRepo, func()) {
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
	repo := &repository.UserRepo{MongoCollection: coll}

	return repo, func() {
		if err := coll.Drop(context.Background()); err != nil {
			t.Logf("Warning: failed to drop test collection: %v", err)
		}
		if err := client.Disconnect(context.Background()); err != nil {
			t.Logf("Warning: failed to disconnect: %v", err)
		}
	}
}

func seedUser(t *testing.T, repo *repository.UserRepo) *model.User {
	return seedUserWith(t, repo, "testuser", "testuser@example.com")
}

func seedUserWith(t *testing.T, repo *repository.UserRepo, username, email string) *model.User {
	t.Helper()

	user := &model.User{
		UserID:      uuid.New().String(),
		Username:    username,
		Email:       email,
		Password:    "hashed",
		CreatedAt:   time.Now(),
		DailyHabits: map[string]model.DayCounts{},
	}
	if _, err := repo.AddUser(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

// forceTimezone writes a timezone directly, bypassing service validation.
func forceTimezone(t *testing.T, repo *repository.UserRepo, userID, timezone string) {
	t.Helper()

	_, err := repo.MongoCollection.UpdateOne(context.Background(),
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"timezone": timezone}})
	if err != nil {
		t.Fatalf("failed to force timezone: %v", err)
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIncrementThenDecrement(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{
		UsersRepo: repo,
		Now:       fixedClock(time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)),
	}
	ctx := context.Background()

	// Increment good 5 times, decrement 2: final count is 3
	for i := 0; i < 5; i++ {
		if _, _, err := svc.IncrementGood(ctx, user.UserID, "UTC"); err != nil {
			t.Fatalf("IncrementGood() error = %v", err)
		}
	}
	var updated *model.User
	var err error
	for i := 0; i < 2; i++ {
		updated, _, err = svc.DecrementGood(ctx, user.UserID, "UTC")
		if err != nil {
			t.Fatalf("DecrementGood() error = %v", err)
		}
	}

	counts := updated.DailyHabits["2024-03-14"]
	if counts.GoodCount != 3 || counts.BadCount != 0 {
		t.Fatalf("counts = %+v, want {3 0}", counts)
	}
}

func TestDecrementAtZeroRejected(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{
		UsersRepo: repo,
		Now:       fixedClock(time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)),
	}
	ctx := context.Background()

	// One increment on bad creates today's bucket with goodCount 0
	if _, _, err := svc.IncrementBad(ctx, user.UserID, "UTC"); err != nil {
		t.Fatalf("IncrementBad() error = %v", err)
	}

	_, _, err := svc.DecrementGood(ctx, user.UserID, "UTC")
	if !errors.Is(err, ErrNegativeCount) {
		t.Fatalf("error = %v, want ErrNegativeCount", err)
	}

	// State unchanged
	stored, err := repo.FindUser(ctx, user.UserID)
	if err != nil {
		t.Fatalf("FindUser() error = %v", err)
	}
	counts := stored.DailyHabits["2024-03-14"]
	if counts.GoodCount != 0 || counts.BadCount != 1 {
		t.Fatalf("counts = %+v, want {0 1}", counts)
	}
}

func TestDecrementWithoutBucket(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{UsersRepo: repo}

	_, _, err := svc.DecrementBad(context.Background(), user.UserID, "UTC")
	if !errors.Is(err, ErrBucketNotFound) {
		t.Fatalf("error = %v, want ErrBucketNotFound", err)
	}
}

func TestMutationValidation(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{UsersRepo: repo}
	ctx := context.Background()

	if _, _, err := svc.IncrementGood(ctx, user.UserID, ""); !errors.Is(err, ErrMissingTimezone) {
		t.Fatalf("error = %v, want ErrMissingTimezone", err)
	}
	if _, _, err := svc.IncrementGood(ctx, user.UserID, "Not/AZone"); !errors.Is(err, ErrInvalidTimezone) {
		t.Fatalf("error = %v, want ErrInvalidTimezone", err)
	}
	if _, _, err := svc.IncrementGood(ctx, "no-such-user", "UTC"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("error = %v, want ErrUserNotFound", err)
	}
}

func TestTodayWithoutEntries(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{
		UsersRepo: repo,
		Now:       fixedClock(time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)),
	}
	ctx := context.Background()

	date, counts, err := svc.Today(ctx, user.UserID, "UTC")
	if err != nil {
		t.Fatalf("Today() error = %v", err)
	}
	if date != "2024-03-14" {
		t.Fatalf("date = %q", date)
	}
	if counts.GoodCount != 0 || counts.BadCount != 0 {
		t.Fatalf("counts = %+v, want zero pair", counts)
	}

	// Reading today must not create a stored bucket
	stored, err := repo.FindUser(ctx, user.UserID)
	if err != nil {
		t.Fatalf("FindUser() error = %v", err)
	}
	if len(stored.DailyHabits) != 0 {
		t.Fatalf("ledger = %v, want empty", stored.DailyHabits)
	}
}

func TestHistorySingleDay(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{
		UsersRepo: repo,
		Now:       fixedClock(time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)),
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := svc.IncrementGood(ctx, user.UserID, "UTC"); err != nil {
			t.Fatalf("IncrementGood() error = %v", err)
		}
	}
	if _, _, err := svc.IncrementBad(ctx, user.UserID, "UTC"); err != nil {
		t.Fatalf("IncrementBad() error = %v", err)
	}

	history, err := svc.History(ctx, user.UserID, "UTC", 1, 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}

	if history.TotalCount != 1 || history.TotalPages != 1 || len(history.Entries) != 1 {
		t.Fatalf("history = %+v, want single entry", history)
	}
	entry := history.Entries[0]
	if entry.Date != "2024-03-14" || entry.Counts.GoodCount != 3 || entry.Counts.BadCount != 1 {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestHistoryPagination(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{UsersRepo: repo}
	ctx := context.Background()

	// Seed 7 day buckets through distinct fixed clocks
	for day := 1; day <= 7; day++ {
		svc.Now = fixedClock(time.Date(2024, 3, day, 12, 0, 0, 0, time.UTC))
		if _, _, err := svc.IncrementGood(ctx, user.UserID, "UTC"); err != nil {
			t.Fatalf("IncrementGood() error = %v", err)
		}
	}

	// Page size 3: pages hold 3, 3, 1 entries newest-first
	history, err := svc.History(ctx, user.UserID, "UTC", 1, 3)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if history.TotalCount != 7 || history.TotalPages != 3 {
		t.Fatalf("total = %d pages = %d, want 7 and 3", history.TotalCount, history.TotalPages)
	}
	if len(history.Entries) != 3 || history.Entries[0].Date != "2024-03-07" {
		t.Fatalf("page 1 = %+v", history.Entries)
	}

	history, err = svc.History(ctx, user.UserID, "UTC", 3, 3)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history.Entries) != 1 || history.Entries[0].Date != "2024-03-01" {
		t.Fatalf("final page = %+v", history.Entries)
	}

	history, err = svc.History(ctx, user.UserID, "UTC", 4, 3)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(history.Entries) != 0 {
		t.Fatalf("page past the end = %+v, want empty", history.Entries)
	}

	// Out-of-range paging values fall back to defaults
	history, err = svc.History(ctx, user.UserID, "UTC", 0, 0)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if history.CurrentPage != 1 || len(history.Entries) != DefaultHistoryPageSize {
		t.Fatalf("defaulted page = %+v", history)
	}
}

func TestHistoryLocalizedDates(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{
		UsersRepo: repo,
		Now:       fixedClock(time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)),
	}
	ctx := context.Background()

	if _, _, err := svc.IncrementGood(ctx, user.UserID, "UTC"); err != nil {
		t.Fatalf("IncrementGood() error = %v", err)
	}

	// Querying from a zone behind UTC shifts the display date back a day;
	// the raw key is untouched
	history, err := svc.History(ctx, user.UserID, "America/New_York", 1, 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	entry := history.Entries[0]
	if entry.Date != "2024-03-14" {
		t.Fatalf("raw date = %q", entry.Date)
	}
	if entry.LocalizedDate != "03/13/2024" {
		t.Fatalf("localized date = %q, want 03/13/2024", entry.LocalizedDate)
	}
}

func TestTimezoneRecordedOnMutation(t *testing.T) {
	repo, cleanup := testUserRepo(t)
	defer cleanup()

	user := seedUser(t, repo)
	svc := &HabitsService{UsersRepo: repo}
	ctx := context.Background()

	if _, _, err := svc.IncrementGood(ctx, user.UserID, "Asia/Tokyo"); err != nil {
		t.Fatalf("IncrementGood() error = %v", err)
	}

	stored, err := repo.FindUser(ctx, user.UserID)
	if err != nil {
		t.Fatalf("FindUser() error = %v", err)
	}
	if stored.Timezone != "Asia/Tokyo" {
		t.Fatalf("timezone = %q, want Asia/Tokyo", stored.Timezone)
	}
}
