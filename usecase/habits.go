package usecase

import (
	"context"
	"log"
	"sort"
	"time"

	"habittracker/model"
	"habittracker/repository"
	"habittracker/utils"
)

const DefaultHistoryPageSize = 5

// HabitsService owns the per-day habit counters: increments, decrements,
// today's snapshot and paginated history.
type HabitsService struct {
	UsersRepo *repository.UserRepo

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

func (s *HabitsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// todayKey validates the timezone and resolves the current bucket key.
func (s *HabitsService) todayKey(timezone string) (string, error) {
	if timezone == "" {
		return "", ErrMissingTimezone
	}
	key, err := utils.DayKey(s.now(), timezone)
	if err != nil {
		return "", ErrInvalidTimezone
	}
	return key, nil
}

func (s *HabitsService) IncrementGood(ctx context.Context, userID, timezone string) (*model.User, string, error) {
	utils.TrackHabitOperation("increment_good")
	return s.increment(ctx, userID, timezone, repository.GoodCountField)
}

func (s *HabitsService) IncrementBad(ctx context.Context, userID, timezone string) (*model.User, string, error) {
	utils.TrackHabitOperation("increment_bad")
	return s.increment(ctx, userID, timezone, repository.BadCountField)
}

func (s *HabitsService) DecrementGood(ctx context.Context, userID, timezone string) (*model.User, string, error) {
	utils.TrackHabitOperation("decrement_good")
	return s.decrement(ctx, userID, timezone, repository.GoodCountField)
}

func (s *HabitsService) DecrementBad(ctx context.Context, userID, timezone string) (*model.User, string, error) {
	utils.TrackHabitOperation("decrement_bad")
	return s.decrement(ctx, userID, timezone, repository.BadCountField)
}

func (s *HabitsService) increment(ctx context.Context, userID, timezone, counter string) (*model.User, string, error) {
	key, err := s.todayKey(timezone)
	if err != nil {
		return nil, "", err
	}

	// Create-if-absent then $inc, both atomic at the storage layer. The
	// bucket creation matching nothing is fine: it means the bucket is
	// already there.
	if _, err := s.UsersRepo.EnsureDayBucket(ctx, userID, key); err != nil {
		log.Printf("Error creating day bucket for user %s: %v", userID, err)
		return nil, "", &StoreError{Err: err}
	}

	user, err := s.UsersRepo.IncrementDayCount(ctx, userID, key, counter, timezone)
	if err != nil {
		log.Printf("Error incrementing %s for user %s: %v", counter, userID, err)
		return nil, "", &StoreError{Err: err}
	}
	if user == nil {
		return nil, "", ErrUserNotFound
	}

	return user, key, nil
}

func (s *HabitsService) decrement(ctx context.Context, userID, timezone, counter string) (*model.User, string, error) {
	key, err := s.todayKey(timezone)
	if err != nil {
		return nil, "", err
	}

	user, matched, err := s.UsersRepo.DecrementDayCount(ctx, userID, key, counter, timezone)
	if err != nil {
		log.Printf("Error decrementing %s for user %s: %v", counter, userID, err)
		return nil, "", &StoreError{Err: err}
	}
	if matched {
		return user, key, nil
	}

	// The guarded update matched nothing. Re-read once to report which
	// precondition failed; state is untouched either way.
	existing, err := s.UsersRepo.FindUser(ctx, userID)
	if err != nil {
		log.Printf("Error classifying failed decrement for user %s: %v", userID, err)
		return nil, "", &StoreError{Err: err}
	}
	switch {
	case existing == nil:
		return nil, "", ErrUserNotFound
	case existing.DailyHabits == nil:
		return nil, "", ErrBucketNotFound
	default:
		if _, ok := existing.DailyHabits[key]; !ok {
			return nil, "", ErrBucketNotFound
		}
		return nil, "", ErrNegativeCount
	}
}

// Today returns the current day's counters without creating a bucket. A day
// with no recorded activity reads as the zero pair.
func (s *HabitsService) Today(ctx context.Context, userID, timezone string) (string, model.DayCounts, error) {
	key, err := s.todayKey(timezone)
	if err != nil {
		return "", model.DayCounts{}, err
	}

	user, err := s.UsersRepo.FindUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		return "", model.DayCounts{}, &StoreError{Err: err}
	}
	if user == nil {
		return "", model.DayCounts{}, ErrUserNotFound
	}

	return key, user.DailyHabits[key], nil
}

// HabitHistoryEntry is one day bucket prepared for display.
type HabitHistoryEntry struct {
	Date          string
	LocalizedDate string
	Counts        model.DayCounts
}

type HabitHistory struct {
	Entries     []HabitHistoryEntry
	CurrentPage int
	TotalCount  int
	TotalPages  int
}

// History returns the ledger newest-first, one page at a time. The display
// date is rendered in the caller's timezone, which may differ from the zone
// the bucket was created under. page < 1 and pageSize < 1 fall back to
// page 1 and the default page size.
func (s *HabitsService) History(ctx context.Context, userID, timezone string, page, pageSize int) (*HabitHistory, error) {
	if timezone == "" {
		return nil, ErrMissingTimezone
	}
	if !utils.ValidateTimezone(timezone) {
		return nil, ErrInvalidTimezone
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultHistoryPageSize
	}

	user, err := s.UsersRepo.FindUser(ctx, userID)
	if err != nil {
		log.Printf("Error fetching user %s: %v", userID, err)
		return nil, &StoreError{Err: err}
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	keys := sortedKeysNewestFirst(user.DailyHabits)
	pageKeys, totalPages := paginate(keys, page, pageSize)

	entries := make([]HabitHistoryEntry, 0, len(pageKeys))
	for _, key := range pageKeys {
		localized, err := utils.LocalizedDate(key, timezone)
		if err != nil {
			// A malformed stored key should not hide the rest of the page
			log.Printf("Error localizing day key %q for user %s: %v", key, userID, err)
			localized = key
		}
		entries = append(entries, HabitHistoryEntry{
			Date:          key,
			LocalizedDate: localized,
			Counts:        user.DailyHabits[key],
		})
	}

	return &HabitHistory{
		Entries:     entries,
		CurrentPage: page,
		TotalCount:  len(keys),
		TotalPages:  totalPages,
	}, nil
}

// sortedKeysNewestFirst sorts day keys descending. Keys are zero-padded
// ISO dates, so lexicographic order is chronological order.
func sortedKeysNewestFirst(ledger map[string]model.DayCounts) []string {
	keys := make([]string, 0, len(ledger))
	for key := range ledger {
		keys = append(keys, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// paginate slices keys for the requested page and returns the total page
// count, ceil(len/pageSize). Pages past the end come back empty.
func paginate(keys []string, page, pageSize int) ([]string, int) {
	total := len(keys)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start >= total {
		return nil, totalPages
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return keys[start:end], totalPages
}
