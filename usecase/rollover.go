package usecase

import (
	"context"
	"log"
	"time"

	"habittracker/repository"
	"habittracker/utils"
)

// RolloverService runs the daily sweep: every user with a recorded timezone
// gets an explicit zeroed bucket for yesterday in their own zone, so history
// shows inactive days instead of gaps.
type RolloverService struct {
	UsersRepo *repository.UserRepo

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

// RolloverReport aggregates one sweep run. Failures maps user IDs to the
// reason that user was skipped; one bad record never aborts the batch.
type RolloverReport struct {
	Scanned  int               `json:"scanned"`
	Created  int               `json:"created"`
	Existing int               `json:"existing"`
	Failures map[string]string `json:"failures,omitempty"`
}

func (s *RolloverService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Run executes one sweep. Idempotent: re-running on the same day finds the
// buckets already present and changes nothing. Only a failure to list users
// is returned as an error; per-user faults land in the report.
func (s *RolloverService) Run(ctx context.Context) (*RolloverReport, error) {
	users, err := s.UsersRepo.ListUsersWithTimezone(ctx)
	if err != nil {
		log.Printf("Rollover sweep could not list users: %v", err)
		utils.RolloverSweepsTotal.WithLabelValues("failed").Inc()
		return nil, &StoreError{Err: err}
	}

	report := &RolloverReport{Failures: map[string]string{}}
	now := s.now()

	for _, user := range users {
		report.Scanned++

		key, err := utils.YesterdayKey(now, user.Timezone)
		if err != nil {
			log.Printf("Rollover: bad timezone %q for user %s: %v", user.Timezone, user.UserID, err)
			utils.TrackError("rollover", "invalid_timezone")
			report.Failures[user.UserID] = ErrInvalidTimezone.Error()
			continue
		}

		created, err := s.UsersRepo.EnsureDayBucket(ctx, user.UserID, key)
		if err != nil {
			log.Printf("Rollover: failed to ensure bucket %s for user %s: %v", key, user.UserID, err)
			utils.TrackError("rollover", "bucket_create_failed")
			report.Failures[user.UserID] = "storage temporarily unavailable"
			continue
		}

		if created {
			report.Created++
			utils.RolloverBucketsCreated.Inc()
		} else {
			report.Existing++
		}
	}

	utils.RolloverSweepsTotal.WithLabelValues("completed").Inc()
	log.Printf("Rollover sweep completed: scanned=%d created=%d existing=%d failures=%d",
		report.Scanned, report.Created, report.Existing, len(report.Failures))

	return report, nil
}
