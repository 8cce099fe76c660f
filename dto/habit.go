package dto

import "habittracker/model"

// HabitMutationRequest is the body of every increment/decrement call. The
// timezone decides which calendar day the event lands on, so it is validated
// by the service rather than by binding tags (missing and invalid zones get
// distinct error codes).
type HabitMutationRequest struct {
	Timezone string `json:"timezone"`
}

// LedgerResponse is the snapshot returned after a successful mutation.
type LedgerResponse struct {
	UserID      string                     `json:"user_id"`
	Date        string                     `json:"date"`
	Today       model.DayCounts            `json:"today"`
	DailyHabits map[string]model.DayCounts `json:"dailyHabits"`
}

func ToLedgerResponse(user *model.User, date string) LedgerResponse {
	return LedgerResponse{
		UserID:      user.UserID,
		Date:        date,
		Today:       user.DailyHabits[date],
		DailyHabits: user.DailyHabits,
	}
}

type TodayResponse struct {
	Date      string `json:"date"`
	GoodCount int    `json:"goodCount"`
	BadCount  int    `json:"badCount"`
}

type HabitEntry struct {
	Date          string `json:"date"`
	LocalizedDate string `json:"localizedDate"`
	GoodCount     int    `json:"goodCount"`
	BadCount      int    `json:"badCount"`
}

type HabitHistoryResponse struct {
	Habits      []HabitEntry `json:"habits"`
	CurrentPage int          `json:"currentPage"`
	TotalHabits int          `json:"totalHabits"`
	TotalPages  int          `json:"totalPages"`
}
