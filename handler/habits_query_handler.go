package handler

import (
	"strconv"

	"habittracker/dto"
	"habittracker/usecase"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/users/:userId/today?timezone=...
func GetTodayHabitsHandler(c *gin.Context) {
	svc := newHabitsService()

	date, counts, err := svc.Today(c.Request.Context(), c.Param("userId"), c.Query("timezone"))
	if err != nil {
		respondHabitError(c, err)
		return
	}

	utils.Success(c, dto.TodayResponse{
		Date:      date,
		GoodCount: counts.GoodCount,
		BadCount:  counts.BadCount,
	})
}

// GET /api/users/:userId/habits?timezone=...&page=N&limit=M
func GetUserHabitsHandler(c *gin.Context) {
	svc := newHabitsService()

	// Unparseable paging values fall back to defaults, they are never errors
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultHistoryPageSize)))

	history, err := svc.History(c.Request.Context(), c.Param("userId"), c.Query("timezone"), page, limit)
	if err != nil {
		respondHabitError(c, err)
		return
	}

	habits := make([]dto.HabitEntry, 0, len(history.Entries))
	for _, entry := range history.Entries {
		habits = append(habits, dto.HabitEntry{
			Date:          entry.Date,
			LocalizedDate: entry.LocalizedDate,
			GoodCount:     entry.Counts.GoodCount,
			BadCount:      entry.Counts.BadCount,
		})
	}

	utils.Success(c, dto.HabitHistoryResponse{
		Habits:      habits,
		CurrentPage: history.CurrentPage,
		TotalHabits: history.TotalCount,
		TotalPages:  history.TotalPages,
	})
}
