package handler

import (
	"context"
	"errors"

	"habittracker/dto"
	"habittracker/model"
	"habittracker/repository"
	"habittracker/usecase"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
)

func newHabitsService() *usecase.HabitsService {
	return &usecase.HabitsService{
		UsersRepo: repository.GetUserRepo(utils.MongoClient),
	}
}

// respondHabitError maps service errors onto stable API error codes.
func respondHabitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrMissingTimezone):
		utils.BadRequest(c, utils.CodeMissingTimezone, "Timezone is required")
	case errors.Is(err, usecase.ErrInvalidTimezone):
		utils.BadRequest(c, utils.CodeInvalidTimezone, "Unknown timezone")
	case errors.Is(err, usecase.ErrUserNotFound):
		utils.NotFound(c, utils.CodeUserNotFound, "User not found")
	case errors.Is(err, usecase.ErrBucketNotFound):
		utils.NotFound(c, utils.CodeBucketNotFound, "Daily habit not found for this day")
	case errors.Is(err, usecase.ErrNegativeCount):
		utils.BadRequest(c, utils.CodeNegativeCount, "Habit count cannot be negative")
	case usecase.IsStoreError(err):
		utils.StoreUnavailable(c)
	default:
		utils.InternalError(c, "Internal Server Error")
	}
}

type habitMutation func(ctx context.Context, userID, timezone string) (*model.User, string, error)

func runHabitMutation(c *gin.Context, mutate habitMutation) {
	var req dto.HabitMutationRequest
	// An empty body reads the same as a missing timezone
	if err := c.ShouldBindJSON(&req); err != nil {
		req.Timezone = ""
	}

	user, date, err := mutate(c.Request.Context(), c.Param("userId"), req.Timezone)
	if err != nil {
		respondHabitError(c, err)
		return
	}

	utils.Success(c, dto.ToLedgerResponse(user, date))
}

// PUT /api/users/:userId/good
func IncrementGoodHandler(c *gin.Context) {
	runHabitMutation(c, newHabitsService().IncrementGood)
}

// PUT /api/users/:userId/bad
func IncrementBadHandler(c *gin.Context) {
	runHabitMutation(c, newHabitsService().IncrementBad)
}

// PUT /api/users/:userId/good/decrement
func DecrementGoodHandler(c *gin.Context) {
	runHabitMutation(c, newHabitsService().DecrementGood)
}

// PUT /api/users/:userId/bad/decrement
func DecrementBadHandler(c *gin.Context) {
	runHabitMutation(c, newHabitsService().DecrementBad)
}
