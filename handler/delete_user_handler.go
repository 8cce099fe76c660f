package handler

import (
	"errors"
	"log"

	"habittracker/repository"
	"habittracker/usecase"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
)

// DeleteUserHandler removes the authenticated account. The habit ledger
// lives inside the user document, so it goes with it.
func DeleteUserHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	if err := sessionRepo.DeleteUserSessions(c.Request.Context(), userID.(string)); err != nil {
		log.Printf("Error ending sessions for user %v: %v", userID, err)
	}

	userService := &usecase.UserService{
		UsersRepo: repository.GetUserRepo(utils.MongoClient),
	}

	err := userService.DeleteUser(c.Request.Context(), userID.(string))
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			utils.NotFound(c, utils.CodeUserNotFound, "User not found")
		case usecase.IsStoreError(err):
			utils.StoreUnavailable(c)
		default:
			utils.InternalError(c, "Failed to delete user")
		}
		return
	}

	log.Printf("User deleted: %s", userID)
	utils.Success(c, gin.H{"message": "User account deleted successfully"})
}
