package handler

import (
	"errors"
	"log"

	"habittracker/dto"
	"habittracker/repository"
	"habittracker/services"
	"habittracker/usecase"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, utils.CodeInvalidRequest, "Username, email and password are required inputs")
		return
	}

	userService := &usecase.UserService{
		UsersRepo: repository.GetUserRepo(utils.MongoClient),
	}

	user, err := userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUsernameTaken), errors.Is(err, usecase.ErrEmailTaken):
			utils.Conflict(c, err.Error())
		case usecase.IsStoreError(err):
			utils.StoreUnavailable(c)
		default:
			utils.BadRequest(c, utils.CodeInvalidRequest, err.Error())
		}
		return
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		log.Printf("Token generation error: %v", err)
		utils.InternalError(c, "Failed to generate token")
		return
	}

	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		log.Printf("Refresh token generation error: %v", err)
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	utils.TrackRegistration()
	utils.TrackAuthAttempt("success", "registration")
	utils.Created(c, gin.H{
		"token":   token,
		"refresh": refreshToken,
		"user":    dto.ToUserResponse(user),
	})
}
