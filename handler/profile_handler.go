package handler

import (
	"net/http"

	"habittracker/dto"
	"habittracker/repository"
	"habittracker/utils"

	"github.com/gin-gonic/gin"
)

func GetUserProfileHandler(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Unauthorized")
		return
	}

	userRepo := repository.GetUserRepo(utils.MongoClient)
	user, err := userRepo.FindUser(c.Request.Context(), userID.(string))
	if err != nil {
		utils.StoreUnavailable(c)
		return
	}
	if user == nil {
		utils.NotFound(c, utils.CodeUserNotFound, "User not found")
		return
	}

	baseURL := utils.GetBaseURL(c)
	links := map[string]dto.UserLink{
		"self":    {Href: baseURL + "/user/profile", Method: http.MethodGet},
		"today":   {Href: baseURL + "/users/" + user.UserID + "/today", Method: http.MethodGet},
		"history": {Href: baseURL + "/users/" + user.UserID + "/habits", Method: http.MethodGet},
		"delete":  {Href: baseURL + "/user", Method: http.MethodDelete},
	}

	utils.Success(c, dto.ToUserProfileResponse(user, links))
}
