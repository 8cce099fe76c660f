package dto

import (
	"habittracker/model"
	"time"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email         string `json:"email" binding:"required"`
	Password      string `json:"password" binding:"required"`
	TwoFactorCode string `json:"two_factor_code,omitempty"`
}

type UserResponse struct {
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"createdAt"`
}

func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		UserID:       user.UserID,
		Username:     user.Username,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
	}
}

type UserLink struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

type UserProfileResponse struct {
	Username     string              `json:"username"`
	Email        string              `json:"email"`
	ProfileImage string              `json:"profile_image"`
	CreatedAt    time.Time           `json:"created_at"`
	Links        map[string]UserLink `json:"_links,omitempty"` // HAL UserLinks
}

func ToUserProfileResponse(user *model.User, links map[string]UserLink) UserProfileResponse {
	return UserProfileResponse{
		Username:     user.Username,
		Email:        user.Email,
		ProfileImage: user.ProfileImage,
		CreatedAt:    user.CreatedAt,
		Links:        links,
	}
}
