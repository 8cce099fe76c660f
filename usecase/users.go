package usecase

import (
	"context"
	"log"
	"strings"
	"time"

	"habittracker/dto"
	"habittracker/model"
	"habittracker/repository"
	"habittracker/services"
	"habittracker/utils"
)

type UserService struct {
	UsersRepo *repository.UserRepo
}

// CreateUser validates the registration payload, enforces username/email
// uniqueness and stores the account with an empty habit ledger.
func (s *UserService) CreateUser(ctx context.Context, req *dto.RegisterRequest) (*model.User, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if len(username) < 3 {
		return nil, ErrUsernameTooShort
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, ErrPasswordTooShort
	}
	email := strings.TrimSpace(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, ErrInvalidEmail
	}

	existing, err := s.UsersRepo.FindUserByUsername(ctx, username)
	if err != nil {
		log.Printf("Error checking username %q: %v", username, err)
		return nil, &StoreError{Err: err}
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = s.UsersRepo.FindUserByEmail(ctx, email)
	if err != nil {
		log.Printf("Error checking email: %v", err)
		return nil, &StoreError{Err: err}
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserID:       utils.GenerateUserID(),
		Username:     username,
		Email:        email,
		Password:     hashed,
		ProfileImage: utils.DefaultProfileImage(username),
		CreatedAt:    time.Now(),
		DailyHabits:  map[string]model.DayCounts{},
	}

	if _, err := s.UsersRepo.AddUser(ctx, user); err != nil {
		log.Printf("Error creating user: %v", err)
		return nil, &StoreError{Err: err}
	}

	return user, nil
}

// Authenticate checks an email/password pair. Lookup and password failures
// both come back as ErrInvalidCredentials so the response does not reveal
// which part was wrong.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.UsersRepo.FindUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		log.Printf("Error looking up user for login: %v", err)
		return nil, &StoreError{Err: err}
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	match, err := services.VerifyPassword(user.Password, password)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// DeleteUser removes the account and, with it, the entire habit ledger.
func (s *UserService) DeleteUser(ctx context.Context, userID string) error {
	deleted, err := s.UsersRepo.DeleteUserByID(ctx, userID)
	if err != nil {
		log.Printf("Error deleting user %s: %v", userID, err)
		return &StoreError{Err: err}
	}
	if deleted == 0 {
		return ErrUserNotFound
	}
	return nil
}
