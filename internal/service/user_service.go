package service

import (
	"context"

	"tally/internal/models"
	"tally/internal/repository"
)

// UserService assembles account views.
type UserService struct {
	userRepo repository.UserRepository
	friends  *FriendService
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, friends *FriendService) *UserService {
	return &UserService{userRepo: userRepo, friends: friends}
}

// GetProfile returns the user with friends and both request lists populated.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends, err := s.friends.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	pending, err := s.friends.GetPendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	sent, err := s.friends.GetSentRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.Profile{
		ID:                    user.ID,
		Username:              user.Username,
		FriendCode:            user.FriendCode,
		CreatedAt:             user.CreatedAt,
		Friends:               friends,
		PendingFriendRequests: pending,
		SentFriendRequests:    sent,
	}, nil
}
