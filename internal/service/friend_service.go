package service

import (
	"context"
	"log/slog"
	"strings"

	"tally/internal/middleware"
	"tally/internal/models"
	"tally/internal/observability"
	"tally/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
}

// NewFriendService returns a new FriendService.
func NewFriendService(friendRepo repository.FriendRepository, userRepo repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// SendRequest sends a friend request to the owner of friendCode.
func (s *FriendService) SendRequest(ctx context.Context, userID uint, friendCode string) (view *models.SentRequestView, err error) {
	span, ctx := observability.StartSpan(ctx, "FriendService.SendRequest", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	friendCode = strings.TrimSpace(friendCode)
	if friendCode == "" {
		return nil, models.NewValidationError("friendCode is required")
	}

	target, err := s.userRepo.GetByFriendCode(ctx, friendCode)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, models.NewNotFoundError("No user with that friend code")
	}
	if target.ID == userID {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	friends, err := s.friendRepo.AreFriends(ctx, userID, target.ID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, models.NewConflictError("You are already friends")
	}

	existing, err := s.friendRepo.FindRequest(ctx, userID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Friend request already sent")
	}

	req := &models.FriendRequest{RequesterID: userID, AddresseeID: target.ID}
	if err := s.friendRepo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	observability.FriendRequestTransitions.WithLabelValues("sent").Inc()
	middleware.Logger.InfoContext(ctx, "friend request sent",
		slog.Uint64("request_id", uint64(req.ID)),
		slog.Uint64("addressee_id", uint64(target.ID)),
	)

	return &models.SentRequestView{ID: req.ID, To: target.Summary(), CreatedAt: req.CreatedAt}, nil
}

// AcceptRequest accepts a request addressed to userID.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, requestID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "FriendService.AcceptRequest",
		attribute.Int("user.id", int(userID)), attribute.Int("request.id", int(requestID)))
	defer func() { span.End(err) }()

	req, err := s.friendRepo.GetRequestForAddressee(ctx, requestID, userID)
	if err != nil {
		return err
	}
	if err := s.friendRepo.AcceptRequest(ctx, req); err != nil {
		return err
	}

	observability.FriendRequestTransitions.WithLabelValues("accepted").Inc()
	middleware.Logger.InfoContext(ctx, "friend request accepted",
		slog.Uint64("request_id", uint64(requestID)),
		slog.Uint64("requester_id", uint64(req.RequesterID)),
	)
	return nil
}

// RejectRequest drops a request addressed to userID without creating a friendship.
func (s *FriendService) RejectRequest(ctx context.Context, userID, requestID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "FriendService.RejectRequest",
		attribute.Int("user.id", int(userID)), attribute.Int("request.id", int(requestID)))
	defer func() { span.End(err) }()

	if err := s.friendRepo.DeleteRequest(ctx, requestID, userID); err != nil {
		return err
	}

	observability.FriendRequestTransitions.WithLabelValues("rejected").Inc()
	return nil
}

// RemoveFriend removes the friendship between userID and friendID.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uint) (err error) {
	span, ctx := observability.StartSpan(ctx, "FriendService.RemoveFriend",
		attribute.Int("user.id", int(userID)), attribute.Int("friend.id", int(friendID)))
	defer func() { span.End(err) }()

	if userID == friendID {
		return models.NewValidationError("Cannot remove yourself")
	}
	if err := s.friendRepo.RemoveFriendship(ctx, userID, friendID); err != nil {
		return err
	}

	observability.FriendRequestTransitions.WithLabelValues("removed").Inc()
	return nil
}

// GetFriends returns the user's friends ordered by username.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.UserSummary, error) {
	users, err := s.friendRepo.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out, nil
}

// GetPendingRequests returns requests received by the user, oldest first.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.PendingRequestView, error) {
	reqs, err := s.friendRepo.GetPendingRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.PendingRequestView, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, models.PendingRequestView{ID: r.ID, From: r.Requester.Summary(), CreatedAt: r.CreatedAt})
	}
	return out, nil
}

// GetSentRequests returns requests sent by the user, oldest first.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.SentRequestView, error) {
	reqs, err := s.friendRepo.GetSentRequests(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.SentRequestView, 0, len(reqs))
	for _, r := range reqs {
		out = append(out, models.SentRequestView{ID: r.ID, To: r.Addressee.Summary(), CreatedAt: r.CreatedAt})
	}
	return out, nil
}
