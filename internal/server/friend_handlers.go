package server

import (
	"tally/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FriendCodeRequest is the body of POST /api/friends/request.
type FriendCodeRequest struct {
	FriendCode string `json:"friendCode" validate:"required"`
}

// RequestIDRequest is the body of the accept and reject endpoints.
type RequestIDRequest struct {
	RequestID uint `json:"requestId" validate:"required"`
}

// SendFriendRequest handles POST /api/friends/request
// @Summary Send a friend request
// @Description Send a request to the owner of a friend code
// @Tags friends
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body FriendCodeRequest true "Target friend code"
// @Success 200 {object} object{message=string,request=models.SentRequestView}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/request [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	var req FriendCodeRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	view, err := s.friendService.SendRequest(c.UserContext(), currentUserID(c), req.FriendCode)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Friend request sent",
		"request": view,
	})
}

// AcceptFriendRequest handles POST /api/friends/accept
// @Summary Accept a friend request
// @Tags friends
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RequestIDRequest true "Request to accept"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/accept [post]
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	var req RequestIDRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	if err := s.friendService.AcceptRequest(c.UserContext(), currentUserID(c), req.RequestID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

// RejectFriendRequest handles POST /api/friends/reject
// @Summary Reject a friend request
// @Tags friends
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body RequestIDRequest true "Request to reject"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/reject [post]
func (s *Server) RejectFriendRequest(c *fiber.Ctx) error {
	var req RequestIDRequest
	if err := bindBody(c, &req); err != nil {
		return nil
	}

	if err := s.friendService.RejectRequest(c.UserContext(), currentUserID(c), req.RequestID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request rejected"})
}

// GetFriends handles GET /api/friends
// @Summary List friends
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.UserSummary
// @Router /friends [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	friends, err := s.friendService.GetFriends(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(friends)
}

// GetPendingRequests handles GET /api/friends/requests
// @Summary List received friend requests
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.PendingRequestView
// @Router /friends/requests [get]
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.GetPendingRequests(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friends/requests/sent
// @Summary List sent friend requests
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.SentRequestView
// @Router /friends/requests/sent [get]
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	requests, err := s.friendService.GetSentRequests(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(requests)
}

// RemoveFriend handles DELETE /api/friends/:userId
// @Summary Remove a friend
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Param userId path int true "Friend's user ID"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friends/{userId} [delete]
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	friendID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.friendService.RemoveFriend(c.UserContext(), currentUserID(c), friendID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}

// GetFriendStats handles GET /api/friends/stats
// @Summary Leaderboard of the caller and their friends
// @Description Self first, then friends by username; each row sums the days inside the filter window
// @Tags activity
// @Security BearerAuth
// @Produce json
// @Param filter query string false "today, week or month; anything else means all"
// @Success 200 {array} models.UserStats
// @Router /friends/stats [get]
func (s *Server) GetFriendStats(c *fiber.Ctx) error {
	filter := models.ParseStatsFilter(c.Query("filter"))

	stats, err := s.activityService.GetFriendStats(c.UserContext(), currentUserID(c), filter)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(stats)
}
