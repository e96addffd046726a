package server

import (
	"tally/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/profile
// @Summary Current user's profile
// @Description The caller with friends, pending and sent friend requests
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Profile
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/profile [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// GetCounts handles GET /api/users/:userId/counts
// @Summary Today's and all-time counts
// @Tags activity
// @Security BearerAuth
// @Produce json
// @Param userId path int true "User ID (must be the caller)"
// @Success 200 {object} models.Counts
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{userId}/counts [get]
func (s *Server) GetCounts(c *fiber.Ctx) error {
	userID, err := requireOwner(c, "userId")
	if err != nil {
		return nil
	}

	counts, err := s.activityService.GetCounts(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(counts)
}

// Increment handles POST /api/users/:userId/increment
// @Summary Add one to today's counter
// @Tags activity
// @Security BearerAuth
// @Produce json
// @Param userId path int true "User ID (must be the caller)"
// @Success 200 {object} object{message=string,todayCount=int,totalCount=int}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /users/{userId}/increment [post]
func (s *Server) Increment(c *fiber.Ctx) error {
	userID, err := requireOwner(c, "userId")
	if err != nil {
		return nil
	}

	counts, err := s.activityService.Increment(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":    "Count incremented",
		"todayCount": counts.TodayCount,
		"totalCount": counts.TotalCount,
	})
}
