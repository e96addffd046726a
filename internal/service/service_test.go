package service

import (
	"context"
	"testing"
	"time"

	"tally/internal/auth"
	"tally/internal/cache"
	"tally/internal/repository"
	"tally/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type services struct {
	db       *gorm.DB
	auth     *AuthService
	friends  *FriendService
	users    *UserService
	activity *ActivityService
}

// newServices wires every service against a fresh SQLite database with the clock pinned to now.
func newServices(t *testing.T, now time.Time) *services {
	t.Helper()

	db := testutil.NewTestDB(t)
	client, _ := testutil.NewTestRedis(t)
	c := cache.New(client)

	userRepo := repository.NewUserRepository(db, c)
	friendRepo := repository.NewFriendRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	friends := NewFriendService(friendRepo, userRepo)
	activity := NewActivityService(activityRepo, friendRepo, userRepo, time.UTC)
	activity.now = func() time.Time { return now }

	return &services{
		db:       db,
		auth:     NewAuthService(userRepo, auth.NewTokenManager("test-secret-that-is-long-enough-123456"), c),
		friends:  friends,
		users:    NewUserService(userRepo, friends),
		activity: activity,
	}
}

func (s *services) register(t *testing.T, username string) uint {
	t.Helper()
	u, err := s.auth.Register(context.Background(), RegisterInput{Username: username, Password: "password123"})
	require.NoError(t, err)
	return u.ID
}

func (s *services) befriend(t *testing.T, from, to uint) {
	t.Helper()
	ctx := context.Background()

	profile, err := s.users.GetProfile(ctx, to)
	require.NoError(t, err)

	_, err = s.friends.SendRequest(ctx, from, profile.FriendCode)
	require.NoError(t, err)

	pending, err := s.friends.GetPendingRequests(ctx, to)
	require.NoError(t, err)
	for _, p := range pending {
		if p.From.ID == from {
			require.NoError(t, s.friends.AcceptRequest(ctx, to, p.ID))
			return
		}
	}
	t.Fatalf("no pending request from %d to %d", from, to)
}
