package service

import (
	"context"
	"testing"
	"time"

	"tally/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendService_SendRequest(t *testing.T) {
	s := newServices(t, time.Now())
	ctx := context.Background()

	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	aliceProfile, err := s.users.GetProfile(ctx, alice)
	require.NoError(t, err)
	bobProfile, err := s.users.GetProfile(ctx, bob)
	require.NoError(t, err)

	t.Run("unknown code", func(t *testing.T) {
		_, err := s.friends.SendRequest(ctx, alice, "zzzzzzzz")
		assert.Equal(t, 404, models.StatusFor(err))
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := s.friends.SendRequest(ctx, alice, "  ")
		assert.Equal(t, 400, models.StatusFor(err))
	})

	t.Run("self", func(t *testing.T) {
		_, err := s.friends.SendRequest(ctx, alice, aliceProfile.FriendCode)
		assert.Equal(t, 400, models.StatusFor(err))
	})

	t.Run("success then duplicate", func(t *testing.T) {
		view, err := s.friends.SendRequest(ctx, alice, bobProfile.FriendCode)
		require.NoError(t, err)
		assert.Equal(t, bob, view.To.ID)
		assert.Equal(t, "bob", view.To.Username)

		_, err = s.friends.SendRequest(ctx, alice, bobProfile.FriendCode)
		assert.True(t, models.IsCode(err, models.CodeConflict))
		assert.Equal(t, 400, models.StatusFor(err))
	})

	t.Run("reverse direction allowed while pending", func(t *testing.T) {
		_, err := s.friends.SendRequest(ctx, bob, aliceProfile.FriendCode)
		assert.NoError(t, err)
	})

	t.Run("already friends", func(t *testing.T) {
		pending, err := s.friends.GetPendingRequests(ctx, bob)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		require.NoError(t, s.friends.AcceptRequest(ctx, bob, pending[0].ID))

		_, err = s.friends.SendRequest(ctx, alice, bobProfile.FriendCode)
		assert.True(t, models.IsCode(err, models.CodeConflict))
		_, err = s.friends.SendRequest(ctx, bob, aliceProfile.FriendCode)
		assert.True(t, models.IsCode(err, models.CodeConflict))
	})
}

func TestFriendService_AcceptIsSymmetricAndClearsRequests(t *testing.T) {
	s := newServices(t, time.Now())
	ctx := context.Background()

	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	bobProfile, err := s.users.GetProfile(ctx, bob)
	require.NoError(t, err)

	sent, err := s.friends.SendRequest(ctx, alice, bobProfile.FriendCode)
	require.NoError(t, err)

	// The same id identifies the request on both sides.
	pending, err := s.friends.GetPendingRequests(ctx, bob)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, sent.ID, pending[0].ID)
	assert.Equal(t, alice, pending[0].From.ID)

	t.Run("only the addressee may accept", func(t *testing.T) {
		err := s.friends.AcceptRequest(ctx, alice, sent.ID)
		assert.Equal(t, 404, models.StatusFor(err))
	})

	require.NoError(t, s.friends.AcceptRequest(ctx, bob, sent.ID))

	a, err := s.users.GetProfile(ctx, alice)
	require.NoError(t, err)
	b, err := s.users.GetProfile(ctx, bob)
	require.NoError(t, err)

	assert.Equal(t, []models.UserSummary{{ID: bob, Username: "bob"}}, a.Friends)
	assert.Equal(t, []models.UserSummary{{ID: alice, Username: "alice"}}, b.Friends)
	assert.Empty(t, a.SentFriendRequests)
	assert.Empty(t, a.PendingFriendRequests)
	assert.Empty(t, b.SentFriendRequests)
	assert.Empty(t, b.PendingFriendRequests)

	t.Run("accepting twice", func(t *testing.T) {
		err := s.friends.AcceptRequest(ctx, bob, sent.ID)
		assert.Equal(t, 404, models.StatusFor(err))
	})
}

func TestFriendService_Reject(t *testing.T) {
	s := newServices(t, time.Now())
	ctx := context.Background()

	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	bobProfile, err := s.users.GetProfile(ctx, bob)
	require.NoError(t, err)

	sent, err := s.friends.SendRequest(ctx, alice, bobProfile.FriendCode)
	require.NoError(t, err)

	err = s.friends.RejectRequest(ctx, alice, sent.ID)
	assert.Equal(t, 404, models.StatusFor(err))

	require.NoError(t, s.friends.RejectRequest(ctx, bob, sent.ID))

	a, err := s.users.GetProfile(ctx, alice)
	require.NoError(t, err)
	b, err := s.users.GetProfile(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, a.SentFriendRequests)
	assert.Empty(t, b.PendingFriendRequests)
	assert.Empty(t, a.Friends)
	assert.Empty(t, b.Friends)

	// A rejected request can be sent again.
	_, err = s.friends.SendRequest(ctx, alice, bobProfile.FriendCode)
	assert.NoError(t, err)
}

func TestFriendService_RemoveFriend(t *testing.T) {
	s := newServices(t, time.Now())
	ctx := context.Background()

	alice := s.register(t, "alice")
	bob := s.register(t, "bob")
	s.befriend(t, alice, bob)

	assert.Equal(t, 400, models.StatusFor(s.friends.RemoveFriend(ctx, alice, alice)))
	require.NoError(t, s.friends.RemoveFriend(ctx, bob, alice))

	friends, err := s.friends.GetFriends(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, friends)

	assert.Equal(t, 404, models.StatusFor(s.friends.RemoveFriend(ctx, alice, bob)))
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	s := newServices(t, time.Now())
	_, err := s.users.GetProfile(context.Background(), 999)
	assert.Equal(t, 404, models.StatusFor(err))
}
