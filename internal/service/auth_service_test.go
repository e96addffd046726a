package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"tally/internal/auth"
	"tally/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	s := newServices(t, time.Now())
	ctx := context.Background()

	user, err := s.auth.Register(ctx, RegisterInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Len(t, user.FriendCode, 8)
	assert.NotEqual(t, "password123", user.PasswordHash)

	t.Run("duplicate username", func(t *testing.T) {
		_, err := s.auth.Register(ctx, RegisterInput{Username: "alice", Password: "password456"})
		assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)
		assert.Equal(t, 400, models.StatusFor(err))
	})

	t.Run("invalid input", func(t *testing.T) {
		for _, in := range []RegisterInput{
			{Username: "", Password: "password123"},
			{Username: "al", Password: "password123"},
			{Username: "bad name", Password: "password123"},
			{Username: "bob", Password: "short"},
			{Username: "bob", Password: strings.Repeat("p", 73)},
			{Username: "bob", Password: strings.Repeat("é", 40)},
		} {
			_, err := s.auth.Register(ctx, in)
			assert.True(t, models.IsCode(err, models.CodeValidation), "input %+v got %v", in, err)
		}
	})

	t.Run("friend codes are unique", func(t *testing.T) {
		bob, err := s.auth.Register(ctx, RegisterInput{Username: "bob", Password: "password123"})
		require.NoError(t, err)
		assert.NotEqual(t, user.FriendCode, bob.FriendCode)
	})
}

func TestAuthService_Register_RetriesFriendCodeCollision(t *testing.T) {
	s := newServices(t, time.Now())
	ctx := context.Background()

	codes := []string{"aaaa1111", "aaaa1111", "bbbb2222"}
	s.auth.newFriendCode = func() string {
		c := codes[0]
		codes = codes[1:]
		return c
	}

	first, err := s.auth.Register(ctx, RegisterInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "aaaa1111", first.FriendCode)

	second, err := s.auth.Register(ctx, RegisterInput{Username: "bob", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "bbbb2222", second.FriendCode)
	assert.Empty(t, codes)
}

func TestAuthService_Login(t *testing.T) {
	s := newServices(t, time.Now())
	ctx := context.Background()
	id := s.register(t, "alice")

	token, user, err := s.auth.Login(ctx, LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, id, user.ID)

	claims, err := s.auth.Authenticate(ctx, token)
	require.NoError(t, err)
	got, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, id, got)

	_, _, wrongPass := s.auth.Login(ctx, LoginInput{Username: "alice", Password: "nope-nope"})
	_, _, unknown := s.auth.Login(ctx, LoginInput{Username: "nobody", Password: "password123"})
	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	assert.Equal(t, 400, models.StatusFor(wrongPass))

	// Unknown users still pay for one bcrypt comparison.
	assert.True(t, strings.HasPrefix(dummyHash, "$2"), "dummy hash must be a bcrypt hash")
	assert.False(t, auth.CheckPassword(dummyHash, "password123"))
}

func TestAuthService_Logout(t *testing.T) {
	s := newServices(t, time.Now())
	ctx := context.Background()
	s.register(t, "alice")

	token, _, err := s.auth.Login(ctx, LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	claims, err := s.auth.Authenticate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, s.auth.Logout(ctx, claims))

	_, err = s.auth.Authenticate(ctx, token)
	assert.True(t, models.IsCode(err, models.CodeUnauthenticated))
}

func TestAuthService_Authenticate_Garbage(t *testing.T) {
	s := newServices(t, time.Now())
	_, err := s.auth.Authenticate(context.Background(), "abc.def.ghi")
	assert.Equal(t, 401, models.StatusFor(err))
}
