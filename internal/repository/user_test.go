package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"tally/internal/cache"
	"tally/internal/models"
	"tally/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		expectedUser string
		expectedCode string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "username", "friend_code"}).
					AddRow(1, "alice", "abcd1234")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedUser: "alice",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(99, 1).
					WillReturnRows(sqlmock.NewRows([]string{"id"}))
			},
			expectedCode: models.CodeNotFound,
		},
		{
			name:   "Database error",
			userID: 2,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1`)).
					WithArgs(2, 1).
					WillReturnError(errors.New("connection timeout"))
			},
			expectedCode: models.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.expectedCode != "" {
				assert.Nil(t, user)
				assert.True(t, models.IsCode(err, tt.expectedCode), "got %v", err)
			} else if assert.NoError(t, err) {
				assert.Equal(t, tt.expectedUser, user.Username)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID_UsesCache(t *testing.T) {
	db := testutil.NewTestDB(t)
	client, _ := testutil.NewTestRedis(t)
	repo := NewUserRepository(db, cache.New(client))
	ctx := context.Background()

	u := createUser(t, db, "alice", "aaaa1111")

	first, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)

	// Served from Redis once the row is gone.
	require.NoError(t, db.Exec("DELETE FROM users WHERE id = ?", u.ID).Error)
	second, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", second.Username)
	assert.Equal(t, "aaaa1111", second.FriendCode)
}

func TestUserRepository_Lookups(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	alice := createUser(t, db, "alice", "aaaa1111")
	bob := createUser(t, db, "bob", "bbbb2222")

	t.Run("GetByUsername", func(t *testing.T) {
		u, err := repo.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, bob.ID, u.ID)

		missing, err := repo.GetByUsername(ctx, "carol")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("GetByFriendCode", func(t *testing.T) {
		u, err := repo.GetByFriendCode(ctx, "aaaa1111")
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, alice.ID, u.ID)

		missing, err := repo.GetByFriendCode(ctx, "zzzz9999")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("GetByIDs orders by username", func(t *testing.T) {
		users, err := repo.GetByIDs(ctx, []uint{bob.ID, alice.ID})
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, "alice", users[0].Username)
		assert.Equal(t, "bob", users[1].Username)

		empty, err := repo.GetByIDs(ctx, nil)
		assert.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestUserRepository_Create_Uniqueness(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "x", FriendCode: "aaaa1111"}))

	err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "x", FriendCode: "cccc3333"})
	assert.True(t, models.IsCode(err, models.CodeConflict), "got %v", err)

	err = repo.Create(ctx, &models.User{Username: "bob", PasswordHash: "x", FriendCode: "aaaa1111"})
	assert.ErrorIs(t, err, ErrFriendCodeTaken)
}
