// Package seed creates demo data for development and manual testing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"tally/internal/auth"
	"tally/internal/middleware"
	"tally/internal/models"
	"tally/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password of every generated user.
const DefaultPassword = "password123"

// Options configures random seeding.
type Options struct {
	NumUsers int
	// Days is how far back activity is generated, today included.
	Days int
	// FriendsPerUser is the target number of friendships per user.
	FriendsPerUser int
	// Seed makes the run reproducible when non-zero.
	Seed int64
}

// Seeder writes demo data through the repositories.
type Seeder struct {
	db       *gorm.DB
	users    repository.UserRepository
	activity repository.ActivityRepository
	loc      *time.Location
	now      func() time.Time

	newFriendCode func() string
}

// NewSeeder returns a Seeder that buckets activity days in loc.
func NewSeeder(db *gorm.DB, loc *time.Location) *Seeder {
	if loc == nil {
		loc = time.Local
	}
	return &Seeder{
		db:       db,
		users:    repository.NewUserRepository(db, nil),
		activity: repository.NewActivityRepository(db),
		loc:      loc,
		now:      time.Now,

		newFriendCode: auth.NewFriendCode,
	}
}

// ClearAll removes every row from the schema-managed tables, children first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, m := range []any{
			&models.ActivityTotal{},
			&models.Activity{},
			&models.FriendRequest{},
			&models.Friendship{},
			&models.User{},
		} {
			if err := all.Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
}

var nonUsername = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// usernameFrom turns a generated handle into a valid username.
func usernameFrom(raw string, suffix int) string {
	name := nonUsername.ReplaceAllString(raw, "")
	tail := fmt.Sprintf("_%d", suffix)
	if limit := 30 - len(tail); len(name) > limit {
		name = name[:limit]
	}
	if len(name) < 3 {
		name = "user" + name
	}
	return strings.ToLower(name) + tail
}

// Random creates users, friendships and a history of daily activity.
func (s *Seeder) Random(ctx context.Context, opts Options) ([]models.User, error) {
	if opts.NumUsers <= 0 {
		return nil, nil
	}
	if opts.Days <= 0 {
		opts.Days = 30
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)
	r := rand.New(rand.NewSource(seed))

	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		u, err := s.createUser(ctx, usernameFrom(faker.Username(), i+1), hash)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}

	if err := s.befriendRandomly(ctx, users, opts.FriendsPerUser, r); err != nil {
		return nil, err
	}

	today := s.now().In(s.loc)
	var rows []models.Activity
	for _, u := range users {
		// Each user is active on a random share of days.
		activeRate := 0.3 + r.Float64()*0.6
		for d := 0; d < opts.Days; d++ {
			if r.Float64() > activeRate {
				continue
			}
			rows = append(rows, models.Activity{
				UserID: u.ID,
				Day:    today.AddDate(0, 0, -d).Format(models.DayLayout),
				Count:  int64(faker.Number(1, 12)),
			})
		}
	}
	if len(rows) > 0 {
		if err := s.db.WithContext(ctx).CreateInBatches(rows, 500).Error; err != nil {
			return nil, fmt.Errorf("create activity: %w", err)
		}
	}

	if _, err := s.activity.RebuildTotals(ctx); err != nil {
		return nil, fmt.Errorf("rebuild totals: %w", err)
	}

	middleware.Logger.InfoContext(ctx, "random seed complete",
		"users", len(users), "activity_rows", len(rows))
	return users, nil
}

const friendCodeAttempts = 5

// createUser inserts a user, drawing a new friend code on collision.
func (s *Seeder) createUser(ctx context.Context, username, hash string) (*models.User, error) {
	for attempt := 1; attempt <= friendCodeAttempts; attempt++ {
		u := &models.User{
			Username:     username,
			PasswordHash: hash,
			FriendCode:   s.newFriendCode(),
		}
		err := s.users.Create(ctx, u)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, repository.ErrFriendCodeTaken) {
			return nil, fmt.Errorf("create user %q: %w", username, err)
		}
	}
	return nil, fmt.Errorf("create user %q: %w", username, repository.ErrFriendCodeTaken)
}

func (s *Seeder) befriendRandomly(ctx context.Context, users []models.User, perUser int, r *rand.Rand) error {
	if len(users) < 2 || perUser <= 0 {
		return nil
	}
	var edges []*models.Friendship
	for i, u := range users {
		for k := 0; k < perUser; k++ {
			j := r.Intn(len(users))
			if j == i {
				continue
			}
			edges = append(edges, models.NewFriendship(u.ID, users[j].ID))
		}
	}
	if len(edges) == 0 {
		return nil
	}
	// Duplicate pairs are expected from random picks.
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(edges, 500).Error
}
