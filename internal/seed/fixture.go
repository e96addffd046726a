package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"tally/internal/auth"
	"tally/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Fixture is a hand-written data set, usually loaded from YAML:
//
//	users:
//	  - username: alice
//	    friendCode: aaaa1111
//	    activity:
//	      "2026-03-01": 3
//	  - username: bob
//	friendships:
//	  - [alice, bob]
//	requests:
//	  - from: carol
//	    to: alice
type Fixture struct {
	Users       []FixtureUser    `yaml:"users"`
	Friendships [][]string       `yaml:"friendships"`
	Requests    []FixtureRequest `yaml:"requests"`
}

// FixtureUser is one account with optional per-day counts.
type FixtureUser struct {
	Username   string           `yaml:"username"`
	Password   string           `yaml:"password"`
	FriendCode string           `yaml:"friendCode"`
	Activity   map[string]int64 `yaml:"activity"`
}

// FixtureRequest is a pending friend request between two fixture users.
type FixtureRequest struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ParseFixture decodes YAML into a Fixture and checks internal references.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

func (f *Fixture) validate() error {
	known := make(map[string]bool, len(f.Users))
	for _, u := range f.Users {
		if u.Username == "" {
			return fmt.Errorf("fixture user without username")
		}
		if known[u.Username] {
			return fmt.Errorf("duplicate fixture user %q", u.Username)
		}
		known[u.Username] = true
		for day, count := range u.Activity {
			if _, err := time.Parse(models.DayLayout, day); err != nil {
				return fmt.Errorf("user %q: bad day %q", u.Username, day)
			}
			if count < 0 {
				return fmt.Errorf("user %q: negative count on %s", u.Username, day)
			}
		}
	}
	check := func(names ...string) error {
		for _, n := range names {
			if !known[n] {
				return fmt.Errorf("unknown fixture user %q", n)
			}
		}
		if names[0] == names[1] {
			return fmt.Errorf("%q cannot relate to themselves", names[0])
		}
		return nil
	}
	for _, pair := range f.Friendships {
		if len(pair) != 2 {
			return fmt.Errorf("friendship %v must name exactly two users", pair)
		}
		if err := check(pair[0], pair[1]); err != nil {
			return err
		}
	}
	for _, r := range f.Requests {
		if err := check(r.From, r.To); err != nil {
			return err
		}
	}
	return nil
}

// ApplyFixture writes f in one transaction and returns the created users by username.
func (s *Seeder) ApplyFixture(ctx context.Context, f *Fixture) (map[string]models.User, error) {
	byName := make(map[string]models.User, len(f.Users))

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, fu := range f.Users {
			password := fu.Password
			if password == "" {
				password = DefaultPassword
			}
			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			code := fu.FriendCode
			if code == "" {
				code = auth.NewFriendCode()
			}

			u := models.User{Username: fu.Username, PasswordHash: hash, FriendCode: code}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("create user %q: %w", fu.Username, err)
			}
			byName[u.Username] = u

			var total int64
			for day, count := range fu.Activity {
				if err := tx.Create(&models.Activity{UserID: u.ID, Day: day, Count: count}).Error; err != nil {
					return fmt.Errorf("create activity for %q: %w", fu.Username, err)
				}
				total += count
			}
			if total > 0 {
				if err := tx.Create(&models.ActivityTotal{UserID: u.ID, TotalCount: total}).Error; err != nil {
					return err
				}
			}
		}

		for _, pair := range f.Friendships {
			if err := tx.Create(models.NewFriendship(byName[pair[0]].ID, byName[pair[1]].ID)).Error; err != nil {
				return fmt.Errorf("create friendship %v: %w", pair, err)
			}
		}
		for _, r := range f.Requests {
			req := &models.FriendRequest{RequesterID: byName[r.From].ID, AddresseeID: byName[r.To].ID}
			if err := tx.Create(req).Error; err != nil {
				return fmt.Errorf("create request %s->%s: %w", r.From, r.To, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return byName, nil
}
