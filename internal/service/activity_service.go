package service

import (
	"context"
	"time"

	"tally/internal/models"
	"tally/internal/observability"
	"tally/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// ActivityService maintains daily counters and builds the friends leaderboard.
type ActivityService struct {
	activityRepo repository.ActivityRepository
	friendRepo   repository.FriendRepository
	userRepo     repository.UserRepository
	loc          *time.Location
	now          func() time.Time
}

// NewActivityService returns an ActivityService that buckets days in loc.
func NewActivityService(
	activityRepo repository.ActivityRepository,
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	loc *time.Location,
) *ActivityService {
	if loc == nil {
		loc = time.Local
	}
	return &ActivityService{
		activityRepo: activityRepo,
		friendRepo:   friendRepo,
		userRepo:     userRepo,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *ActivityService) today() time.Time {
	return s.now().In(s.loc)
}

// Increment adds one to today's counter for userID.
func (s *ActivityService) Increment(ctx context.Context, userID uint) (counts models.Counts, err error) {
	span, ctx := observability.StartSpan(ctx, "ActivityService.Increment", attribute.Int("user.id", int(userID)))
	defer func() { span.End(err) }()

	counts, err = s.activityRepo.Increment(ctx, userID, s.today().Format(models.DayLayout))
	if err != nil {
		return models.Counts{}, err
	}
	observability.ActivityIncrements.Inc()
	return counts, nil
}

// GetCounts returns today's count and the all-time total for userID.
func (s *ActivityService) GetCounts(ctx context.Context, userID uint) (models.Counts, error) {
	today, err := s.activityRepo.GetDayCount(ctx, userID, s.today().Format(models.DayLayout))
	if err != nil {
		return models.Counts{}, err
	}
	total, err := s.activityRepo.GetTotal(ctx, userID)
	if err != nil {
		return models.Counts{}, err
	}
	return models.Counts{TodayCount: today, TotalCount: total}, nil
}

// GetFriendStats returns one row for the caller followed by one per friend (by username),
// each summing the days inside the filter window.
func (s *ActivityService) GetFriendStats(ctx context.Context, userID uint, filter models.StatsFilter) (stats []models.UserStats, err error) {
	span, ctx := observability.StartSpan(ctx, "ActivityService.GetFriendStats",
		attribute.Int("user.id", int(userID)), attribute.String("filter", string(filter)))
	defer func() { span.End(err) }()

	self, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	friends, err := s.friendRepo.GetFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	members := make([]models.User, 0, len(friends)+1)
	members = append(members, *self)
	members = append(members, friends...)

	ids := make([]uint, 0, len(members))
	index := make(map[uint]int, len(members))
	stats = make([]models.UserStats, 0, len(members))
	for i, u := range members {
		ids = append(ids, u.ID)
		index[u.ID] = i
		stats = append(stats, models.UserStats{
			UserID:     u.ID,
			Username:   u.Username,
			IsSelf:     u.ID == userID,
			DateCounts: []models.DateCount{},
		})
	}

	rows, err := s.activityRepo.ListForUsers(ctx, ids, filter.Range(s.today()))
	if err != nil {
		return nil, err
	}

	// rows arrive newest day first, which is the order dateCounts keeps.
	for _, r := range rows {
		i, ok := index[r.UserID]
		if !ok {
			continue
		}
		stats[i].TotalCount += r.Count
		stats[i].DateCounts = append(stats[i].DateCounts, models.DateCount{Date: r.Day, Count: r.Count})
	}

	span.AddAttributes(attribute.Int("stats.users", len(stats)), attribute.Int("stats.rows", len(rows)))
	return stats, nil
}
