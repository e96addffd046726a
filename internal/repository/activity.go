package repository

import (
	"context"
	"time"

	"tally/internal/models"
	"tally/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository defines persistence for daily counters and running totals.
type ActivityRepository interface {
	Increment(ctx context.Context, userID uint, day string) (models.Counts, error)
	GetDayCount(ctx context.Context, userID uint, day string) (int64, error)
	GetTotal(ctx context.Context, userID uint) (int64, error)
	ListForUsers(ctx context.Context, userIDs []uint, r models.DayRange) ([]models.Activity, error)
	RebuildTotals(ctx context.Context) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Increment bumps the (userID, day) row and the user's running total together.
func (r *activityRepository) Increment(ctx context.Context, userID uint, day string) (models.Counts, error) {
	defer observability.TrackQuery("upsert", "activities")()

	var counts models.Counts
	now := time.Now()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		act := models.Activity{UserID: userID, Day: day, Count: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "day"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("activities.count + 1"),
				"updated_at": now,
			}),
		}).Create(&act).Error; err != nil {
			return err
		}

		total := models.ActivityTotal{UserID: userID, TotalCount: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_count": gorm.Expr("activity_totals.total_count + 1"),
				"updated_at":  now,
			}),
		}).Create(&total).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Activity{}).
			Select("count").
			Where("user_id = ? AND day = ?", userID, day).
			Scan(&counts.TodayCount).Error; err != nil {
			return err
		}
		return tx.Model(&models.ActivityTotal{}).
			Select("total_count").
			Where("user_id = ?", userID).
			Scan(&counts.TotalCount).Error
	})
	if err != nil {
		return models.Counts{}, models.NewInternalError(err)
	}
	return counts, nil
}

// GetDayCount returns 0 when the user has no row for day.
func (r *activityRepository) GetDayCount(ctx context.Context, userID uint, day string) (int64, error) {
	defer observability.TrackQuery("select", "activities")()

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Activity{}).
		Select("COALESCE(SUM(count), 0)").
		Where("user_id = ? AND day = ?", userID, day).
		Scan(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// GetTotal returns 0 when the user has never incremented.
func (r *activityRepository) GetTotal(ctx context.Context, userID uint) (int64, error) {
	defer observability.TrackQuery("select", "activity_totals")()

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.ActivityTotal{}).
		Select("COALESCE(SUM(total_count), 0)").
		Where("user_id = ?", userID).
		Scan(&total).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return total, nil
}

// ListForUsers fetches every matching day row for the given users, newest day first.
func (r *activityRepository) ListForUsers(ctx context.Context, userIDs []uint, dr models.DayRange) ([]models.Activity, error) {
	defer observability.TrackQuery("select", "activities")()

	var rows []models.Activity
	if len(userIDs) == 0 {
		return rows, nil
	}

	q := r.db.WithContext(ctx).Where("user_id IN ?", userIDs)
	switch {
	case dr.Exact:
		q = q.Where("day = ?", dr.From)
	case dr.From != "":
		q = q.Where("day >= ?", dr.From)
	}

	if err := q.Order("day DESC").Order("user_id ASC").Find(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

// RebuildTotals recomputes activity_totals from the daily rows and returns how many users were written.
func (r *activityRepository) RebuildTotals(ctx context.Context) (int64, error) {
	var written int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&models.ActivityTotal{}).Error; err != nil {
			return err
		}
		res := tx.Exec(
			"INSERT INTO activity_totals (user_id, total_count, updated_at) "+
				"SELECT user_id, SUM(count), ? FROM activities GROUP BY user_id",
			time.Now(),
		)
		written = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return written, nil
}
