package models

import "time"

// DayLayout is the storage and wire format of a calendar day.
const DayLayout = "2006-01-02"

// Activity is one user's counter for one calendar day.
type Activity struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_activity_user_day" json:"userId"`
	Day       string    `gorm:"size:10;not null;uniqueIndex:idx_activity_user_day;index" json:"date"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName specifies the table name for GORM
func (Activity) TableName() string {
	return "activities"
}

// ActivityTotal is the running all-time sum of a user's daily counts.
type ActivityTotal struct {
	UserID     uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	TotalCount int64     `gorm:"not null;default:0" json:"totalCount"`
	UpdatedAt  time.Time `json:"-"`
}

// TableName specifies the table name for GORM
func (ActivityTotal) TableName() string {
	return "activity_totals"
}

// Counts is the caller's own today/all-time pair.
type Counts struct {
	TodayCount int64 `json:"todayCount"`
	TotalCount int64 `json:"totalCount"`
}

// DateCount is one day bucket in a stats row.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// UserStats is one row of the friends leaderboard.
type UserStats struct {
	UserID     uint        `json:"userId"`
	Username   string      `json:"username"`
	IsSelf     bool        `json:"isSelf"`
	TotalCount int64       `json:"totalCount"`
	DateCounts []DateCount `json:"dateCounts"`
}

// StatsFilter selects the time window of a stats query.
type StatsFilter string

const (
	StatsFilterAll   StatsFilter = "all"
	StatsFilterToday StatsFilter = "today"
	StatsFilterWeek  StatsFilter = "week"
	StatsFilterMonth StatsFilter = "month"
)

// ParseStatsFilter maps the query value to a filter.
// Anything other than today, week or month applies no window.
func ParseStatsFilter(raw string) StatsFilter {
	switch f := StatsFilter(raw); f {
	case StatsFilterToday, StatsFilterWeek, StatsFilterMonth:
		return f
	default:
		return StatsFilterAll
	}
}

// DayRange is an inclusive lower bound and optional exact match on days.
// An empty From means unbounded.
type DayRange struct {
	From  string
	Exact bool
}

// Range resolves the filter against today.
func (f StatsFilter) Range(today time.Time) DayRange {
	switch f {
	case StatsFilterToday:
		return DayRange{From: today.Format(DayLayout), Exact: true}
	case StatsFilterWeek:
		return DayRange{From: today.AddDate(0, 0, -7).Format(DayLayout)}
	case StatsFilterMonth:
		return DayRange{From: today.AddDate(0, -1, 0).Format(DayLayout)}
	default:
		return DayRange{}
	}
}
