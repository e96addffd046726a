// Package models contains data structures for the application's domain models.
package models

import "time"

// User is a registered account. Friends and requests live in their own tables.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:30;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	FriendCode   string    `gorm:"size:8;uniqueIndex;not null" json:"friendCode"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserSummary is the public projection of a user used inside other payloads.
type UserSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// Summary returns the public projection of u.
func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username}
}

// PendingRequestView is a received request as shown on the recipient's profile.
type PendingRequestView struct {
	ID        uint        `json:"id"`
	From      UserSummary `json:"from"`
	CreatedAt time.Time   `json:"createdAt"`
}

// SentRequestView is a sent request as shown on the requester's profile.
type SentRequestView struct {
	ID        uint        `json:"id"`
	To        UserSummary `json:"to"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Profile is the caller's own account with relationship lists populated.
type Profile struct {
	ID                    uint                 `json:"id"`
	Username              string               `json:"username"`
	FriendCode            string               `json:"friendCode"`
	CreatedAt             time.Time            `json:"createdAt"`
	Friends               []UserSummary        `json:"friends"`
	PendingFriendRequests []PendingRequestView `json:"pendingFriendRequests"`
	SentFriendRequests    []SentRequestView    `json:"sentFriendRequests"`
}
