package models

import "time"

// FriendRequest is a pending request from Requester to Addressee.
// The same row is the requester's sent entry and the addressee's pending entry.
type FriendRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequesterID uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair" json:"requesterId"`
	AddresseeID uint      `gorm:"not null;uniqueIndex:idx_friend_request_pair;index" json:"addresseeId"`
	CreatedAt   time.Time `json:"createdAt"`

	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
	Addressee User `gorm:"foreignKey:AddresseeID" json:"-"`
}

// TableName specifies the table name for GORM
func (FriendRequest) TableName() string {
	return "friend_requests"
}

// Friendship is an accepted, symmetric relationship stored once per unordered pair.
// UserLowID is always the smaller id.
type Friendship struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserLowID  uint      `gorm:"not null;uniqueIndex:idx_friendship_pair" json:"userLowId"`
	UserHighID uint      `gorm:"not null;uniqueIndex:idx_friendship_pair;index" json:"userHighId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Friendship) TableName() string {
	return "friendships"
}

// NewFriendship builds the edge for a and b in canonical order.
func NewFriendship(a, b uint) *Friendship {
	low, high := OrderedPair(a, b)
	return &Friendship{UserLowID: low, UserHighID: high}
}

// OrderedPair returns a and b with the smaller first.
func OrderedPair(a, b uint) (uint, uint) {
	if a < b {
		return a, b
	}
	return b, a
}

// Other returns the member of the friendship that is not userID.
func (f Friendship) Other(userID uint) uint {
	if f.UserLowID == userID {
		return f.UserHighID
	}
	return f.UserLowID
}
