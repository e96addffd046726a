package repository

import (
	"context"
	"errors"

	"tally/internal/database"
	"tally/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FriendRepository defines the interface for friend request and friendship persistence.
type FriendRepository interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) error
	GetRequestForAddressee(ctx context.Context, requestID, addresseeID uint) (*models.FriendRequest, error)
	FindRequest(ctx context.Context, requesterID, addresseeID uint) (*models.FriendRequest, error)
	GetPendingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	GetSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error)
	AcceptRequest(ctx context.Context, req *models.FriendRequest) error
	DeleteRequest(ctx context.Context, requestID, addresseeID uint) error
	AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error)
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
	RemoveFriendship(ctx context.Context, userID1, userID2 uint) error
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

var errRequestNotFound = models.NewNotFoundError("Friend request not found")

func (r *friendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	if err := r.db.WithContext(ctx).Create(req).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewConflictError("Friend request already sent")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetRequestForAddressee loads a request only if it was sent to addresseeID.
func (r *friendRepository) GetRequestForAddressee(ctx context.Context, requestID, addresseeID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("id = ? AND addressee_id = ?", requestID, addresseeID).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errRequestNotFound
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

// FindRequest returns (nil, nil) when no pending request from requester to addressee exists.
func (r *friendRepository) FindRequest(ctx context.Context, requesterID, addresseeID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ? AND addressee_id = ?", requesterID, addresseeID).
		First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &req, nil
}

func (r *friendRepository) GetPendingRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("addressee_id = ?", userID).
		Preload("Requester").
		Order("created_at ASC, id ASC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

func (r *friendRepository) GetSentRequests(ctx context.Context, userID uint) ([]models.FriendRequest, error) {
	var reqs []models.FriendRequest
	if err := r.db.WithContext(ctx).
		Where("requester_id = ?", userID).
		Preload("Addressee").
		Order("created_at ASC, id ASC").
		Find(&reqs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return reqs, nil
}

// AcceptRequest consumes req and records the friendship in one transaction.
// Any opposite-direction request between the pair is cleared as well.
func (r *friendRepository) AcceptRequest(ctx context.Context, req *models.FriendRequest) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND addressee_id = ?", req.ID, req.AddresseeID).Delete(&models.FriendRequest{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Accepted or rejected concurrently.
			return errRequestNotFound
		}

		if err := tx.Where("requester_id = ? AND addressee_id = ?", req.AddresseeID, req.RequesterID).
			Delete(&models.FriendRequest{}).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(models.NewFriendship(req.RequesterID, req.AddresseeID)).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return err
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) DeleteRequest(ctx context.Context, requestID, addresseeID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND addressee_id = ?", requestID, addresseeID).
		Delete(&models.FriendRequest{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errRequestNotFound
	}
	return nil
}

func (r *friendRepository) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	low, high := models.OrderedPair(userID1, userID2)
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *friendRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User

	// Each edge stores the pair once, so join on whichever side is not the caller.
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN friendships f ON (f.user_low_id = users.id AND f.user_high_id = ?) OR (f.user_high_id = users.id AND f.user_low_id = ?)",
			userID, userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *friendRepository) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	low, high := models.OrderedPair(userID1, userID2)
	res := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Delete(&models.Friendship{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Friendship not found")
	}
	return nil
}
