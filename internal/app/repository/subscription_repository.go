package repository

import (
	"context"
	"errors"

	"github.com/sifan077/FoodGram/internal/app/model"
	"gorm.io/gorm"
)

var (
	// ErrSubscriptionNotFound signals that the user does not follow the author.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// SubscriptionRepository defines the data access contract for author subscriptions.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) error
	Delete(ctx context.Context, userID, authorID uint) error
	Exists(ctx context.Context, userID, authorID uint) (bool, error)
	// FollowedAmong returns the subset of authorIDs that userID follows.
	FollowedAmong(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
	ListAuthors(ctx context.Context, userID uint, limit, offset int) ([]model.User, int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository returns a GORM-backed SubscriptionRepository.
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(sub).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, userID, authorID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

func (r *subscriptionRepository) FollowedAmong(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var followed []uint
	if err := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &followed).Error; err != nil {
		return nil, err
	}
	for _, id := range followed {
		result[id] = true
	}
	return result, nil
}

func (r *subscriptionRepository) ListAuthors(ctx context.Context, userID uint, limit, offset int) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Subscription{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []model.Subscription
	if err := applyPagination(query, limit, offset).
		Preload("Author").
		Order("id ASC").
		Find(&subs).Error; err != nil {
		return nil, 0, err
	}

	authors := make([]model.User, 0, len(subs))
	for _, sub := range subs {
		authors = append(authors, sub.Author)
	}
	return authors, total, nil
}
