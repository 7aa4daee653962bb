// Package subscriptions provides owner-scoped database operations for
// recurring subscriptions.
package subscriptions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/entities"
)

// Repository handles all subscription database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new subscriptions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a subscription owned by userID.
func (r *Repository) Create(userID uint, sub *entities.Subscription) error {
	sub.UserID = userID
	if sub.NextBillingDate.IsZero() {
		sub.NextBillingDate = time.Now().AddDate(0, 1, 0)
	}
	return r.db.Create(sub).Error
}

// ListActive returns the user's active subscriptions, newest first.
func (r *Repository) ListActive(userID uint) ([]entities.Subscription, error) {
	var subs []entities.Subscription
	err := r.db.Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// GetByID retrieves one of the user's subscriptions.
func (r *Repository) GetByID(userID, id uint) (*entities.Subscription, error) {
	var sub entities.Subscription
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// Update modifies one of the user's subscriptions.
func (r *Repository) Update(userID, id uint, updates map[string]any) (*entities.Subscription, error) {
	result := r.db.Model(&entities.Subscription{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, database.ErrNotFound
	}
	return r.GetByID(userID, id)
}

// Delete removes one of the user's subscriptions.
func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Subscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// ListDue returns active subscriptions across all users whose next
// billing date is on or before the cutoff. Used by the billing
// scheduler, never exposed through a request handler.
func (r *Repository) ListDue(cutoff time.Time) ([]entities.Subscription, error) {
	var subs []entities.Subscription
	err := r.db.Where("active = ? AND next_billing_date <= ?", true, cutoff).
		Find(&subs).Error
	return subs, err
}

// AdvanceBillingDate rolls a subscription's next billing date forward.
func (r *Repository) AdvanceBillingDate(id uint, next time.Time) error {
	return r.db.Model(&entities.Subscription{}).
		Where("id = ?", id).
		Update("next_billing_date", next).Error
}
