// Package bills provides owner-scoped database operations for bills.
package bills

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/entities"
)

// Repository handles all bill database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new bills repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a bill owned by userID.
func (r *Repository) Create(userID uint, bill *entities.Bill) error {
	bill.UserID = userID
	return r.db.Create(bill).Error
}

// List returns the user's bills ordered by due date.
func (r *Repository) List(userID uint) ([]entities.Bill, error) {
	var bills []entities.Bill
	err := r.db.Where("user_id = ?", userID).
		Order("due_date ASC").
		Find(&bills).Error
	return bills, err
}

// GetByID retrieves one of the user's bills.
func (r *Repository) GetByID(userID, id uint) (*entities.Bill, error) {
	var bill entities.Bill
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&bill).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return &bill, nil
}

// Update modifies one of the user's bills.
func (r *Repository) Update(userID, id uint, updates map[string]any) (*entities.Bill, error) {
	result := r.db.Model(&entities.Bill{}).
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

// Delete removes one of the user's bills.
func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Bill{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// ListUnpaidDueWithin returns unpaid, un-reminded bills across all
// users due on or before the cutoff. Used by the billing scheduler.
func (r *Repository) ListUnpaidDueWithin(cutoff time.Time) ([]entities.Bill, error) {
	var bills []entities.Bill
	err := r.db.Where("paid = ? AND reminder_sent = ? AND due_date <= ?", false, false, cutoff).
		Find(&bills).Error
	return bills, err
}

// MarkReminderSent records that a reminder was dispatched for a bill.
func (r *Repository) MarkReminderSent(id uint) error {
	return r.db.Model(&entities.Bill{}).
		Where("id = ?", id).
		Update("reminder_sent", true).Error
}
