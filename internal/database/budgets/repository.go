// Package budgets provides owner-scoped database operations for monthly
// category budgets.
package budgets

import (
	"errors"

	"gorm.io/gorm"

	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/entities"
)

// Repository handles all budget database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new budgets repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a budget owned by userID.
func (r *Repository) Create(userID uint, budget *entities.Budget) error {
	budget.UserID = userID
	return r.db.Create(budget).Error
}

// ListByMonth returns the user's budgets for a "YYYY-MM" month.
func (r *Repository) ListByMonth(userID uint, month string) ([]entities.Budget, error) {
	var budgets []entities.Budget
	err := r.db.Where("user_id = ? AND month = ?", userID, month).
		Order("category ASC").
		Find(&budgets).Error
	return budgets, err
}

// GetByID retrieves one of the user's budgets.
func (r *Repository) GetByID(userID, id uint) (*entities.Budget, error) {
	var budget entities.Budget
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&budget).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return &budget, nil
}

// Update modifies one of the user's budgets.
func (r *Repository) Update(userID, id uint, updates map[string]any) (*entities.Budget, error) {
	result := r.db.Model(&entities.Budget{}).
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

// SetSpent stores a recomputed spent total on one of the user's budgets.
func (r *Repository) SetSpent(userID, id uint, spent float64) error {
	result := r.db.Model(&entities.Budget{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("spent", spent)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes one of the user's budgets.
func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Budget{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
