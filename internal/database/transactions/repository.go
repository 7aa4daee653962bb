// Package transactions provides owner-scoped database operations for
// income/expense transactions.
//
// Every method takes the owner's user ID and conjoins it to the query;
// there is no way to read or mutate another user's rows through this
// package.
package transactions

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/fintrack/fintrack/internal/database"
	"github.com/fintrack/fintrack/internal/entities"
)

// Repository handles all transaction database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new transactions repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a transaction owned by userID. Any owner value already
// present on the entity is overwritten.
func (r *Repository) Create(userID uint, tx *entities.Transaction) error {
	tx.UserID = userID
	return r.db.Create(tx).Error
}

// List returns the user's transactions, newest first.
func (r *Repository) List(userID uint, limit, offset int) ([]entities.Transaction, int64, error) {
	var txs []entities.Transaction
	var total int64

	query := r.db.Model(&entities.Transaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("date DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&txs).Error
	return txs, total, err
}

// ListRecent returns up to limit most recent transactions for the user,
// used as advisor prompt context.
func (r *Repository) ListRecent(userID uint, limit int) ([]entities.Transaction, error) {
	var txs []entities.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&txs).Error
	return txs, err
}

// GetByID retrieves one of the user's transactions. A transaction owned
// by someone else reports database.ErrNotFound.
func (r *Repository) GetByID(userID, id uint) (*entities.Transaction, error) {
	var tx entities.Transaction
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&tx).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Update modifies one of the user's transactions.
func (r *Repository) Update(userID, id uint, updates map[string]any) (*entities.Transaction, error) {
	result := r.db.Model(&entities.Transaction{}).
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

// Delete removes one of the user's transactions.
func (r *Repository) Delete(userID, id uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Transaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

// CategorySum holds an aggregated amount per category.
type CategorySum struct {
	Category string  `json:"category"`
	Type     string  `json:"type"`
	Total    float64 `json:"total"`
}

// SummarizeMonth aggregates the user's transactions for a calendar
// month by category and type.
func (r *Repository) SummarizeMonth(userID uint, monthStart, monthEnd time.Time) ([]CategorySum, error) {
	var sums []CategorySum
	err := r.db.Model(&entities.Transaction{}).
		Select("category, type, SUM(amount) AS total").
		Where("user_id = ? AND date >= ? AND date < ?", userID, monthStart, monthEnd).
		Group("category, type").
		Scan(&sums).Error
	return sums, err
}

// SumSpentByCategory returns the expense total for one category in the
// given window, used to recompute budget progress.
func (r *Repository) SumSpentByCategory(userID uint, category string, monthStart, monthEnd time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&entities.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("user_id = ? AND category = ? AND type = ? AND date >= ? AND date < ?",
			userID, category, entities.TransactionTypeExpense, monthStart, monthEnd).
		Scan(&total).Error
	return total, err
}
