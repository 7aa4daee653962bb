package entities

import (
	"time"

	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleYearly  BillingCycle = "yearly"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;column:user_id" json:"user_id"`
	Description string          `gorm:"size:512" json:"description"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `gorm:"size:10;index" json:"type"`
	Category    string          `gorm:"size:100;index" json:"category"`
	Date        time.Time       `gorm:"index" json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// Budget is a per-category spending limit for a calendar month.
type Budget struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;column:user_id" json:"user_id"`
	Category  string         `gorm:"size:100" json:"category"`
	Amount    float64        `json:"amount"`
	Spent     float64        `gorm:"default:0" json:"spent"`
	Month     string         `gorm:"size:7;index" json:"month"` // "YYYY-MM"
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Subscription is a recurring charge (streaming service, gym, etc).
type Subscription struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"index;column:user_id" json:"user_id"`
	Service         string         `gorm:"size:200" json:"service"`
	Amount          float64        `json:"amount"`
	BillingCycle    BillingCycle   `gorm:"size:10" json:"billing_cycle"`
	NextBillingDate time.Time      `json:"next_billing_date"`
	ImageURL        string         `gorm:"size:2048" json:"image_url,omitempty"`
	Active          bool           `gorm:"default:true;index" json:"active"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Bill is a one-off or monthly obligation with a due date.
type Bill struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"index;column:user_id" json:"user_id"`
	Name         string         `gorm:"size:200" json:"name"`
	Amount       float64        `json:"amount"`
	Category     string         `gorm:"size:100" json:"category"`
	Description  string         `gorm:"size:1024" json:"description,omitempty"`
	ImageURL     string         `gorm:"size:2048" json:"image_url,omitempty"`
	DueDate      time.Time      `gorm:"index" json:"due_date"`
	Paid         bool           `gorm:"default:false" json:"paid"`
	ReminderSent bool           `gorm:"default:false" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// Category is a seeded classification for transactions, budgets and bills.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
