package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/database/bills"
	"github.com/fintrack/fintrack/internal/database/subscriptions"
	"github.com/fintrack/fintrack/internal/entities"
)

func setupScheduler(t *testing.T) (*BillingScheduler, *subscriptions.Repository, *bills.Repository) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Subscription{}, &entities.Bill{}))

	subRepo := subscriptions.NewRepository(db)
	billRepo := bills.NewRepository(db)
	cfg := config.Billing{Enabled: true, Schedule: "0 6 * * *", ReminderDays: 3}

	return NewBillingScheduler(subRepo, billRepo, nil, cfg), subRepo, billRepo
}

func TestAdvanceCycle(t *testing.T) {
	from := time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC)

	monthly := advanceCycle(from, entities.BillingCycleMonthly)
	assert.Equal(t, time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC), monthly)

	yearly := advanceCycle(from, entities.BillingCycleYearly)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), yearly)
}

func TestRollSubscriptions(t *testing.T) {
	sched, subRepo, _ := setupScheduler(t)

	now := time.Now()
	due := &entities.Subscription{
		Service:         "Streaming",
		Amount:          9.99,
		BillingCycle:    entities.BillingCycleMonthly,
		NextBillingDate: now.AddDate(0, 0, -1),
		Active:          true,
	}
	require.NoError(t, subRepo.Create(1, due))

	future := &entities.Subscription{
		Service:         "Cloud storage",
		Amount:          2.99,
		BillingCycle:    entities.BillingCycleMonthly,
		NextBillingDate: now.AddDate(0, 0, 10),
		Active:          true,
	}
	require.NoError(t, subRepo.Create(1, future))

	rolled := sched.rollSubscriptions(now)
	assert.Equal(t, 1, rolled)

	got, err := subRepo.GetByID(1, due.ID)
	require.NoError(t, err)
	assert.True(t, got.NextBillingDate.After(now))

	// The untouched subscription keeps its date
	got, err = subRepo.GetByID(1, future.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, now.AddDate(0, 0, 10), got.NextBillingDate, time.Second)
}

func TestRollSubscriptions_CatchesUp(t *testing.T) {
	sched, subRepo, _ := setupScheduler(t)

	// A date several cycles in the past rolls until it lands in the future
	now := time.Now()
	stale := &entities.Subscription{
		Service:         "Gym",
		Amount:          30,
		BillingCycle:    entities.BillingCycleMonthly,
		NextBillingDate: now.AddDate(0, -5, 0),
		Active:          true,
	}
	require.NoError(t, subRepo.Create(1, stale))

	rolled := sched.rollSubscriptions(now)
	assert.Equal(t, 1, rolled)

	got, err := subRepo.GetByID(1, stale.ID)
	require.NoError(t, err)
	assert.True(t, got.NextBillingDate.After(now))
	// And not more than one cycle ahead
	assert.True(t, got.NextBillingDate.Before(now.AddDate(0, 1, 1)))
}

func TestQueueReminders_NoQueue(t *testing.T) {
	sched, _, billRepo := setupScheduler(t)

	bill := &entities.Bill{Name: "Electricity", Amount: 80, DueDate: time.Now().AddDate(0, 0, 1)}
	require.NoError(t, billRepo.Create(1, bill))

	// Without a task queue the pass is a no-op, not a crash
	queued := sched.queueReminders(time.Now())
	assert.Equal(t, 0, queued)
}

func TestScheduler_DisabledDoesNotStart(t *testing.T) {
	sched, _, _ := setupScheduler(t)
	sched.config.Enabled = false

	require.NoError(t, sched.Start(context.Background()))
	assert.False(t, sched.IsRunning())
}

func TestScheduler_StartStop(t *testing.T) {
	sched, _, _ := setupScheduler(t)

	require.NoError(t, sched.Start(context.Background()))
	assert.True(t, sched.IsRunning())
	assert.NotNil(t, sched.NextRunTime())

	sched.Stop()
	assert.False(t, sched.IsRunning())
	assert.Nil(t, sched.NextRunTime())
}
