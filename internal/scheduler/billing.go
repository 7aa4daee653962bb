// Package scheduler runs the periodic billing maintenance pass: rolling
// subscription billing dates forward and queueing reminders for bills
// that are about to come due.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/database/bills"
	"github.com/fintrack/fintrack/internal/database/subscriptions"
	"github.com/fintrack/fintrack/internal/entities"
	"github.com/fintrack/fintrack/internal/tasks"
)

// BillingScheduler manages the recurring billing maintenance job.
type BillingScheduler struct {
	subscriptions *subscriptions.Repository
	bills         *bills.Repository
	queue         *tasks.Client
	config        config.Billing

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWorking  bool
	cancelFunc context.CancelFunc
}

// NewBillingScheduler creates a new scheduler instance. The task queue may
// be nil, in which case bill reminders are skipped.
func NewBillingScheduler(subs *subscriptions.Repository, billRepo *bills.Repository, queue *tasks.Client, cfg config.Billing) *BillingScheduler {
	return &BillingScheduler{
		subscriptions: subs,
		bills:         billRepo,
		queue:         queue,
		config:        cfg,
		cron:          cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if billing maintenance is enabled.
func (s *BillingScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Billing scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runMaintenance()
	})
	if err != nil {
		return fmt.Errorf("invalid billing schedule '%s': %w", s.config.Schedule, err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Billing scheduler: started with schedule '%s'", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running pass to finish.
func (s *BillingScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Billing scheduler: stopped")
}

// RunNow triggers an immediate maintenance pass.
func (s *BillingScheduler) RunNow() {
	go s.runMaintenance()
}

// IsRunning returns whether the scheduler is active.
func (s *BillingScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next maintenance pass will occur.
func (s *BillingScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// runMaintenance performs one billing pass.
func (s *BillingScheduler) runMaintenance() {
	s.mu.Lock()
	if s.isWorking {
		s.mu.Unlock()
		log.Printf("Billing maintenance: skipped (already running)")
		return
	}
	s.isWorking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWorking = false
		s.mu.Unlock()
	}()

	start := time.Now()
	rolled := s.rollSubscriptions(start)
	queued := s.queueReminders(start)
	log.Printf("Billing maintenance: rolled %d subscriptions, queued %d reminders in %v",
		rolled, queued, time.Since(start).Round(time.Millisecond))
}

// rollSubscriptions advances the billing date of every active subscription
// whose date has passed. A date far in the past rolls forward repeatedly
// until it lands in the future again.
func (s *BillingScheduler) rollSubscriptions(now time.Time) int {
	due, err := s.subscriptions.ListDue(now)
	if err != nil {
		log.Printf("Billing maintenance: failed to list due subscriptions: %v", err)
		return 0
	}

	rolled := 0
	for _, sub := range due {
		next := sub.NextBillingDate
		for !next.After(now) {
			next = advanceCycle(next, sub.BillingCycle)
		}
		if err := s.subscriptions.AdvanceBillingDate(sub.ID, next); err != nil {
			log.Printf("Billing maintenance: failed to advance subscription %d: %v", sub.ID, err)
			continue
		}
		rolled++
	}
	return rolled
}

// queueReminders enqueues a reminder task for every unpaid bill coming due
// within the configured window that has not been reminded about yet.
func (s *BillingScheduler) queueReminders(now time.Time) int {
	if s.queue == nil {
		return 0
	}

	cutoff := now.AddDate(0, 0, s.config.ReminderDays)
	pending, err := s.bills.ListUnpaidDueWithin(cutoff)
	if err != nil {
		log.Printf("Billing maintenance: failed to list pending bills: %v", err)
		return 0
	}

	queued := 0
	for _, bill := range pending {
		task := tasks.BillReminderTask{
			BillID:  bill.ID,
			UserID:  bill.UserID,
			Name:    bill.Name,
			Amount:  bill.Amount,
			DueDate: bill.DueDate,
		}
		if err := s.queue.Add(task).Save(); err != nil {
			log.Printf("Billing maintenance: failed to queue reminder for bill %d: %v", bill.ID, err)
			continue
		}
		queued++
	}
	return queued
}

// advanceCycle returns the next billing date one cycle after from.
func advanceCycle(from time.Time, cycle entities.BillingCycle) time.Time {
	if cycle == entities.BillingCycleYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
