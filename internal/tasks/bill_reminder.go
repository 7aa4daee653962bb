package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ReminderMarker records that a reminder was delivered for a bill so the
// scheduler does not enqueue it again on the next pass.
type ReminderMarker interface {
	MarkReminderSent(id uint) error
}

// BillReminderTask notifies the owner of a bill that its due date is near.
type BillReminderTask struct {
	BillID  uint      `json:"bill_id"`
	UserID  uint      `json:"user_id"`
	Name    string    `json:"name"`
	Amount  float64   `json:"amount"`
	DueDate time.Time `json:"due_date"`
}

// Config returns the queue configuration for bill reminder tasks.
func (t BillReminderTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "bill_reminder",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// BillReminderProcessor creates a processor function for BillReminderTask.
func BillReminderProcessor(marker ReminderMarker) backlite.QueueProcessor[BillReminderTask] {
	return func(ctx context.Context, task BillReminderTask) error {
		if marker == nil {
			return fmt.Errorf("reminder marker not configured")
		}

		log.Printf("[TASK] Reminder for user %d: bill %q (%.2f) due %s",
			task.UserID, task.Name, task.Amount, task.DueDate.Format("2006-01-02"))

		if err := marker.MarkReminderSent(task.BillID); err != nil {
			return fmt.Errorf("mark reminder sent for bill %d: %w", task.BillID, err)
		}
		return nil
	}
}

// NewBillReminderQueue creates a backlite queue for bill reminder tasks.
func NewBillReminderQueue(marker ReminderMarker) backlite.Queue {
	return backlite.NewQueue(BillReminderProcessor(marker))
}
