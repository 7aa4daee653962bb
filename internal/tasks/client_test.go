package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Verify tasks database was created alongside the main one
	tasksDBPath := filepath.Join(tmpDir, "test-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

type fakeMarker struct {
	marked []uint
}

func (f *fakeMarker) MarkReminderSent(id uint) error {
	f.marked = append(f.marked, id)
	return nil
}

func TestBillReminderProcessor(t *testing.T) {
	marker := &fakeMarker{}
	processor := BillReminderProcessor(marker)

	task := BillReminderTask{
		BillID:  7,
		UserID:  1,
		Name:    "Electricity",
		Amount:  80,
		DueDate: time.Now().AddDate(0, 0, 2),
	}

	require.NoError(t, processor(context.Background(), task))
	assert.Equal(t, []uint{7}, marker.marked)
}

func TestBillReminderProcessor_NoMarker(t *testing.T) {
	processor := BillReminderProcessor(nil)

	err := processor(context.Background(), BillReminderTask{BillID: 1})
	assert.Error(t, err)
}
