package reminder

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ShivamSharma6214/MeetAct/internal/domain/entities"
	"github.com/ShivamSharma6214/MeetAct/internal/domain/repositories"
)

// DueWindow is how far ahead the worker looks for approaching deadlines
const DueWindow = 24 * time.Hour

// Worker periodically scans open action items whose deadline falls within the
// due window and logs one reminder per (item, due date)
type Worker struct {
	itemRepo     repositories.ActionItemRepository
	reminderRepo repositories.ReminderRepository
	interval     time.Duration
	logger       *zap.Logger

	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

// NewWorker creates a new reminder worker
func NewWorker(
	itemRepo repositories.ActionItemRepository,
	reminderRepo repositories.ReminderRepository,
	interval time.Duration,
	logger *zap.Logger,
) *Worker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Worker{
		itemRepo:     itemRepo,
		reminderRepo: reminderRepo,
		interval:     interval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the background scan loop
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		if w.logger != nil {
			w.logger.Info("🔄 Reminder worker started",
				zap.Duration("interval", w.interval))
		}

		for {
			select {
			case <-w.stopChan:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.scan(ctx)
			}
		}
	}()
}

// Stop signals the worker and waits for the current scan to finish
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopChan)
	w.wg.Wait()

	if w.logger != nil {
		w.logger.Info("✅ Reminder worker stopped")
	}
}

// scan logs a reminder for every open item due within the window that has no
// reminder row yet
func (w *Worker) scan(ctx context.Context) {
	cutoff := time.Now().Add(DueWindow)

	items, err := w.itemRepo.ListOpenDueBefore(ctx, cutoff)
	if err != nil {
		if w.logger != nil {
			w.logger.Error("❌ Reminder scan failed", zap.Error(err))
		}
		return
	}

	logged := 0
	for _, item := range items {
		if item.Deadline == nil {
			continue
		}

		exists, err := w.reminderRepo.Exists(ctx, item.ID, *item.Deadline)
		if err != nil {
			if w.logger != nil {
				w.logger.Error("❌ Reminder lookup failed",
					zap.String("item_id", item.ID.String()),
					zap.Error(err))
			}
			continue
		}
		if exists {
			continue
		}

		reminder := entities.NewReminder(item.UserID, item.ID, *item.Deadline)
		if err := w.reminderRepo.Create(ctx, reminder); err != nil {
			if w.logger != nil {
				w.logger.Error("❌ Failed to log reminder",
					zap.String("item_id", item.ID.String()),
					zap.Error(err))
			}
			continue
		}
		logged++
	}

	if logged > 0 && w.logger != nil {
		w.logger.Info("🔔 Reminders logged",
			zap.Int("count", logged),
			zap.Int("due_items", len(items)))
	}
}
