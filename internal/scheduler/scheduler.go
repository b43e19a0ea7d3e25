// Package scheduler scans scheduled tasks on a fixed tick, fires
// at-most-once-per-occurrence alerts, and rolls recurring tasks forward
// by one day.
package scheduler

import (
	"fmt"
	"time"

	"github.com/chattyhq/chatty/models"
	"github.com/chattyhq/chatty/store"
)

const (
	dayKeyLayout    = "2006-01-02"
	minuteKeyLayout = "2006-01-02 15:04"
)

// Alert describes one fired occurrence.
type Alert struct {
	TaskID      string
	Description string
	FireAt      time.Time
	Recurring   bool
}

// Message renders the alert line shown to the user.
func (a Alert) Message() string {
	return fmt.Sprintf("⏰ Alert! Time to %s at %s", a.Description, a.FireAt.Format("2006-01-02 15:04"))
}

// Engine is the due-check engine. It owns no state of its own: all
// bookkeeping lives in the store's notification ledger so it survives
// restarts.
type Engine struct {
	store *store.TaskStore
}

// New returns an engine bound to s.
func New(s *store.TaskStore) *Engine {
	return &Engine{store: s}
}

// CheckDue scans every scheduled task and returns the alerts due at now.
//
// Ledger keying: recurring tasks alert at most once per calendar day,
// one-time tasks at most once per calendar minute. A fired recurring task
// is re-inserted 24 hours later under a new ID; a fired one-time task is
// moved to the completed collection.
func (e *Engine) CheckDue(now time.Time) []Alert {
	var alerts []Alert
	ledger := e.store.Ledger()

	for _, task := range e.store.Scheduled() {
		if now.Before(task.FireAt) {
			continue
		}
		if alreadyAlerted(ledger, task, now) {
			continue
		}

		alerts = append(alerts, Alert{
			TaskID:      task.ID,
			Description: task.Description,
			FireAt:      task.FireAt,
			Recurring:   task.Recurring,
		})

		if task.Recurring {
			ledger.MarkDay(task.ID, now.Format(dayKeyLayout))
			e.store.Reschedule(task.ID, task.FireAt.AddDate(0, 0, 1))
		} else {
			ledger.MarkMinute(task.ID, now.Format(minuteKeyLayout))
			e.store.FinishScheduled(task.ID)
		}
	}

	return alerts
}

func alreadyAlerted(ledger *store.NotificationLedger, task models.ScheduledTask, now time.Time) bool {
	if task.Recurring {
		return ledger.AlertedOnDay(task.ID, now.Format(dayKeyLayout))
	}
	return ledger.AlertedAtMinute(task.ID, now.Format(minuteKeyLayout))
}
