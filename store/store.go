// Package store owns the assistant's task collections and history
// counters, and persists them as a whole-state snapshot on disk.
//
// All collections are plain in-memory structures; there is no locking
// because every mutation happens on the single control loop. Slices keep
// insertion order, which the fuzzy identifier lookup relies on.
package store

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chattyhq/chatty/models"
)

// TaskStore holds ad-hoc, scheduled and completed tasks plus the history
// counters that feed the suggestion engine.
type TaskStore struct {
	tasks     []models.Task
	scheduled []models.ScheduledTask
	completed []models.CompletedTask

	history  map[string]int // lowercased description -> occurrence count
	feedback map[string]int // lowercased suggestion -> accumulated score

	ledger *NotificationLedger
}

// NewTaskStore returns an empty store.
func NewTaskStore() *TaskStore {
	return &TaskStore{
		history:  make(map[string]int),
		feedback: make(map[string]int),
		ledger:   NewNotificationLedger(),
	}
}

// Add inserts an ad-hoc task and bumps its history counter. It cannot fail.
func (s *TaskStore) Add(desc string, now time.Time) models.Task {
	task := models.Task{
		ID:          uuid.NewString(),
		Description: desc,
		CreatedAt:   now.Truncate(time.Second),
	}
	s.tasks = append(s.tasks, task)
	s.history[strings.ToLower(desc)]++
	return task
}

// Schedule inserts a scheduled task under a fresh surrogate ID. Two tasks
// scheduled for the same second coexist; the fire time is an attribute,
// not a key. Priority is clamped into range before validation.
func (s *TaskStore) Schedule(desc string, fireAt time.Time, recurring bool, priority int) (models.ScheduledTask, error) {
	task := models.ScheduledTask{
		ID:          uuid.NewString(),
		Description: desc,
		FireAt:      fireAt.Truncate(time.Second),
		Recurring:   recurring,
		Priority:    models.ClampPriority(priority),
	}
	if err := models.ValidateStruct(task); err != nil {
		return models.ScheduledTask{}, fmt.Errorf("schedule %q: %w", desc, err)
	}
	s.scheduled = append(s.scheduled, task)
	return task, nil
}

// Complete finds the first task whose ID, formatted timestamp or
// description matches identifier (ad-hoc tasks before scheduled ones,
// insertion order within each) and moves it into the completed
// collection. The second return value is false when nothing matched.
func (s *TaskStore) Complete(identifier string) (models.CompletedTask, bool) {
	ident := strings.ToLower(strings.TrimSpace(identifier))

	for i, t := range s.tasks {
		if !matches(ident, t.ID, t.Timestamp(), t.Description) {
			continue
		}
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
		return s.finish(t.ID, t.Description, t.CreatedAt), true
	}

	for i, t := range s.scheduled {
		if !matches(ident, t.ID, t.Timestamp(), t.Description) {
			continue
		}
		s.scheduled = append(s.scheduled[:i], s.scheduled[i+1:]...)
		s.ledger.Forget(t.ID)
		return s.finish(t.ID, t.Description, t.FireAt), true
	}

	return models.CompletedTask{}, false
}

// SetPriority updates the priority of the first matching scheduled task.
// Ad-hoc tasks are never considered. The value is clamped, not rejected.
func (s *TaskStore) SetPriority(identifier string, priority int) (models.ScheduledTask, bool) {
	ident := strings.ToLower(strings.TrimSpace(identifier))
	for i, t := range s.scheduled {
		if matches(ident, t.ID, t.Timestamp(), t.Description) {
			s.scheduled[i].Priority = models.ClampPriority(priority)
			return s.scheduled[i], true
		}
	}
	return models.ScheduledTask{}, false
}

// RecordFeedback accumulates a signed score against a suggestion text and
// returns the new total.
func (s *TaskStore) RecordFeedback(text string, delta int) int {
	key := strings.ToLower(strings.TrimSpace(text))
	s.feedback[key] += delta
	return s.feedback[key]
}

// Clear empties every collection, the history counters and the
// notification ledger. There is no confirmation step.
func (s *TaskStore) Clear() {
	s.tasks = nil
	s.scheduled = nil
	s.completed = nil
	s.history = make(map[string]int)
	s.feedback = make(map[string]int)
	s.ledger.Clear()
}

// ReplaceFrom swaps this store's entire contents for other's. Used when
// the on-disk snapshot changed underneath us; call it only from the
// control loop.
func (s *TaskStore) ReplaceFrom(other *TaskStore) {
	s.tasks = other.tasks
	s.scheduled = other.scheduled
	s.completed = other.completed
	s.history = other.history
	s.feedback = other.feedback
	s.ledger = other.ledger
}

// Reschedule replaces the scheduled task id with a fresh occurrence at
// fireAt, issued under a new ID with a clean ledger state. The old entry
// is removed. Used by the due-check engine for recurring tasks.
func (s *TaskStore) Reschedule(id string, fireAt time.Time) (models.ScheduledTask, bool) {
	for i, t := range s.scheduled {
		if t.ID != id {
			continue
		}
		s.scheduled = append(s.scheduled[:i], s.scheduled[i+1:]...)
		next := models.ScheduledTask{
			ID:          uuid.NewString(),
			Description: t.Description,
			FireAt:      fireAt.Truncate(time.Second),
			Recurring:   t.Recurring,
			Priority:    t.Priority,
		}
		s.scheduled = append(s.scheduled, next)
		return next, true
	}
	return models.ScheduledTask{}, false
}

// FinishScheduled removes a fired one-time task and records it as
// completed.
func (s *TaskStore) FinishScheduled(id string) (models.CompletedTask, bool) {
	for i, t := range s.scheduled {
		if t.ID != id {
			continue
		}
		s.scheduled = append(s.scheduled[:i], s.scheduled[i+1:]...)
		return s.finish(t.ID, t.Description, t.FireAt), true
	}
	return models.CompletedTask{}, false
}

// DropScheduled removes a scheduled task without completing it. Used when
// a persisted entry turns out to be unusable.
func (s *TaskStore) DropScheduled(id string) {
	for i, t := range s.scheduled {
		if t.ID == id {
			s.scheduled = append(s.scheduled[:i], s.scheduled[i+1:]...)
			s.ledger.Forget(id)
			return
		}
	}
}

func (s *TaskStore) finish(id, desc string, at time.Time) models.CompletedTask {
	done := models.CompletedTask{
		ID:          id,
		Description: desc,
		CompletedAt: at.Truncate(time.Second),
	}
	s.completed = append(s.completed, done)
	s.history[strings.ToLower(desc)]++
	return done
}

// Tasks returns a copy of the ad-hoc collection in insertion order.
func (s *TaskStore) Tasks() []models.Task {
	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Scheduled returns a copy of the scheduled collection in insertion order.
func (s *TaskStore) Scheduled() []models.ScheduledTask {
	out := make([]models.ScheduledTask, len(s.scheduled))
	copy(out, s.scheduled)
	return out
}

// Completed returns a copy of the completed collection in insertion order.
func (s *TaskStore) Completed() []models.CompletedTask {
	out := make([]models.CompletedTask, len(s.completed))
	copy(out, s.completed)
	return out
}

// History returns a copy of the description frequency counters.
func (s *TaskStore) History() map[string]int {
	out := make(map[string]int, len(s.history))
	for k, v := range s.history {
		out[k] = v
	}
	return out
}

// FeedbackScore returns the accumulated feedback for a suggestion text.
func (s *TaskStore) FeedbackScore(text string) int {
	return s.feedback[strings.ToLower(text)]
}

// Ledger exposes the notification bookkeeping used by the due-check
// engine.
func (s *TaskStore) Ledger() *NotificationLedger {
	return s.ledger
}

// ActiveReport renders ad-hoc and scheduled tasks sorted chronologically.
func (s *TaskStore) ActiveReport() string {
	if len(s.tasks) == 0 && len(s.scheduled) == 0 && len(s.completed) == 0 {
		return "No tasks yet, give me something to do!"
	}

	lines := make([]string, 0, len(s.tasks)+len(s.scheduled))
	for _, t := range s.tasks {
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Timestamp(), t.Description))
	}
	for _, t := range s.scheduled {
		lines = append(lines, fmt.Sprintf("- %s: %s (Priority: %d)", t.Timestamp(), t.Description, t.Priority))
	}
	sort.Strings(lines)

	var b strings.Builder
	if len(lines) > 0 {
		b.WriteString("Your tasks:\n")
		b.WriteString(strings.Join(lines, "\n"))
	}
	if len(s.completed) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.CompletedReport())
	}
	return b.String()
}

// CompletedReport renders completed tasks sorted chronologically, or a
// canned message when there are none.
func (s *TaskStore) CompletedReport() string {
	if len(s.completed) == 0 {
		return "No tasks completed yet!"
	}
	lines := make([]string, 0, len(s.completed))
	for _, t := range s.completed {
		lines = append(lines, fmt.Sprintf("- %s: %s", t.Timestamp(), t.Description))
	}
	sort.Strings(lines)
	return "Completed tasks:\n" + strings.Join(lines, "\n")
}

// matches implements the documented fuzzy lookup: an identifier hits a
// task if it is a prefix of the opaque ID, or a substring of the
// formatted timestamp or of the description (case-insensitive).
func matches(ident, id, timestamp, desc string) bool {
	if ident == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(id), ident) ||
		strings.Contains(timestamp, ident) ||
		strings.Contains(strings.ToLower(desc), ident)
}
