// Package suggest ranks upcoming scheduled tasks and historical task
// frequency into a single human-readable suggestion. It only ever reads
// the store.
package suggest

import (
	"fmt"
	"sort"
	"time"

	"github.com/chattyhq/chatty/store"
)

// windowMinutes is how far ahead the engine looks for upcoming scheduled
// tasks before falling back to habit-based suggestions.
const windowMinutes = 120

// Engine produces suggestions from the store's current state.
type Engine struct {
	store *store.TaskStore
}

// New returns an engine reading from s.
func New(s *store.TaskStore) *Engine {
	return &Engine{store: s}
}

// Suggest returns a one-line suggestion for now.
//
// Priority order: a scheduled task due within the next two hours beats
// everything; then the most frequent historical task adjusted by
// feedback; then a fixed time-of-day fallback. Ties break
// deterministically: earlier fire time first, then lexicographic
// description.
func (e *Engine) Suggest(now time.Time) string {
	if line, ok := e.upcoming(now); ok {
		return line
	}
	if line, ok := e.fromHistory(now); ok {
		return line
	}
	return timeOfDay(now)
}

func (e *Engine) upcoming(now time.Time) (string, bool) {
	type candidate struct {
		score  float64
		fireAt time.Time
		desc   string
		line   string
	}

	var best *candidate
	for _, task := range e.store.Scheduled() {
		minutes := task.FireAt.Sub(now).Minutes()
		if minutes <= 0 || minutes > windowMinutes {
			continue
		}
		urgency := windowMinutes - minutes
		if urgency < 1 {
			urgency = 1
		}
		c := candidate{
			score:  urgency * float64(task.Priority),
			fireAt: task.FireAt,
			desc:   task.Description,
			line: fmt.Sprintf("Schedule %s at %s (in %d minutes, Priority: %d)",
				task.Description, task.FireAt.Format("15:04"), int(minutes), task.Priority),
		}
		if best == nil || c.score > best.score ||
			(c.score == best.score && (c.fireAt.Before(best.fireAt) ||
				(c.fireAt.Equal(best.fireAt) && c.desc < best.desc))) {
			best = &c
		}
	}
	if best == nil {
		return "", false
	}
	return best.line, true
}

func (e *Engine) fromHistory(now time.Time) (string, bool) {
	type entry struct {
		desc  string
		score int
	}

	var entries []entry
	for desc, freq := range e.store.History() {
		adjusted := freq * (1 + e.store.FeedbackScore(desc))
		if adjusted <= 0 {
			continue
		}
		entries = append(entries, entry{desc: desc, score: adjusted})
	}
	if len(entries) == 0 {
		return "", false
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].desc < entries[j].desc
	})
	top := entries[0].desc

	// Next full hour; time.Date normalizes hour 24 into the next day.
	at := time.Date(now.Year(), now.Month(), now.Day(), now.Hour()+1, 0, 0, 0, now.Location())
	return fmt.Sprintf("Based on your habits, how about scheduling %s at %s? (Provide feedback with 'feedback:%s on like/good' or 'dislike/bad')",
		top, at.Format("15:04"), top), true
}

func timeOfDay(now time.Time) string {
	switch hour := now.Hour(); {
	case hour >= 12 && hour < 14:
		return "Perhaps it's time to schedule lunch around 12:30?"
	case hour >= 17 && hour < 19:
		return "Maybe schedule dinner prep for 17:30?"
	case hour >= 21 && hour < 23:
		return "Don't forget to schedule your bedtime routine around 22:00!"
	default:
		return "No specific suggestions right now. Add your own task!"
	}
}
