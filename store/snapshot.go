package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	yaml "gopkg.in/yaml.v3"

	"github.com/chattyhq/chatty/models"
)

// Snapshot formats. YAML is supported because some people like to hand-edit
// their data file; JSON is the default.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// stateDoc is the on-disk shape of the whole store. Timestamps are stored
// as formatted strings so the file stays greppable and diff-friendly.
type stateDoc struct {
	Tasks           []taskRecord           `json:"tasks" yaml:"tasks"`
	ScheduledTasks  []scheduledRecord      `json:"scheduled_tasks" yaml:"scheduled_tasks"`
	CompletedTasks  []taskRecord           `json:"completed_tasks" yaml:"completed_tasks"`
	TaskHistory     map[string]int         `json:"task_history" yaml:"task_history"`
	FeedbackHistory map[string]int         `json:"feedback_history" yaml:"feedback_history"`
	LastNotified    map[string]ledgerEntry `json:"last_notified" yaml:"last_notified"`
}

type taskRecord struct {
	ID        string `json:"id" yaml:"id"`
	Desc      string `json:"desc" yaml:"desc"`
	Timestamp string `json:"timestamp" yaml:"timestamp"`
}

type scheduledRecord struct {
	ID        string `json:"id" yaml:"id"`
	Desc      string `json:"desc" yaml:"desc"`
	FireAt    string `json:"fire_at" yaml:"fire_at"`
	Recurring bool   `json:"recurring" yaml:"recurring"`
	Priority  int    `json:"priority" yaml:"priority"`
}

// Save writes the whole store state to path atomically: marshal, write to
// a temp file next to the target, rename over it. The directory is created
// if absent.
func Save(fsys afero.Fs, path, format string, s *TaskStore) error {
	doc := s.snapshot()

	var data []byte
	var err error
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	case FormatJSON, "":
		data, err = json.MarshalIndent(doc, "", "  ")
	default:
		return fmt.Errorf("unsupported snapshot format %q", format)
	}
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fsys, tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp snapshot %s: %w", tmp, err)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("replace snapshot %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot into s, replacing its current content. A missing
// file is not an error: the store simply starts empty. Corrupt documents
// start fresh; individually malformed entries are dropped with a warning.
// Load never fails the process over bad data.
func Load(fsys afero.Fs, path, format string, s *TaskStore) error {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no snapshot found, starting fresh", "path", path)
			return nil
		}
		return fmt.Errorf("read snapshot %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var doc stateDoc
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON, "":
		err = json.Unmarshal(data, &doc)
	default:
		return fmt.Errorf("unsupported snapshot format %q", format)
	}
	if err != nil {
		slog.Warn("snapshot is corrupt, starting fresh", "path", path, "error", err)
		return nil
	}

	s.restore(doc)
	return nil
}

func (s *TaskStore) snapshot() stateDoc {
	doc := stateDoc{
		Tasks:           make([]taskRecord, 0, len(s.tasks)),
		ScheduledTasks:  make([]scheduledRecord, 0, len(s.scheduled)),
		CompletedTasks:  make([]taskRecord, 0, len(s.completed)),
		TaskHistory:     s.History(),
		FeedbackHistory: make(map[string]int, len(s.feedback)),
		LastNotified:    make(map[string]ledgerEntry, len(s.ledger.entries)),
	}
	for _, t := range s.tasks {
		doc.Tasks = append(doc.Tasks, taskRecord{ID: t.ID, Desc: t.Description, Timestamp: t.Timestamp()})
	}
	for _, t := range s.scheduled {
		doc.ScheduledTasks = append(doc.ScheduledTasks, scheduledRecord{
			ID:        t.ID,
			Desc:      t.Description,
			FireAt:    t.Timestamp(),
			Recurring: t.Recurring,
			Priority:  t.Priority,
		})
	}
	for _, t := range s.completed {
		doc.CompletedTasks = append(doc.CompletedTasks, taskRecord{ID: t.ID, Desc: t.Description, Timestamp: t.Timestamp()})
	}
	for k, v := range s.feedback {
		doc.FeedbackHistory[k] = v
	}
	// Only ledger entries for tasks still on the schedule are worth
	// keeping; marks for fired-and-removed occurrences are stale.
	live := make(map[string]bool, len(s.scheduled))
	for _, t := range s.scheduled {
		live[t.ID] = true
	}
	for k, v := range s.ledger.entries {
		if live[k] {
			doc.LastNotified[k] = v
		}
	}
	return doc
}

// restore replaces the store content with doc, dropping entries whose
// timestamps do not parse.
func (s *TaskStore) restore(doc stateDoc) {
	s.Clear()

	for _, r := range doc.Tasks {
		at, ok := parseStamp(r.Timestamp, "task", r.ID)
		if !ok {
			continue
		}
		s.tasks = append(s.tasks, models.Task{ID: orNewID(r.ID), Description: r.Desc, CreatedAt: at})
	}
	for _, r := range doc.ScheduledTasks {
		at, ok := parseStamp(r.FireAt, "scheduled task", r.ID)
		if !ok {
			continue
		}
		s.scheduled = append(s.scheduled, models.ScheduledTask{
			ID:          orNewID(r.ID),
			Description: r.Desc,
			FireAt:      at,
			Recurring:   r.Recurring,
			Priority:    models.ClampPriority(r.Priority),
		})
	}
	for _, r := range doc.CompletedTasks {
		at, ok := parseStamp(r.Timestamp, "completed task", r.ID)
		if !ok {
			continue
		}
		s.completed = append(s.completed, models.CompletedTask{ID: orNewID(r.ID), Description: r.Desc, CompletedAt: at})
	}

	for k, v := range doc.TaskHistory {
		s.history[strings.ToLower(k)] = v
	}
	for k, v := range doc.FeedbackHistory {
		s.feedback[strings.ToLower(k)] = v
	}
	for k, v := range doc.LastNotified {
		s.ledger.entries[k] = v
	}
}

func parseStamp(value, what, id string) (time.Time, bool) {
	at, err := time.ParseInLocation(models.TimestampLayout, value, time.Local)
	if err != nil {
		slog.Warn("dropping entry with bad timestamp", "kind", what, "id", id, "timestamp", value)
		return time.Time{}, false
	}
	return at, true
}

// orNewID tolerates snapshots written by hand without IDs.
func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
