// Package app wires the assistant together: snapshot load, the terminal
// window, the background blog ticker, the snapshot-file watcher, and the
// shutdown save. The bubbletea program is the single writer of the task
// store; everything asynchronous routes through Program.Send.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/chattyhq/chatty/internal/agent"
	"github.com/chattyhq/chatty/internal/journal"
	"github.com/chattyhq/chatty/internal/logger"
	"github.com/chattyhq/chatty/internal/scheduler"
	"github.com/chattyhq/chatty/internal/services"
	"github.com/chattyhq/chatty/internal/ui"
	"github.com/chattyhq/chatty/store"
	"github.com/chattyhq/chatty/types"
)

// App owns the assembled assistant.
type App struct {
	cfg   types.AppConfig
	fsys  afero.Fs
	store *store.TaskStore
	agent *agent.Agent
	sched *scheduler.Engine
	jour  *journal.Journal
}

// New assembles an App from cfg. The snapshot is loaded immediately so
// callers can run either the window or a single headless command.
func New(cfg types.AppConfig) (*App, error) {
	return newWithFs(cfg, afero.NewOsFs())
}

func newWithFs(cfg types.AppConfig, fsys afero.Fs) (*App, error) {
	s := store.NewTaskStore()
	if err := store.Load(fsys, cfg.SnapshotPath(), cfg.Data.Format, s); err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	a := agent.New(s, cfg.UI.Personality)
	if cfg.Blog.Enabled {
		a.Blogger = services.NewOllamaBlogger(cfg.Blog)
	}
	if cfg.Email.Enabled {
		a.Mailer = services.NewSMTPMailer(cfg.Email)
	}

	app := &App{
		cfg:   cfg,
		fsys:  fsys,
		store: s,
		agent: a,
		sched: scheduler.New(s),
	}

	if cfg.Data.JournalFile != "" {
		j, err := journal.Open(filepath.Join(cfg.Data.Dir, cfg.Data.JournalFile))
		if err != nil {
			slog.Warn("journal unavailable", "error", err)
		} else {
			app.jour = j
		}
	}

	return app, nil
}

// Run starts the interactive window and blocks until the user exits.
func (a *App) Run() error {
	defer a.close()

	model := ui.NewModel(ui.Options{
		Agent:            a.agent,
		Scheduler:        a.sched,
		CheckInterval:    a.cfg.Scheduler.CheckInterval,
		MaxResponseLines: a.cfg.UI.MaxResponseLines,
		OnAlert: func(alert scheduler.Alert) {
			a.record(journal.KindAlert, alert.Description)
		},
		OnReload: a.reloadSnapshot,
	})

	p := tea.NewProgram(model)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.cfg.Blog.Enabled && a.cfg.Blog.Interval > 0 {
		go a.blogTicker(ctx, p)
	}
	if a.cfg.Data.Watch {
		go a.watchSnapshot(ctx, p)
	}

	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("run window: %w", err)
	}

	return a.save()
}

// RunOnce processes a single command without the window: the snapshot is
// loaded, the command applied, the result printed, and the state saved.
func (a *App) RunOnce(command string) error {
	defer a.close()

	logger.SetLastInput(command)
	reply := a.agent.Respond(context.Background(), time.Now(), command)
	fmt.Println(reply.Text)

	// Fire anything already due so a cron-driven invocation still
	// delivers overdue alerts.
	for _, alert := range a.sched.CheckDue(time.Now()) {
		fmt.Println(alert.Message())
		a.record(journal.KindAlert, alert.Description)
	}

	return a.save()
}

// RecentEvents lists the newest journal entries.
func (a *App) RecentEvents(limit int) ([]journal.Event, error) {
	if a.jour == nil {
		return nil, fmt.Errorf("journal is not configured; set data.journalFile")
	}
	return a.jour.Recent(limit)
}

func (a *App) save() error {
	if err := store.Save(a.fsys, a.cfg.SnapshotPath(), a.cfg.Data.Format, a.store); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (a *App) record(kind, detail string) {
	if a.jour == nil {
		return
	}
	if err := a.jour.Record(kind, detail); err != nil {
		slog.Warn("journal write failed", "kind", kind, "error", err)
	}
}

func (a *App) close() {
	if a.jour != nil {
		_ = a.jour.Close()
	}
}

// blogTicker generates and mails a blog post at the configured interval,
// reporting each outcome through the window.
func (a *App) blogTicker(ctx context.Context, p *tea.Program) {
	ticker := time.NewTicker(a.cfg.Blog.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result := a.agent.GenerateBlog(ctx)
			if strings.HasPrefix(result, "Blog generated") {
				a.record(journal.KindBlog, result)
			}
			p.Send(ui.ExternalMsg{
				Text: fmt.Sprintf("%s (%s)", result, time.Now().Format("15:04")),
			})
		}
	}
}

// reloadSnapshot re-reads the snapshot into the live store. It runs on
// the event loop, never concurrently with command handling.
func (a *App) reloadSnapshot() (string, bool) {
	fresh := store.NewTaskStore()
	if err := store.Load(a.fsys, a.cfg.SnapshotPath(), a.cfg.Data.Format, fresh); err != nil {
		slog.Warn("snapshot reload failed", "error", err)
		return "", false
	}
	a.store.ReplaceFrom(fresh)
	return "Noticed the task file changed on disk. Reloaded!", true
}

// watchSnapshot requests a store reload when the snapshot file changes on
// disk, so hand edits made while the assistant idles are picked up. Writes
// we make ourselves also trigger events; reloading after our own atomic
// rename is harmless because the file matches memory.
func (a *App) watchSnapshot(ctx context.Context, p *tea.Program) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Warn("snapshot watcher unavailable", "error", err)
		return
	}
	defer watcher.Close()

	// Watch the directory, not the file: atomic renames replace the
	// inode and a file watch would go stale after the first save.
	if err := watcher.Add(a.cfg.Data.Dir); err != nil {
		slog.Warn("snapshot watcher unavailable", "dir", a.cfg.Data.Dir, "error", err)
		return
	}

	target := filepath.Base(a.cfg.SnapshotPath())
	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(300*time.Millisecond, func() {
				p.Send(ui.ReloadRequestMsg{})
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("snapshot watcher error", "error", err)
		}
	}
}

// InitLogging points slog at stderr with the requested verbosity.
func InitLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
