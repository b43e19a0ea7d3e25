package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chattyhq/chatty/internal/agent"
	"github.com/chattyhq/chatty/internal/scheduler"
	"github.com/chattyhq/chatty/store"
)

func newTestModel(t *testing.T, maxLines int) Model {
	t.Helper()
	s := store.NewTaskStore()
	return NewModel(Options{
		Agent:            agent.New(s, "cheerful"),
		Scheduler:        scheduler.New(s),
		CheckInterval:    time.Second,
		MaxResponseLines: maxLines,
	})
}

func typeLine(t *testing.T, m Model, line string) Model {
	t.Helper()
	for _, r := range line {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model)
}

func TestGreetingTurnsOrbGreen(t *testing.T) {
	m := newTestModel(t, 10)
	m = typeLine(t, m, "hello")
	if m.CurrentState() != StateGreeting {
		t.Errorf("state = %s, want greeting", m.CurrentState())
	}
	responses := m.Responses()
	if len(responses) == 0 || !strings.Contains(responses[0], "Hey there!") {
		t.Errorf("greeting response missing: %v", responses)
	}
}

func TestExitQuitsProgram(t *testing.T) {
	m := newTestModel(t, 10)
	for _, r := range "exit" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.CurrentState() != StateExiting {
		t.Errorf("state = %s, want exiting", m.CurrentState())
	}
	if cmd == nil {
		t.Fatal("exit should produce a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("exit command produced %T, want tea.QuitMsg", msg)
	}
}

func TestResponseBandKeepsNewestLines(t *testing.T) {
	m := newTestModel(t, 3)
	for _, text := range []string{"one", "two", "three", "four"} {
		next, _ := m.Update(ExternalMsg{Text: text})
		m = next.(Model)
	}
	got := m.Responses()
	want := []string{"two", "three", "four"}
	if len(got) != len(want) {
		t.Fatalf("band has %d lines, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("band[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTickFiresDueAlert(t *testing.T) {
	s := store.NewTaskStore()
	var journaled []scheduler.Alert
	m := NewModel(Options{
		Agent:            agent.New(s, "cheerful"),
		Scheduler:        scheduler.New(s),
		CheckInterval:    time.Second,
		MaxResponseLines: 10,
		OnAlert:          func(a scheduler.Alert) { journaled = append(journaled, a) },
	})

	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)
	if _, err := s.Schedule("stand up", now.Add(-time.Minute), false, 2); err != nil {
		t.Fatalf("Schedule() error: %v", err)
	}

	next, _ := m.Update(tickMsg(now))
	m = next.(Model)

	if m.CurrentState() != StateAlert {
		t.Errorf("state = %s, want alert", m.CurrentState())
	}
	responses := m.Responses()
	if len(responses) != 1 || !strings.Contains(responses[0], "stand up") {
		t.Errorf("alert line missing: %v", responses)
	}
	if len(journaled) != 1 {
		t.Errorf("OnAlert fired %d times, want 1", len(journaled))
	}

	// A quiet tick afterwards settles the orb back to idle.
	next, _ = m.Update(tickMsg(now.Add(time.Second)))
	m = next.(Model)
	if m.CurrentState() != StateIdle {
		t.Errorf("state after quiet tick = %s, want idle", m.CurrentState())
	}
}

func TestViewShowsOrbAndInput(t *testing.T) {
	m := newTestModel(t, 10)
	view := m.View()
	if !strings.Contains(view, "●") {
		t.Errorf("view missing orb: %q", view)
	}
	if !strings.Contains(view, "esc to quit") {
		t.Errorf("view missing help line: %q", view)
	}
}
