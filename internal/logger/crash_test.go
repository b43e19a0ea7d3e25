package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteCrashLogCreatesFile(t *testing.T) {
	dir := t.TempDir()
	SetBasePath(dir)
	defer SetBasePath("")
	SetCommand("chatty")
	SetVersion("test")
	SetLastInput("add task:water plants")

	log := createCrashLog("boom")
	if err := writeCrashLog(log); err != nil {
		t.Fatalf("writeCrashLog() error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, CrashLogDir))
	if err != nil {
		t.Fatalf("read crash dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d crash logs, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(dir, CrashLogDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("read crash log: %v", err)
	}
	content := string(data)
	for _, want := range []string{"boom", "chatty", "add task:water plants", "STACK TRACE"} {
		if !strings.Contains(content, want) {
			t.Errorf("crash log missing %q", want)
		}
	}
}

func TestCleanOldCrashLogsKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < MaxCrashLogs+3; i++ {
		name := "crash_" + base.Add(time.Duration(i)*time.Minute).Format("20060102_150405") + ".log"
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatalf("seed log: %v", err)
		}
	}

	if err := cleanOldCrashLogs(dir); err != nil {
		t.Fatalf("cleanOldCrashLogs() error: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != MaxCrashLogs {
		t.Errorf("got %d logs after clean, want %d", len(entries), MaxCrashLogs)
	}
	// The survivors are the newest ones.
	newest := "crash_" + base.Add(time.Duration(MaxCrashLogs+2)*time.Minute).Format("20060102_150405") + ".log"
	found := false
	for _, e := range entries {
		if e.Name() == newest {
			found = true
		}
	}
	if !found {
		t.Errorf("newest log %s was removed", newest)
	}
}

func TestTruncateForLog(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := truncateForLog(long, 500)
	if len(got) != 500+len("... [truncated]") {
		t.Errorf("truncated length = %d", len(got))
	}
	if truncateForLog("short", 500) != "short" {
		t.Errorf("short strings should pass through")
	}
}
