package types

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
)

func validConfig() AppConfig {
	return AppConfig{
		Data: DataConfig{
			Dir:    ".chatty",
			File:   "tasks.json",
			Format: "json",
		},
		UI: UIConfig{
			MaxResponseLines: 10,
			Personality:      "cheerful",
		},
		Scheduler: SchedulerConfig{CheckInterval: time.Second},
	}
}

func TestSnapshotPath(t *testing.T) {
	cfg := validConfig()
	want := filepath.Join(".chatty", "tasks.json")
	if got := cfg.SnapshotPath(); got != want {
		t.Errorf("SnapshotPath() = %q, want %q", got, want)
	}
}

func TestConfigValidation(t *testing.T) {
	v := validator.New()

	if err := v.Struct(validConfig()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := validConfig()
	bad.Data.Format = "toml"
	if err := v.Struct(bad); err == nil {
		t.Error("unsupported data format accepted")
	}

	bad = validConfig()
	bad.UI.Personality = "grumpy"
	if err := v.Struct(bad); err == nil {
		t.Error("unknown personality accepted")
	}

	bad = validConfig()
	bad.Email = EmailConfig{Enabled: true, Host: "smtp.example.com", From: "x@example.com", To: "not-an-email"}
	if err := v.Struct(bad); err == nil {
		t.Error("malformed email recipient accepted")
	}
}
