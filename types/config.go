package types

import (
	"path/filepath"
	"time"
)

// AppConfig represents the complete application configuration
type AppConfig struct {
	Verbose   bool            `mapstructure:"verbose"`
	Config    string          `mapstructure:"config"`
	Data      DataConfig      `mapstructure:"data" validate:"required"`
	UI        UIConfig        `mapstructure:"ui"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Blog      BlogConfig      `mapstructure:"blog" validate:"omitempty"`
	Email     EmailConfig     `mapstructure:"email" validate:"omitempty"`
}

// SnapshotPath returns the full path of the snapshot file.
func (c AppConfig) SnapshotPath() string {
	return filepath.Join(c.Data.Dir, c.Data.File)
}

// DataConfig holds snapshot storage configuration
type DataConfig struct {
	Dir         string `mapstructure:"dir" validate:"required"`
	File        string `mapstructure:"file" validate:"required"`
	Format      string `mapstructure:"format" validate:"required,oneof=json yaml"`
	JournalFile string `mapstructure:"journalFile"`
	Watch       bool   `mapstructure:"watch"`
}

// UIConfig holds terminal interface settings
type UIConfig struct {
	MaxResponseLines int    `mapstructure:"maxResponseLines" validate:"min=1"`
	Personality      string `mapstructure:"personality" validate:"oneof=cheerful plain"`
}

// SchedulerConfig holds due-check settings
type SchedulerConfig struct {
	CheckInterval time.Duration `mapstructure:"checkInterval" validate:"min=1s"`
}

// BlogConfig holds settings for the periodic blog generator. Endpoint is
// any OpenAI-compatible /v1 base URL; a local Ollama daemon works.
type BlogConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval" validate:"omitempty,min=1m"`
	Endpoint string        `mapstructure:"endpoint" validate:"required_if=Enabled true,omitempty,url"`
	Model    string        `mapstructure:"model" validate:"required_if=Enabled true"`
	Prompt   string        `mapstructure:"prompt"`
	APIKey   string        `mapstructure:"apiKey"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"omitempty,min=1s"`
}

// EmailConfig holds SMTP delivery settings for finished blog posts
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from" validate:"required_if=Enabled true,omitempty,email"`
	To       string `mapstructure:"to" validate:"required_if=Enabled true,omitempty,email"`
}
