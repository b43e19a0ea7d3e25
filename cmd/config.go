package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chattyhq/chatty/types"
)

const (
	configName = ".chatty"
	envPrefix  = "CHATTY"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single validator instance; it caches struct info.
var validate = validator.New()

// GetConfig returns the loaded application configuration.
func GetConfig() types.AppConfig {
	return GlobalAppConfig
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// Load .env file first if present. Missing is fine.
	_ = godotenv.Load()

	// Environment variable handling must be set up before reading the
	// config file so env vars can influence config loading.
	viper.SetEnvPrefix(envPrefix) // e.g. CHATTY_VERBOSE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfgFileFlag := viper.GetString("config")

	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		// Prefer a project-local .chatty directory, then fall back to
		// the home directory and the current directory.
		if _, err := os.Stat(configName); !os.IsNotExist(err) {
			viper.AddConfigPath(configName) // ./.chatty/.chatty.yaml
		} else {
			home, err := os.UserHomeDir()
			cobra.CheckErr(err)
			viper.AddConfigPath(home) // $HOME/.chatty.yaml
			viper.AddConfigPath(".")  // ./.chatty.yaml
		}
		viper.SetConfigName(configName)
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFileFlag != "" {
				fmt.Fprintln(os.Stderr, "Error: Specified config file not found:", cfgFileFlag)
			} else if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		} else {
			fmt.Fprintln(os.Stderr, "Error reading config file:", viper.ConfigFileUsed(), "-", err)
		}
	}

	viper.SetDefault("data.dir", ".chatty")
	viper.SetDefault("data.file", "tasks.json")
	viper.SetDefault("data.format", "json")
	viper.SetDefault("data.journalFile", "journal.db")
	viper.SetDefault("data.watch", true)

	viper.SetDefault("ui.maxResponseLines", 10)
	viper.SetDefault("ui.personality", "cheerful")

	viper.SetDefault("scheduler.checkInterval", time.Second)

	viper.SetDefault("blog.enabled", false)
	viper.SetDefault("blog.interval", time.Hour)
	viper.SetDefault("blog.endpoint", "http://localhost:11434/v1")
	viper.SetDefault("blog.model", "llama3")
	viper.SetDefault("blog.apiKey", "ollama")
	viper.SetDefault("blog.timeout", 30*time.Second)

	viper.SetDefault("email.enabled", false)
	viper.SetDefault("email.port", 587)

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error unmarshaling config: %s\n", err)
		os.Exit(1)
	}

	if err := validate.Struct(&GlobalAppConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Error validating config: %s\n", err)
		os.Exit(1)
	}
}
