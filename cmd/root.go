package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chattyhq/chatty/internal/app"
	"github.com/chattyhq/chatty/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// verbose enables verbose output.
	verbose bool
	// once runs a single command headlessly instead of opening the window.
	once string
	// version is the application version.
	version = "0.3.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatty",
	Short: "chatty is a keyboard-driven desktop reminder assistant.",
	Long: `chatty keeps your tasks, reminds you when scheduled ones come due, and
learns which suggestions you like. Run it bare to open the assistant
window, or pass --once "command" to apply one command and exit.

Commands the assistant understands include 'hello', 'add task:desc',
'schedule task:desc at HH:MM', 'schedule recurring:desc at HH:MM',
'complete task:TIME_OR_DESC', 'list tasks', 'review completed',
'clear tasks', and 'exit'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		app.InitLogging(cfg.Verbose)
		logger.SetBasePath(cfg.Data.Dir)
		logger.SetVersion(version)
		logger.SetCommand("run")

		a, err := app.New(cfg)
		if err != nil {
			return err
		}
		if once != "" {
			return a.RunOnce(once)
		}
		return a.Run()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.chatty/.chatty.yaml, $HOME/.chatty.yaml, or ./.chatty.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().StringVar(&once, "once", "", "apply a single assistant command and exit")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}
