package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chattyhq/chatty/internal/app"
)

var journalLimit int

// journalCmd lists recent background events: fired alerts and blog
// dispatches that happened while the user was away.
var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent alerts and blog dispatches",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(GetConfig())
		if err != nil {
			return err
		}
		events, err := a.RecentEvents(journalLimit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("Nothing in the journal yet.")
			return nil
		}
		for _, e := range events {
			fmt.Printf("%s  %-5s  %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Kind, e.Detail)
		}
		return nil
	},
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of events to show")
	rootCmd.AddCommand(journalCmd)
}
