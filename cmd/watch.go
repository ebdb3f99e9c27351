package cmd

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print deadline reminders until interrupted",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reminders, err := startReminders(ctx, a)
		if err != nil {
			return err
		}

		<-ctx.Done()
		reminders.Stop()
		log.Println("reminder scheduler stopped")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
