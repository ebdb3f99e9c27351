package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	httpapi "task-manager.com/task-manager/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task HTTP API together with the deadline reminder scheduler",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reminders, err := startReminders(ctx, a)
		if err != nil {
			return err
		}

		e := echo.New()
		e.HideBanner = true
		handler := httpapi.NewHandler(a.tasks, a.prefs, reminders.scheduler, reminders.bus)
		httpapi.Register(e, handler, a.cfg.RateLimit)

		serverErr := make(chan error, 1)
		go func() {
			log.Printf("HTTP server listening on %s", a.cfg.AppURL)
			if err := e.Start(a.cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		select {
		case <-ctx.Done():
		case err = <-serverErr:
			log.Printf("server stopped: %v", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout())
		defer cancel()

		// the bus closes first so open reminder streams end and Shutdown can finish
		reminders.Stop()
		if shutdownErr := e.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Printf("server shutdown: %v", shutdownErr)
		}

		log.Println("HTTP server and reminder scheduler shut down gracefully")
		return err
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
