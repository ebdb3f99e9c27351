package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	config "task-manager.com/task-manager/internal/configs"
	apperrors "task-manager.com/task-manager/internal/errors"
	"task-manager.com/task-manager/internal/preferences"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
	"task-manager.com/task-manager/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:           "tasks",
	Short:         "Local task manager with deadline reminders",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf(".env file could not be read: %v", err)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app is what every command that touches tasks needs.
type app struct {
	cfg      config.Config
	database *config.Database
	tasks    *services.TaskService
	prefs    *preferences.Store
}

func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	database, err := config.OpenDatabase(cfg.DatabaseDSN, cfg.DatabaseMaxOpenConns)
	if err != nil {
		return nil, err
	}

	repo := repository.NewTaskRepository(database.DB())
	if err := repo.CreateTable(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}

	prefs, err := preferences.Load(cfg.PreferencesPath)
	if err != nil {
		_ = database.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		database: database,
		tasks:    services.NewTaskService(repo),
		prefs:    prefs,
	}, nil
}

func (a *app) Close() {
	if err := a.database.Close(); err != nil {
		log.Printf("failed to close database: %v", err)
	}
}

func (a *app) theme() ui.Theme {
	return ui.NewTheme(a.prefs.Get())
}

// withApp opens the app for the duration of run.
func withApp(run func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, args, a)
	}
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: got %q", apperrors.ErrInvalidTaskID, arg)
	}
	return uint(id), nil
}

func notFound(id uint) error {
	return fmt.Errorf("%w: %d", apperrors.ErrTaskNotFound, id)
}
