package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	config "task-manager.com/task-manager/internal/configs"
	"task-manager.com/task-manager/internal/preferences"
)

var (
	prefsTheme       string
	prefsToggleTheme bool
	prefsFontSize    int
	prefsLarger      bool
	prefsSmaller     bool
	prefsColorScheme string
	prefsJSON        bool
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change display preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := preferences.Load(config.Load().PreferencesPath)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		var changes []func() (preferences.Preferences, error)
		if flags.Changed("theme") {
			changes = append(changes, func() (preferences.Preferences, error) { return store.ApplyTheme(prefsTheme) })
		}
		if prefsToggleTheme {
			changes = append(changes, store.ToggleTheme)
		}
		if flags.Changed("font-size") {
			changes = append(changes, func() (preferences.Preferences, error) { return store.ChangeFontSize(prefsFontSize) })
		}
		if prefsLarger {
			changes = append(changes, func() (preferences.Preferences, error) {
				return store.ChangeFontSize(store.Get().FontSize + preferences.FontStep)
			})
		}
		if prefsSmaller {
			changes = append(changes, func() (preferences.Preferences, error) {
				return store.ChangeFontSize(store.Get().FontSize - preferences.FontStep)
			})
		}
		if flags.Changed("color-scheme") {
			changes = append(changes, func() (preferences.Preferences, error) { return store.UpdateColorScheme(prefsColorScheme) })
		}

		for _, change := range changes {
			if _, err := change(); err != nil {
				return err
			}
		}

		p := store.Get()
		if prefsJSON {
			return writeJSON(cmd.OutOrStdout(), p)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "theme:        %s\n", p.Theme)
		fmt.Fprintf(out, "font size:    %d\n", p.FontSize)
		fmt.Fprintf(out, "color scheme: %s\n", p.ColorScheme)
		return nil
	},
}

func init() {
	prefsCmd.Flags().StringVar(&prefsTheme, "theme", "", "Light or Dark")
	prefsCmd.Flags().BoolVar(&prefsToggleTheme, "toggle-theme", false, "switch between Light and Dark")
	prefsCmd.Flags().IntVar(&prefsFontSize, "font-size", preferences.DefaultFontSize, "font size")
	prefsCmd.Flags().BoolVar(&prefsLarger, "larger", false, "increase the font size by one step")
	prefsCmd.Flags().BoolVar(&prefsSmaller, "smaller", false, "decrease the font size by one step")
	prefsCmd.Flags().StringVar(&prefsColorScheme, "color-scheme", "", "color scheme name")
	prefsCmd.Flags().BoolVar(&prefsJSON, "json", false, "print JSON")

	rootCmd.AddCommand(prefsCmd)
}
