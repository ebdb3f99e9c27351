package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
	"task-manager.com/task-manager/internal/ui"
)

var (
	addDescription string
	addDeadline    string
	addPriority    string

	listPriority string
	listDate     string
	listStatus   string
	listSort     string
	listJSON     bool

	editTitle       string
	editDescription string
	editDeadline    string
	editPriority    string
	editStatus      string

	clearYes  bool
	statsJSON bool
	showJSON  bool
)

var addCmd = &cobra.Command{
	Use:   "add TITLE",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		deadline, err := services.ParseDeadline(addDeadline)
		if err != nil {
			return err
		}
		input := services.TaskInput{
			Title:       args[0],
			Description: addDescription,
			Deadline:    deadline,
		}
		if addPriority != "" {
			if input.Priority, err = services.ParsePriority(addPriority); err != nil {
				return err
			}
		}

		added, err := a.tasks.CreateTask(cmd.Context(), input)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added task %d: %s\n", added.ID, added.Title)
		return nil
	}),
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		var (
			filter = services.ListFilter{Sort: strings.ToLower(strings.TrimSpace(listSort))}
			err    error
		)
		if listPriority != "" {
			if filter.Priority, err = services.ParsePriority(listPriority); err != nil {
				return err
			}
		}
		if listStatus != "" {
			if filter.Status, err = services.ParseStatus(listStatus); err != nil {
				return err
			}
		}
		if listDate != "" {
			if filter.Date, err = services.ParseDeadline(listDate); err != nil {
				return err
			}
		}

		tasks, err := a.tasks.ListTasks(cmd.Context(), filter)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if listJSON {
			if tasks == nil {
				tasks = []model.Task{}
			}
			return writeJSON(out, tasks)
		}
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}
		fmt.Fprint(out, ui.TaskTable(tasks, a.theme()))
		return nil
	}),
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one task",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		task, err := findTask(cmd, a, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if showJSON {
			return writeJSON(out, task)
		}

		theme := a.theme()
		deadline := task.DeadlineText()
		if deadline == "" {
			deadline = "none"
		}
		fmt.Fprintf(out, "%s %s\n", theme.Header.Render(fmt.Sprintf("#%d", task.ID)), task.Title)
		fmt.Fprintf(out, "Deadline: %s\n", deadline)
		fmt.Fprintf(out, "Priority: %s\n", theme.Priority(task.Priority).Render(string(task.Priority)))
		fmt.Fprintf(out, "Status:   %s\n", task.Status)
		if desc := ui.RenderMarkdown(ui.MarkdownStyle(out, theme), 80, task.Description); desc != "" {
			fmt.Fprintf(out, "\n%s\n", desc)
		}
		return nil
	}),
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of a task",
	Long:  "Change fields of a task. Only the flags given are updated; --deadline '' clears the deadline.",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		task, err := findTask(cmd, a, args[0])
		if err != nil {
			return err
		}

		patch := make(map[string]any)
		flags := cmd.Flags()
		for flag, field := range map[string]struct {
			key   string
			value *string
		}{
			"title":       {repository.FieldTitle, &editTitle},
			"description": {repository.FieldDescription, &editDescription},
			"deadline":    {repository.FieldDeadline, &editDeadline},
			"priority":    {repository.FieldPriority, &editPriority},
			"status":      {repository.FieldStatus, &editStatus},
		} {
			if flags.Changed(flag) {
				patch[field.key] = *field.value
			}
		}
		if len(patch) == 0 {
			return fmt.Errorf("%w: nothing to change, pass at least one flag", apperrors.ErrValidation)
		}

		if err := a.tasks.EditTask(cmd.Context(), task.ID, patch); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d.\n", task.ID)
		return nil
	}),
}

var doneCmd = &cobra.Command{
	Use:     "done ID",
	Aliases: []string{"complete"},
	Short:   "Mark a task as completed",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		task, err := findTask(cmd, a, args[0])
		if err != nil {
			return err
		}
		if err := a.tasks.MarkComplete(cmd.Context(), task.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Completed task %d: %s\n", task.ID, task.Title)
		return nil
	}),
}

var deleteCmd = &cobra.Command{
	Use:     "delete ID",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := a.tasks.DeleteTask(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d.\n", id)
		return nil
	}),
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every task",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		if !clearYes {
			return fmt.Errorf("%w: refusing to delete every task without --yes", apperrors.ErrValidation)
		}
		if err := a.tasks.ClearAllTasks(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All tasks deleted.")
		return nil
	}),
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task counts per priority",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		stats, err := a.tasks.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if statsJSON {
			return writeJSON(cmd.OutOrStdout(), stats)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.StatsTable(stats, a.theme()))
		return nil
	}),
}

func findTask(cmd *cobra.Command, a *app, arg string) (model.Task, error) {
	id, err := parseID(arg)
	if err != nil {
		return model.Task{}, err
	}
	task, found, err := a.tasks.GetTaskByID(cmd.Context(), id)
	if err != nil {
		return model.Task{}, err
	}
	if !found {
		return model.Task{}, notFound(id)
	}
	return task, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description (markdown)")
	addCmd.Flags().StringVar(&addDeadline, "deadline", "", "deadline as YYYY-MM-DD")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "High, Medium or Low (default Low)")

	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "only tasks with this priority")
	listCmd.Flags().StringVar(&listDate, "date", "", "only tasks due on this day (YYYY-MM-DD)")
	listCmd.Flags().StringVar(&listStatus, "status", "", "only Pending or Completed tasks")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort by priority or date")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")

	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "new description")
	editCmd.Flags().StringVar(&editDeadline, "deadline", "", "new deadline as YYYY-MM-DD, empty to clear")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "new priority")
	editCmd.Flags().StringVar(&editStatus, "status", "", "new status")

	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm deleting every task")

	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "print JSON")

	rootCmd.AddCommand(addCmd, listCmd, showCmd, editCmd, doneCmd, deleteCmd, clearCmd, statsCmd)
}
