package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"task-manager.com/task-manager/internal/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the task tools over MCP on stdio",
	Long: `Serve the task tools over MCP on stdio.

Tools: add_task, list_tasks, get_task, edit_task, complete_task, delete_task, task_stats.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		return server.ServeStdio(mcptools.NewServer(a.tasks).MCPServer())
	}),
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
