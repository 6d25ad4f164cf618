package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/threadline/internal/task"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage project tasks",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   `add <project> "title"`,
			Short: "Create a task that can be #linked",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := newAPIClient().AddTask(args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(out(cmd), t)
				}
				_, err = fmt.Fprintf(out(cmd), "Task %q added (%s).\n", t.Title, t.ID)
				return err
			},
		},
		&cobra.Command{
			Use:   "list <project>",
			Short: "List a project's tasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tasks, err := newAPIClient().ListTasks(args[0])
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(out(cmd), tasks)
				}
				return printTaskTable(out(cmd), tasks)
			},
		},
		&cobra.Command{
			Use:   "status <task> <todo|in_progress|done>",
			Short: "Set a task's status",
			Args:  cobra.ExactArgs(2),
			RunE:  runTaskStatus,
		},
	)

	return cmd
}

func runTaskStatus(cmd *cobra.Command, args []string) error {
	status := task.Status(args[1])
	if !status.IsValid() {
		return fmt.Errorf("invalid status %q (valid: todo, in_progress, done)", args[1])
	}

	t, err := newAPIClient().SetTaskStatus(args[0], status)
	if err != nil {
		return err
	}
	if isJSON() {
		return printJSON(out(cmd), t)
	}
	_, err = fmt.Fprintf(out(cmd), "Task %q is now %s.\n", t.Title, t.Status.Label())
	return err
}
