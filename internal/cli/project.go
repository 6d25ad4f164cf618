package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   `add "name"`,
			Short: "Create a project",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := newAPIClient().AddProject(strings.Join(args, " "))
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(out(cmd), p)
				}
				_, err = fmt.Fprintf(out(cmd), "Project %q created (%s).\n", p.Name, p.ID)
				return err
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List projects",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				projects, err := newAPIClient().ListProjects()
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(out(cmd), projects)
				}
				return printProjectTable(out(cmd), projects)
			},
		},
		&cobra.Command{
			Use:   "show <project>",
			Short: "Show a project with its members and tasks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				detail, err := newAPIClient().GetProject(args[0])
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(out(cmd), detail)
				}
				w := out(cmd)
				if _, err := fmt.Fprintf(w, "%s (%s)\n\nMembers:\n", detail.Project.Name, detail.Project.ID); err != nil {
					return err
				}
				if err := printMemberTable(w, detail.Members); err != nil {
					return err
				}
				if _, err := fmt.Fprintln(w, "\nTasks:"); err != nil {
					return err
				}
				return printTaskTable(w, detail.Tasks)
			},
		},
		&cobra.Command{
			Use:   "remove <project>",
			Short: "Remove a project with its members, tasks and comments",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := newAPIClient().DeleteProject(args[0]); err != nil {
					return err
				}
				return printRemoved(cmd, "Project", args[0])
			},
		},
	)

	return cmd
}

// printRemoved reports a successful delete.
func printRemoved(cmd *cobra.Command, kind, id string) error {
	if isJSON() {
		return printJSON(out(cmd), map[string]any{"id": id, "removed": true})
	}
	_, err := fmt.Fprintf(out(cmd), "%s %s removed.\n", kind, id)
	return err
}
