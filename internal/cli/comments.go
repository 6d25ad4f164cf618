package cli

import (
	"github.com/spf13/cobra"
)

func newCommentsCmd() *cobra.Command {
	var taskID string

	cmd := &cobra.Command{
		Use:   "comments <project>",
		Short: "Show a comment thread",
		Long:  "Show a project's comment thread, or a task's with --task, with replies indented under their parents.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newAPIClient()

			tree, err := c.Thread(args[0], taskID)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(out(cmd), tree)
			}

			members, err := c.ListMembers(args[0])
			if err != nil {
				return err
			}
			names := make(map[string]string, len(members))
			for _, m := range members {
				names[m.ID] = m.Username
			}
			return printTree(out(cmd), tree, names)
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "show a task thread instead of the project thread")

	return cmd
}
