package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMemberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage project members",
	}

	var displayName string
	add := &cobra.Command{
		Use:   "add <project> <username>",
		Short: "Add a member who can be @mentioned",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newAPIClient().AddMember(args[0], args[1], displayName)
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(out(cmd), m)
			}
			_, err = fmt.Fprintf(out(cmd), "Member @%s added (%s).\n", m.Username, m.ID)
			return err
		},
	}
	add.Flags().StringVar(&displayName, "name", "", "display name (default: username)")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "list <project>",
			Short: "List a project's members",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				members, err := newAPIClient().ListMembers(args[0])
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(out(cmd), members)
				}
				return printMemberTable(out(cmd), members)
			},
		},
		&cobra.Command{
			Use:   "remove <member>",
			Short: "Remove a member",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := newAPIClient().DeleteMember(args[0]); err != nil {
					return err
				}
				return printRemoved(cmd, "Member", args[0])
			},
		},
	)

	return cmd
}
