// Package cli defines the cobra command tree for threadline.
package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/threadline/internal/client"
)

var (
	flagFormat string
	flagServer string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tl",
		Short:         "Threaded comments with @mentions and #task links",
		Long:          "Discuss projects and tasks in threaded comments. Mention members with @username and link tasks with #title; references are resolved when a comment is saved.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagServer, "server", "", "API server URL (default: config or http://localhost:8080)")

	root.AddCommand(
		newProjectCmd(),
		newMemberCmd(),
		newTaskCmd(),
		newCommentCmd(),
		newCommentsCmd(),
		newEditCmd(),
		newDeleteCmd(),
		newSuggestCmd(),
		newServeCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)

	return root
}

// newAPIClient creates an HTTP client for the threadline API.
func newAPIClient() *client.Client {
	return client.New(getServerURL())
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// out returns the writer command output goes to.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
