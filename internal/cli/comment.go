package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/evcraddock/threadline/internal/client"
)

func newCommentCmd() *cobra.Command {
	var taskID, replyTo, author string

	cmd := &cobra.Command{
		Use:   `comment <project> "text"`,
		Short: "Post a comment",
		Long:  "Post a comment on a project, or on one of its tasks with --task. Use @username to mention members and #title to link tasks.",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("comment text is required")
			}
			if author == "" {
				author = getAuthorID()
			}

			c, err := newAPIClient().AddComment(args[0], taskID, client.CommentInput{
				Content:  text,
				ParentID: replyTo,
				AuthorID: author,
			})
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(out(cmd), c)
			}
			return printCommentSingle(out(cmd), "added", c)
		},
	}

	cmd.Flags().StringVar(&taskID, "task", "", "post on a task thread instead of the project thread")
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "ID of the comment to reply to")
	cmd.Flags().StringVar(&author, "author", "", "member ID of the author (default: TL_AUTHOR_ID or config author_id)")

	return cmd
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `edit <comment> "text"`,
		Short: "Replace a comment's text",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newAPIClient().EditComment(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(out(cmd), c)
			}
			return printCommentSingle(out(cmd), "updated", c)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <comment>",
		Short: "Delete a comment (replies are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newAPIClient().DeleteComment(args[0]); err != nil {
				return err
			}
			return printRemoved(cmd, "Comment", args[0])
		},
	}
}
