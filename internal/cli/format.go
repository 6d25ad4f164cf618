package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/evcraddock/threadline/internal/comment"
	"github.com/evcraddock/threadline/internal/member"
	"github.com/evcraddock/threadline/internal/mention"
	"github.com/evcraddock/threadline/internal/project"
	"github.com/evcraddock/threadline/internal/task"
)

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows through a tabwriter. The first row is the header.
func table(w io.Writer, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
		if i == 0 {
			sep := make([]string, len(row))
			for j, h := range row {
				sep[j] = strings.Repeat("-", len(h))
			}
			if _, err := fmt.Fprintln(tw, strings.Join(sep, "\t")); err != nil {
				return fmt.Errorf("writing table separator: %w", err)
			}
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}
	return nil
}

// printProjectTable prints projects as a table.
func printProjectTable(w io.Writer, projects []*project.Project) error {
	if len(projects) == 0 {
		_, err := fmt.Fprintln(w, "No projects found.")
		return err
	}
	rows := [][]string{{"ID", "NAME", "CREATED"}}
	for _, p := range projects {
		rows = append(rows, []string{p.ID, truncate(p.Name, 40), p.CreatedAt.Format("2006-01-02")})
	}
	return table(w, rows)
}

// printMemberTable prints a project roster as a table.
func printMemberTable(w io.Writer, members []*member.Member) error {
	if len(members) == 0 {
		_, err := fmt.Fprintln(w, "No members.")
		return err
	}
	rows := [][]string{{"ID", "USERNAME", "NAME"}}
	for _, m := range members {
		rows = append(rows, []string{m.ID, "@" + m.Username, m.DisplayName})
	}
	return table(w, rows)
}

// printTaskTable prints tasks as a table.
func printTaskTable(w io.Writer, tasks []*task.Task) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	rows := [][]string{{"ID", "STATUS", "TITLE"}}
	for _, t := range tasks {
		rows = append(rows, []string{t.ID, t.Status.Label(), truncate(t.Title, 60)})
	}
	return table(w, rows)
}

// printTree prints a comment thread, indenting replies two spaces per level.
// names maps member IDs to usernames for display.
func printTree(w io.Writer, nodes []*comment.Node, names map[string]string) error {
	if len(nodes) == 0 {
		_, err := fmt.Fprintln(w, "No comments.")
		return err
	}
	for _, n := range nodes {
		if err := printNode(w, n, names, 0); err != nil {
			return err
		}
	}
	return nil
}

func printNode(w io.Writer, n *comment.Node, names map[string]string, depth int) error {
	indent := strings.Repeat("  ", depth)

	author := "anonymous"
	if n.AuthorID != "" {
		author = names[n.AuthorID]
		if author == "" {
			author = shortID(n.AuthorID)
		} else {
			author = "@" + author
		}
	}

	header := fmt.Sprintf("%s[%s] %s (%s)", indent, n.CreatedAt.Format("2006-01-02 15:04"), author, shortID(n.ID))
	if n.IsEdited && !n.IsDeleted {
		header += " (edited)"
	}
	body := n.Content
	if n.IsDeleted {
		body = "[deleted]"
	}

	if _, err := fmt.Fprintf(w, "%s\n%s  %s\n", header, indent, body); err != nil {
		return err
	}
	for _, r := range n.Replies {
		if err := printNode(w, r, names, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// printCommentSingle prints a saved comment and the references it resolved.
func printCommentSingle(w io.Writer, verb string, c *comment.Comment) error {
	if _, err := fmt.Fprintf(w, "Comment %s %s.\n  %s\n", shortID(c.ID), verb, c.Content); err != nil {
		return err
	}
	if len(c.Mentions) > 0 {
		if _, err := fmt.Fprintf(w, "  Mentions:     %d\n", len(c.Mentions)); err != nil {
			return err
		}
	}
	if len(c.LinkedTasks) > 0 {
		if _, err := fmt.Fprintf(w, "  Linked tasks: %d\n", len(c.LinkedTasks)); err != nil {
			return err
		}
	}
	return nil
}

// printSuggestions prints numbered autocomplete candidates.
func printSuggestions(w io.Writer, s *comment.Suggestions) error {
	if !s.Trigger.Active() {
		_, err := fmt.Fprintln(w, "No reference at caret.")
		return err
	}
	if len(s.Candidates) == 0 {
		_, err := fmt.Fprintf(w, "No matches for %s%s.\n", s.Trigger.Kind, s.Trigger.Query)
		return err
	}
	for i, c := range s.Candidates {
		line := fmt.Sprintf("%d. %s", i+1, candidateLabel(c))
		if c.Detail != "" {
			line += "  (" + c.Detail + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// candidateLabel renders a candidate the way it would be inserted.
func candidateLabel(c mention.Candidate) string {
	return string(c.Kind) + c.Label
}

// shortID returns the first eight characters of an ID.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
