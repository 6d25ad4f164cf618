package mention

import (
	"strings"

	"github.com/evcraddock/threadline/internal/member"
	"github.com/evcraddock/threadline/internal/task"
)

// SegmentKind identifies what a segment of annotated content refers to.
type SegmentKind string

const (
	SegmentText    SegmentKind = "text"
	SegmentMention SegmentKind = "mention"
	SegmentTask    SegmentKind = "task"
)

// Segment is a contiguous run of comment content. RefID holds the member ID
// for mentions and the task ID for task links.
type Segment struct {
	Kind  SegmentKind `json:"kind"`
	Text  string      `json:"text"`
	RefID string      `json:"ref_id,omitempty"`
}

// Annotated is comment content split into plain text and resolved references.
type Annotated []Segment

// String reassembles the original content.
func (a Annotated) String() string {
	var b strings.Builder
	for _, s := range a {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Result is the outcome of parsing comment content.
type Result struct {
	// Mentions holds distinct member IDs in order of first appearance.
	Mentions []string `json:"mentions"`
	// LinkedTasks holds distinct task IDs in order of first appearance.
	LinkedTasks []string  `json:"linked_tasks"`
	Annotated   Annotated `json:"annotated"`
}

// Parse scans content for @username and #task tokens and resolves them.
//
// A mention resolves when its token equals a member's username exactly.
// A task token resolves to the first task whose title contains the token
// (case-insensitive) or whose ID equals it. Tokens that do not resolve stay
// plain text.
func Parse(content string, members []*member.Member, tasks []*task.Task) Result {
	res := Result{Mentions: []string{}, LinkedTasks: []string{}, Annotated: Annotated{}}
	if strings.TrimSpace(content) == "" {
		if content != "" {
			res.Annotated = append(res.Annotated, Segment{Kind: SegmentText, Text: content})
		}
		return res
	}

	usernames := make(map[string]string, len(members))
	for _, m := range members {
		if _, ok := usernames[m.Username]; !ok {
			usernames[m.Username] = m.ID
		}
	}

	seenMembers := make(map[string]bool)
	seenTasks := make(map[string]bool)

	runes := []rune(content)
	textStart := 0
	for i := 0; i < len(runes); {
		prefix := runes[i]
		if prefix != mentionPrefix && prefix != taskPrefix {
			i++
			continue
		}

		end := wordEnd(runes, i+1)
		if end == i+1 {
			i++
			continue
		}
		token := string(runes[i+1 : end])

		var seg Segment
		if prefix == mentionPrefix {
			seg = Segment{Kind: SegmentMention, RefID: usernames[token]}
		} else {
			seg = Segment{Kind: SegmentTask, RefID: matchTask(token, tasks)}
		}
		if seg.RefID == "" {
			i = end
			continue
		}

		if textStart < i {
			res.Annotated = append(res.Annotated, Segment{Kind: SegmentText, Text: string(runes[textStart:i])})
		}
		seg.Text = string(runes[i:end])
		res.Annotated = append(res.Annotated, seg)

		if seg.Kind == SegmentMention {
			if !seenMembers[seg.RefID] {
				seenMembers[seg.RefID] = true
				res.Mentions = append(res.Mentions, seg.RefID)
			}
		} else if !seenTasks[seg.RefID] {
			seenTasks[seg.RefID] = true
			res.LinkedTasks = append(res.LinkedTasks, seg.RefID)
		}

		textStart = end
		i = end
	}

	if textStart < len(runes) {
		res.Annotated = append(res.Annotated, Segment{Kind: SegmentText, Text: string(runes[textStart:])})
	}

	return res
}

// matchTask returns the ID of the first task the token refers to, or "".
func matchTask(token string, tasks []*task.Task) string {
	needle := strings.ToLower(token)
	for _, t := range tasks {
		if t.ID == token || strings.Contains(strings.ToLower(t.Title), needle) {
			return t.ID
		}
	}
	return ""
}
