package mention

import (
	"strings"

	"github.com/evcraddock/threadline/internal/member"
	"github.com/evcraddock/threadline/internal/task"
)

// MaxSuggestions caps the number of autocomplete candidates.
const MaxSuggestions = 5

// TriggerKind is the reference character that opened an autocomplete.
type TriggerKind string

const (
	TriggerNone    TriggerKind = ""
	TriggerMention TriggerKind = "@"
	TriggerTask    TriggerKind = "#"
)

// Trigger describes the in-progress token at the caret. Start and End are
// rune offsets; Start points at the trigger character and End is the caret.
type Trigger struct {
	Kind  TriggerKind `json:"kind"`
	Query string      `json:"query"`
	Start int         `json:"start"`
	End   int         `json:"end"`
}

// Active reports whether the caret is inside a reference token.
func (t Trigger) Active() bool {
	return t.Kind != TriggerNone
}

// Candidate is an autocomplete suggestion. Label is what gets inserted after
// the trigger character: a username or a task title.
type Candidate struct {
	Kind   TriggerKind `json:"kind"`
	ID     string      `json:"id"`
	Label  string      `json:"label"`
	Detail string      `json:"detail,omitempty"`
}

// DetectTrigger finds the reference token ending at caret. caret is a rune
// offset into text and is clamped to the text length.
func DetectTrigger(text string, caret int) Trigger {
	runes := []rune(text)
	caret = clamp(caret, len(runes))

	start := wordStart(runes, caret)
	if start == 0 {
		return Trigger{Start: caret, End: caret}
	}

	var kind TriggerKind
	switch runes[start-1] {
	case mentionPrefix:
		kind = TriggerMention
	case taskPrefix:
		kind = TriggerTask
	default:
		return Trigger{Start: caret, End: caret}
	}

	return Trigger{
		Kind:  kind,
		Query: string(runes[start:caret]),
		Start: start - 1,
		End:   caret,
	}
}

// Suggest returns up to MaxSuggestions candidates for a partial query, in
// the order the members or tasks were given.
func Suggest(kind TriggerKind, query string, members []*member.Member, tasks []*task.Task) []Candidate {
	needle := strings.ToLower(query)
	candidates := []Candidate{}

	switch kind {
	case TriggerMention:
		for _, m := range members {
			if len(candidates) == MaxSuggestions {
				break
			}
			if strings.Contains(strings.ToLower(m.Username), needle) ||
				strings.Contains(strings.ToLower(m.DisplayName), needle) {
				candidates = append(candidates, Candidate{
					Kind:   TriggerMention,
					ID:     m.ID,
					Label:  m.Username,
					Detail: m.DisplayName,
				})
			}
		}
	case TriggerTask:
		for _, t := range tasks {
			if len(candidates) == MaxSuggestions {
				break
			}
			if strings.Contains(strings.ToLower(t.Title), needle) {
				candidates = append(candidates, Candidate{
					Kind:   TriggerTask,
					ID:     t.ID,
					Label:  t.Title,
					Detail: string(t.Status),
				})
			}
		}
	}

	return candidates
}

// Apply replaces the in-progress token at caret with the chosen candidate
// followed by a space, and returns the new text and caret. If no token is
// active at caret the text is returned unchanged.
func Apply(text string, caret int, c Candidate) (string, int) {
	trig := DetectTrigger(text, caret)
	if !trig.Active() {
		return text, trig.End
	}

	runes := []rune(text)
	insert := []rune(string(trig.Kind) + c.Label + " ")

	out := make([]rune, 0, len(runes)-(trig.End-trig.Start)+len(insert))
	out = append(out, runes[:trig.Start]...)
	out = append(out, insert...)
	out = append(out, runes[trig.End:]...)

	return string(out), trig.Start + len(insert)
}
