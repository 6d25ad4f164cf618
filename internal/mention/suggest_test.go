package mention

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/evcraddock/threadline/internal/member"
)

func TestDetectTrigger(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		caret int
		want  Trigger
	}{
		{"partial mention", "hi @al", 6, Trigger{Kind: TriggerMention, Query: "al", Start: 3, End: 6}},
		{"bare at sign", "hi @", 4, Trigger{Kind: TriggerMention, Query: "", Start: 3, End: 4}},
		{"partial task", "see #set", 8, Trigger{Kind: TriggerTask, Query: "set", Start: 4, End: 8}},
		{"caret mid-token", "hi @alice", 6, Trigger{Kind: TriggerMention, Query: "al", Start: 3, End: 6}},
		{"plain word", "hello", 5, Trigger{Start: 5, End: 5}},
		{"whitespace before caret", "hi @al ", 7, Trigger{Start: 7, End: 7}},
		{"empty text", "", 0, Trigger{}},
		{"caret past end is clamped", "hi @al", 99, Trigger{Kind: TriggerMention, Query: "al", Start: 3, End: 6}},
		{"negative caret is clamped", "@al", -4, Trigger{Start: 0, End: 0}},
		{"rune offsets", "é @zo", 5, Trigger{Kind: TriggerMention, Query: "zo", Start: 2, End: 5}},
		{"punctuation breaks token", "@al.x", 5, Trigger{Start: 5, End: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectTrigger(tt.text, tt.caret)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DetectTrigger(%q, %d) mismatch (-want +got):\n%s", tt.text, tt.caret, diff)
			}
		})
	}
}

func TestSuggestMembers(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"username substring", "al", []string{"u1"}},
		{"display name substring", "baker", []string{"u2"}},
		{"case-insensitive", "CAROL", []string{"u3"}},
		{"empty query matches all", "", []string{"u1", "u2", "u3"}},
		{"no match", "zed", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(TriggerMention, tt.query, testMembers(), testTasks())
			ids := []string{}
			for _, c := range got {
				ids = append(ids, c.ID)
				if c.Kind != TriggerMention {
					t.Errorf("candidate kind = %q, want %q", c.Kind, TriggerMention)
				}
			}
			if diff := cmp.Diff(tt.want, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSuggestTasks(t *testing.T) {
	got := Suggest(TriggerTask, "ci", testMembers(), testTasks())

	want := []Candidate{
		{Kind: TriggerTask, ID: "t1", Label: "Setup CI", Detail: "todo"},
		{Kind: TriggerTask, ID: "t3", Label: "CI cache warmup", Detail: "done"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestTruncatesInOrder(t *testing.T) {
	var members []*member.Member
	for i := 0; i < 10; i++ {
		members = append(members, &member.Member{
			ID:       fmt.Sprintf("u%d", i),
			Username: fmt.Sprintf("user%d", i),
		})
	}

	got := Suggest(TriggerMention, "", members, nil)
	if len(got) != MaxSuggestions {
		t.Fatalf("got %d candidates, want %d", len(got), MaxSuggestions)
	}
	for i, c := range got {
		if want := fmt.Sprintf("u%d", i); c.ID != want {
			t.Errorf("candidate %d = %q, want %q", i, c.ID, want)
		}
	}
}

func TestSuggestNoTrigger(t *testing.T) {
	got := Suggest(TriggerNone, "al", testMembers(), testTasks())
	if len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestApply(t *testing.T) {
	alice := Candidate{Kind: TriggerMention, ID: "u1", Label: "alice"}
	setup := Candidate{Kind: TriggerTask, ID: "t1", Label: "Setup CI"}

	tests := []struct {
		name      string
		text      string
		caret     int
		candidate Candidate
		wantText  string
		wantCaret int
	}{
		{"mention at end", "hi @al", 6, alice, "hi @alice ", 10},
		{"mention in middle keeps the rest", "hi @al, thanks", 6, alice, "hi @alice , thanks", 10},
		{"bare trigger", "@", 1, alice, "@alice ", 7},
		{"task title with spaces", "see #set", 8, setup, "see #Setup CI ", 14},
		{"no active trigger leaves text unchanged", "hello", 5, alice, "hello", 5},
		{"out-of-range caret is clamped", "hi @al", 50, alice, "hi @alice ", 10},
		{"rune offsets", "ça @al", 6, alice, "ça @alice ", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotCaret := Apply(tt.text, tt.caret, tt.candidate)
			if gotText != tt.wantText {
				t.Errorf("text = %q, want %q", gotText, tt.wantText)
			}
			if gotCaret != tt.wantCaret {
				t.Errorf("caret = %d, want %d", gotCaret, tt.wantCaret)
			}
		})
	}
}

func TestApplyThenParse(t *testing.T) {
	text, caret := Apply("thanks @al", 10, Candidate{Kind: TriggerMention, ID: "u1", Label: "alice"})
	if caret != len([]rune(text)) {
		t.Errorf("caret = %d, want end of text %d", caret, len([]rune(text)))
	}

	got := Parse(text, testMembers(), testTasks())
	if diff := cmp.Diff([]string{"u1"}, got.Mentions); diff != "" {
		t.Errorf("mentions mismatch (-want +got):\n%s", diff)
	}
}
