package cli

import (
	"strings"
	"testing"
)

func TestArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"project add without name", []string{"project", "add"}},
		{"project remove without id", []string{"project", "remove"}},
		{"member add missing username", []string{"member", "add", "p1"}},
		{"task add missing title", []string{"task", "add", "p1"}},
		{"task status missing status", []string{"task", "status", "t1"}},
		{"comment without text", []string{"comment", "p1"}},
		{"comments without project", []string{"comments"}},
		{"edit without text", []string{"edit", "c1"}},
		{"delete extra args", []string{"delete", "c1", "c2"}},
		{"suggest without text", []string{"suggest", "p1"}},
		{"config set missing value", []string{"config", "set", "server_url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Point at a closed port so a bug in arg checking fails fast
			// instead of reaching a real server.
			args := append([]string{"--server", "http://127.0.0.1:1"}, tt.args...)
			_, err := executeCommand(args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "arg") {
				t.Errorf("err = %v, want an argument count error", err)
			}
		})
	}
}

func TestTaskStatusRejectsUnknownStatus(t *testing.T) {
	_, err := executeCommand("--server", "http://127.0.0.1:1", "task", "status", "t1", "blocked")
	if err == nil || !strings.Contains(err.Error(), "invalid status") {
		t.Fatalf("err = %v, want invalid status", err)
	}
}

func TestCommentRejectsBlankText(t *testing.T) {
	_, err := executeCommand("--server", "http://127.0.0.1:1", "comment", "p1", "  ")
	if err == nil || !strings.Contains(err.Error(), "required") {
		t.Fatalf("err = %v, want text required", err)
	}
}

func TestConfigSetUnknownKey(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := executeCommand("config", "set", "api_key", "x")
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Fatalf("err = %v, want unknown key", err)
	}
}
