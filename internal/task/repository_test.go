package task

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/evcraddock/threadline/internal/db"
	"github.com/evcraddock/threadline/internal/project"
)

func TestAddAndGet(t *testing.T) {
	repo, projID := testSetup(t)

	tk, err := repo.Add(projID, "  Setup CI  ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if tk.ID == "" {
		t.Error("expected generated ID")
	}
	if tk.Title != "Setup CI" {
		t.Errorf("title = %q, want trimmed %q", tk.Title, "Setup CI")
	}
	if tk.Status != Todo {
		t.Errorf("status = %q, want %q", tk.Status, Todo)
	}

	got, err := repo.GetByID(tk.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ProjectID != projID {
		t.Errorf("project_id = %q, want %q", got.ProjectID, projID)
	}
}

func TestAddEmptyTitle(t *testing.T) {
	repo, projID := testSetup(t)

	if _, err := repo.Add(projID, "   "); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestAddUnknownProject(t *testing.T) {
	repo, _ := testSetup(t)

	if _, err := repo.Add("no-such-project", "Orphan"); err == nil {
		t.Fatal("expected foreign key error")
	}
}

func TestGetNotFound(t *testing.T) {
	repo, _ := testSetup(t)

	_, err := repo.GetByID("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListByProjectOrder(t *testing.T) {
	repo, projID := testSetup(t)

	titles := []string{"Write docs", "Setup CI", "Release"}
	for _, title := range titles {
		if _, err := repo.Add(projID, title); err != nil {
			t.Fatalf("add %q: %v", title, err)
		}
	}

	tasks, err := repo.ListByProject(projID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != len(titles) {
		t.Fatalf("got %d tasks, want %d", len(tasks), len(titles))
	}
	for i, title := range titles {
		if tasks[i].Title != title {
			t.Errorf("tasks[%d] = %q, want %q", i, tasks[i].Title, title)
		}
	}
}

func TestListByProjectEmpty(t *testing.T) {
	repo, projID := testSetup(t)

	tasks, err := repo.ListByProject(projID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("got %#v, want empty slice", tasks)
	}
}

func TestSetStatus(t *testing.T) {
	repo, projID := testSetup(t)

	tk, err := repo.Add(projID, "Setup CI")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := repo.SetStatus(tk.ID, InProgress); err != nil {
		t.Fatalf("set status: %v", err)
	}

	got, err := repo.GetByID(tk.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != InProgress {
		t.Errorf("status = %q, want %q", got.Status, InProgress)
	}
}

func TestSetStatusErrors(t *testing.T) {
	repo, projID := testSetup(t)

	tk, err := repo.Add(projID, "Setup CI")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := repo.SetStatus(tk.ID, "blocked"); err == nil {
		t.Error("expected error for invalid status")
	}
	if err := repo.SetStatus("missing", Done); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Todo, "To do"},
		{InProgress, "In progress"},
		{Done, "Done"},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func testSetup(t *testing.T) (*Repository, string) {
	t.Helper()
	d := openTestDB(t)

	p, err := project.NewRepository(d).Add("Test Project")
	if err != nil {
		t.Fatalf("add project: %v", err)
	}

	return NewRepository(d), p.ID
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close db: %v", err)
		}
	})
	return d
}
