package testsupport

import (
	"context"
	"testing"

	"reel/internal/config"
	"reel/internal/logging"
	"reel/internal/project"
	"reel/internal/store"
	"reel/internal/workspace"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewWorkspace builds a workspace for cfg with a discarding logger.
func NewWorkspace(t testing.TB, cfg *config.Config) *workspace.Workspace {
	t.Helper()

	ws, err := workspace.New(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("workspace.New: %v", err)
	}
	return ws
}

// NewProject creates and stores a project.
func NewProject(t testing.TB, ws *workspace.Workspace, st *store.Store, name string) *project.Project {
	t.Helper()

	p, err := ws.NewProject(name, "")
	if err != nil {
		t.Fatalf("NewProject: %v", err)
	}
	if err := st.CreateProject(context.Background(), &p); err != nil {
		t.Fatalf("store.CreateProject: %v", err)
	}
	return &p
}

// NewShot creates and stores a sequence named sequence in p holding one
// shot with the given number, and returns both.
func NewShot(t testing.TB, ws *workspace.Workspace, st *store.Store, p *project.Project, sequence, number string) (*project.Sequence, project.Shot) {
	t.Helper()

	ctx := context.Background()
	seq, err := project.NewSequence(*p, sequence, "")
	if err != nil {
		t.Fatalf("NewSequence: %v", err)
	}
	if err := st.CreateSequence(ctx, &seq); err != nil {
		t.Fatalf("store.CreateSequence: %v", err)
	}
	shot, err := project.NewShot(ws.Shots(), number, 1001, 1100)
	if err != nil {
		t.Fatalf("NewShot: %v", err)
	}
	shots := []project.Shot{shot}
	if err := st.AddShots(ctx, &seq, shots); err != nil {
		t.Fatalf("store.AddShots: %v", err)
	}
	return &seq, shots[0]
}
