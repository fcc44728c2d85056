package environment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"reel/internal/faults"
	"reel/internal/fileutil"
)

// FileHost is the Standalone host. It has no scene of its own: the open
// document is a file on disk, and saving or exporting copies it with
// verification. Imports and references are recorded, not merged.
type FileHost struct {
	mu         sync.Mutex
	current    string
	references []string
	imports    []string
	start, end int
}

// NewFileHost returns a host with no open document and a 1-1 frame range.
func NewFileHost() *FileHost {
	return &FileHost{start: 1, end: 1}
}

var _ Host = (*FileHost)(nil)

func (h *FileHost) Kind() Kind { return Standalone }

// Open makes path the current document.
func (h *FileHost) Open(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return faults.Wrap(faults.ErrNotFound, "environment", "open", path, err)
	}
	if info.IsDir() {
		return faults.Wrap(faults.ErrValidation, "environment", "open", path+" is a directory", nil)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = path
	return nil
}

// Save copies the current document to path and makes it current. An
// existing file at path is never overwritten.
func (h *FileHost) Save(ctx context.Context, path string) error {
	if err := h.copyTo(ctx, "save", path); err != nil {
		return err
	}
	h.mu.Lock()
	h.current = path
	h.mu.Unlock()
	return nil
}

// Export copies the current document to path without changing the current
// document.
func (h *FileHost) Export(ctx context.Context, path string) error {
	return h.copyTo(ctx, "export", path)
}

// Import records path as merged into the document.
func (h *FileHost) Import(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.imports = append(h.imports, path)
	return nil
}

// Reference records path as referenced by the document.
func (h *FileHost) Reference(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.references = append(h.references, path)
	return nil
}

func (h *FileHost) FrameRange(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.start, h.end, nil
}

func (h *FileHost) SetFrameRange(ctx context.Context, start, end int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if start < 1 || end < start {
		return faults.Wrap(faults.ErrValidation, "environment", "set frame range", fmt.Sprintf("invalid range %d-%d", start, end), nil)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.start, h.end = start, end
	return nil
}

// Current returns the open document path.
func (h *FileHost) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// References returns the recorded references.
func (h *FileHost) References() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.references...)
}

func (h *FileHost) copyTo(ctx context.Context, op, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	current := h.current
	h.mu.Unlock()
	if current == "" {
		return faults.Wrap(faults.ErrPrecondition, "environment", op, "no document open", nil)
	}
	if err := fileutil.CopyVerified(current, path, false); err != nil {
		if errors.Is(err, os.ErrExist) {
			return faults.Wrap(faults.ErrConflict, "environment", op, path+" already exists", err)
		}
		return faults.Wrap(faults.ErrValidation, "environment", op, path, err)
	}
	return nil
}
