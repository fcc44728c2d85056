package environment

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"reel/internal/faults"
)

// Kind identifies a host application.
type Kind int

const (
	Standalone Kind = iota
	Maya
	Nuke
	Houdini
	Blender
)

var kindNames = map[Kind]string{
	Standalone: "standalone",
	Maya:       "maya",
	Nuke:       "nuke",
	Houdini:    "houdini",
	Blender:    "blender",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a configured environment name to its Kind.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for kind, candidate := range kindNames {
		if candidate == name {
			return kind, nil
		}
	}
	return 0, faults.Wrap(faults.ErrConfiguration, "environment", "parse kind", fmt.Sprintf("unknown environment %q", name), nil)
}

// Kinds returns every known kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for kind := range kindNames {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Host is the capability set the pipeline needs from an authoring
// application.
type Host interface {
	Kind() Kind
	Open(ctx context.Context, path string) error
	Save(ctx context.Context, path string) error
	Export(ctx context.Context, path string) error
	Import(ctx context.Context, path string) error
	Reference(ctx context.Context, path string) error
	FrameRange(ctx context.Context) (start, end int, err error)
	SetFrameRange(ctx context.Context, start, end int) error
}

// Catalog maps each kind to the file extensions it authors. The first
// extension of a kind is its default save format.
type Catalog struct {
	extensions map[Kind][]string
}

// NewCatalog builds a catalog. Extensions are lower-cased and given a
// leading dot.
func NewCatalog(entries map[Kind][]string) *Catalog {
	c := &Catalog{extensions: make(map[Kind][]string, len(entries))}
	for kind, exts := range entries {
		for _, ext := range exts {
			ext = normalizeExtension(ext)
			if ext != "" {
				c.extensions[kind] = append(c.extensions[kind], ext)
			}
		}
	}
	return c
}

// DefaultCatalog returns the stock extension lists.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[Kind][]string{
		Maya:    {".ma", ".mb"},
		Nuke:    {".nk"},
		Houdini: {".hip", ".hipnc", ".hiplc"},
		Blender: {".blend"},
	})
}

// Extensions returns the extensions registered for kind.
func (c *Catalog) Extensions(kind Kind) []string {
	return append([]string(nil), c.extensions[kind]...)
}

// DefaultExtension returns the first extension of kind, if any.
func (c *Catalog) DefaultExtension(kind Kind) (string, bool) {
	exts := c.extensions[kind]
	if len(exts) == 0 {
		return "", false
	}
	return exts[0], true
}

// KindFor reports which kind authors files with the extension of path.
func (c *Catalog) KindFor(path string) (Kind, bool) {
	ext := normalizeExtension(filepath.Ext(path))
	if ext == "" {
		return 0, false
	}
	for _, kind := range Kinds() {
		for _, candidate := range c.extensions[kind] {
			if candidate == ext {
				return kind, true
			}
		}
	}
	return 0, false
}

// All returns every registered extension, sorted.
func (c *Catalog) All() []string {
	var all []string
	for _, exts := range c.extensions {
		all = append(all, exts...)
	}
	sort.Strings(all)
	return all
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
