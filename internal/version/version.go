package version

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"reel/internal/numbering"
	"reel/internal/render"
	"reel/internal/vtype"
)

// DefaultTake is the take name used when none is given.
const DefaultTake = "MAIN"

// Kind distinguishes the two versionable holders.
type Kind string

const (
	KindAsset Kind = "asset"
	KindShot  Kind = "shot"
)

// Placement locates a versionable in the hierarchy. SequenceCode and
// ShotCode are empty for project-level assets.
type Placement struct {
	ProjectCode  string
	SequenceCode string
	ShotCode     string
}

// Versionable owns the versions of one asset or shot.
type Versionable struct {
	ID        int64
	ProjectID int64
	ShotID    int64
	Kind      Kind
	Name      string
	Placement Placement

	versions []*Version
}

// Add inserts v keeping versions ordered by version number.
func (o *Versionable) Add(v *Version) {
	v.versionableID = o.ID
	v.placement = o.Placement
	o.versions = append(o.versions, v)
	sort.SliceStable(o.versions, func(i, j int) bool {
		return o.versions[i].number < o.versions[j].number
	})
}

// Versions returns the owned versions, oldest first.
func (o *Versionable) Versions() []*Version {
	return append([]*Version(nil), o.versions...)
}

// Author identifies who saved a version.
type Author struct {
	Name     string
	Initials string
}

// Snapshot is the persisted form of a Version. Paths are not part of it; they
// are recomputed from the templates.
type Snapshot struct {
	ID            int64
	VersionableID int64
	Placement     Placement
	TypeName      string
	BaseName      string
	TakeName      string
	Revision      int
	Number        int
	Note          string
	Author        Author
	Extension     string
	CreatedAt     time.Time
}

// Version is one saved iteration of an artifact.
type Version struct {
	ID        int64
	Note      string
	CreatedAt time.Time

	author        Author
	extension     string
	versionableID int64
	placement     Placement
	typeName      string
	baseName      string
	takeName      string
	revision      int
	number        int

	paths *render.Paths
}

// FromSnapshot rebuilds a Version from its persisted form.
func FromSnapshot(s Snapshot) *Version {
	take := strings.TrimSpace(s.TakeName)
	if take == "" {
		take = DefaultTake
	}
	return &Version{
		ID:            s.ID,
		Note:          s.Note,
		CreatedAt:     s.CreatedAt,
		author:        s.Author,
		extension:     s.Extension,
		versionableID: s.VersionableID,
		placement:     s.Placement,
		typeName:      s.TypeName,
		baseName:      s.BaseName,
		takeName:      take,
		revision:      s.Revision,
		number:        s.Number,
	}
}

// Snapshot returns the persisted form of v.
func (v *Version) Snapshot() Snapshot {
	return Snapshot{
		ID:            v.ID,
		VersionableID: v.versionableID,
		Placement:     v.placement,
		TypeName:      v.typeName,
		BaseName:      v.baseName,
		TakeName:      v.takeName,
		Revision:      v.revision,
		Number:        v.number,
		Note:          v.Note,
		Author:        v.author,
		Extension:     v.extension,
		CreatedAt:     v.CreatedAt,
	}
}

func (v *Version) VersionableID() int64 { return v.versionableID }

func (v *Version) Placement() Placement { return v.placement }

func (v *Version) TypeName() string { return v.typeName }

func (v *Version) BaseName() string { return v.baseName }

func (v *Version) TakeName() string { return v.takeName }

func (v *Version) Author() Author { return v.author }

func (v *Version) Extension() string { return v.extension }

// VersionNumber implements numbering.Numbered.
func (v *Version) VersionNumber() int { return v.number }

// RevisionNumber implements numbering.Numbered.
func (v *Version) RevisionNumber() int { return v.revision }

// Key returns the numbering key of v.
func (v *Version) Key() numbering.Key {
	return numbering.Key{BaseName: v.baseName, Take: v.takeName}
}

func (v *Version) SetType(name string) {
	if name != v.typeName {
		v.typeName = name
		v.paths = nil
	}
}

func (v *Version) SetBaseName(name string) {
	if name != v.baseName {
		v.baseName = name
		v.paths = nil
	}
}

func (v *Version) SetTakeName(name string) {
	if strings.TrimSpace(name) == "" {
		name = DefaultTake
	}
	if name != v.takeName {
		v.takeName = name
		v.paths = nil
	}
}

func (v *Version) SetRevision(n int) {
	if n != v.revision {
		v.revision = n
		v.paths = nil
	}
}

func (v *Version) SetVersionNumber(n int) {
	if n != v.number {
		v.number = n
		v.paths = nil
	}
}

// SetAuthor changes who saved v. The initials are part of the file name.
func (v *Version) SetAuthor(a Author) {
	if a != v.author {
		v.author = a
		v.paths = nil
	}
}

func (v *Version) SetExtension(ext string) {
	if ext != v.extension {
		v.extension = ext
		v.paths = nil
	}
}

// SetPlacement moves the version to another container.
func (v *Version) SetPlacement(p Placement) {
	if p != v.placement {
		v.placement = p
		v.paths = nil
	}
}

// Paths renders the path triple, caching it until a field set through one
// of the setters changes.
func (v *Version) Paths(r *render.Renderer, types *vtype.Registry) (render.Paths, error) {
	if v.paths != nil {
		return *v.paths, nil
	}
	if types == nil {
		return render.Paths{}, &render.PreconditionError{Missing: "type registry"}
	}
	if strings.TrimSpace(v.typeName) == "" {
		return render.Paths{}, &render.PreconditionError{Missing: "version type"}
	}
	typ, err := types.Lookup(v.typeName)
	if err != nil {
		return render.Paths{}, fmt.Errorf("render version paths: %w", err)
	}
	paths, err := r.Paths(typ.Templates(), v.renderContext(typ))
	if err != nil {
		return render.Paths{}, err
	}
	v.paths = &paths
	return paths, nil
}

// PathsCached reports whether rendered paths are being held.
func (v *Version) PathsCached() bool {
	return v.paths != nil
}

func (v *Version) renderContext(typ *vtype.Type) render.Context {
	return render.Context{
		ProjectCode:  v.placement.ProjectCode,
		SequenceCode: v.placement.SequenceCode,
		ShotCode:     v.placement.ShotCode,
		TypeName:     typ.Name(),
		TypeCode:     typ.Code(),
		BaseName:     v.baseName,
		TakeName:     v.takeName,
		Revision:     v.revision,
		Version:      v.number,
		UserInitials: v.author.Initials,
		Extension:    v.extension,
	}
}
