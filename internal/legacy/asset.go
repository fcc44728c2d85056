package legacy

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"reel/internal/naming"
)

// Asset is a record decoded from a file name in Dir.
type Asset struct {
	naming.Record
	Dir      string
	FileName string
	Size     int64
	Modified time.Time
	Created  time.Time
}

// VersionNumber implements numbering.Numbered.
func (a *Asset) VersionNumber() int { return a.Version }

// RevisionNumber implements numbering.Numbered.
func (a *Asset) RevisionNumber() int { return a.Revision }

// Path is the full path of the asset file.
func (a *Asset) Path() string {
	return filepath.Join(a.Dir, a.FileName)
}

// Exists reports whether the asset file is on disk right now.
func (a *Asset) Exists(fsys FS) bool {
	_, err := fsys.Stat(a.Path())
	return err == nil
}

// BaseExists reports whether any file in the asset's folder shares its base
// name (base, sub and type), whatever its numbers.
func (ix *Index) BaseExists(a *Asset) (bool, error) {
	assets, err := ix.series(a.Dir, ix.codec.BaseName(a.Record))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return len(assets) > 0, nil
}
