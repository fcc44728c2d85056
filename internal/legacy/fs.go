package legacy

import (
	"os"
	"path/filepath"
	"time"
)

// FileInfo is the subset of file metadata the index reads.
type FileInfo struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
	// Created is the birth time where the platform reports one, else the
	// modification time.
	Created time.Time
}

// FS is the filesystem collaborator: directory listings and stat calls.
type FS interface {
	List(dir string) ([]FileInfo, error)
	Stat(path string) (FileInfo, error)
}

// OSFS reads the local filesystem.
type OSFS struct{}

// List returns the entries of dir in name order.
func (OSFS) List(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := OSFS{}.Stat(filepath.Join(dir, entry.Name()))
		if err != nil {
			// Removed between listing and stat.
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Stat describes path.
func (OSFS) Stat(path string) (FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Name:    info.Name(),
		IsDir:   info.IsDir(),
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Created: birthTime(path, info.ModTime()),
	}, nil
}
