package project

import (
	"path/filepath"
	"strings"

	"reel/internal/faults"
)

// Project is the root container. Name and Code are canonical and unique.
type Project struct {
	ID   int64
	Name string
	Code string
	Root string
}

// NewProject canonicalizes name and code. An empty code takes the canonical
// name. Root is the project folder under the projects root.
func NewProject(name, code, projectsRoot string) (Project, error) {
	canonical, err := CanonicalName(name)
	if err != nil {
		return Project{}, &NameError{Kind: "project", Value: name}
	}
	if strings.TrimSpace(code) == "" {
		code = canonical
	} else if code, err = CanonicalName(code); err != nil {
		return Project{}, &NameError{Kind: "project code", Value: code}
	}
	p := Project{Name: canonical, Code: code}
	if projectsRoot != "" {
		p.Root = filepath.Join(projectsRoot, code)
	}
	return p, nil
}

// Sequence belongs to one project and owns its shot numbers and folder
// structure.
type Sequence struct {
	ID        int64
	ProjectID int64
	Name      string
	Code      string
	Shots     ShotSet
	Structure Structure
}

// NewSequence canonicalizes the sequence name and code.
func NewSequence(p Project, name, code string) (Sequence, error) {
	if p.ID == 0 && p.Code == "" {
		return Sequence{}, faults.Wrap(faults.ErrPrecondition, "project", "new sequence", "sequence requires a project", nil)
	}
	canonical, err := CanonicalName(name)
	if err != nil {
		return Sequence{}, &NameError{Kind: "sequence", Value: name}
	}
	if strings.TrimSpace(code) == "" {
		code = canonical
	} else if code, err = CanonicalName(code); err != nil {
		return Sequence{}, &NameError{Kind: "sequence code", Value: code}
	}
	return Sequence{ProjectID: p.ID, Name: canonical, Code: code}, nil
}

// Root returns the sequence folder below a project root.
func (s Sequence) Root(p Project) string {
	return filepath.Join(p.Root, s.Code)
}

// Structure lists sub-folders of a sequence. Shot-dependent folders are
// repeated once per shot code; shot-independent folders exist once.
type Structure struct {
	ShotDependent   []string
	ShotIndependent []string
}

// Folders returns every folder the structure implies below root, independent
// folders first. Duplicates are removed.
func (s Structure) Folders(root string, shotCodes []string) []string {
	seen := make(map[string]struct{})
	folders := make([]string, 0, len(s.ShotIndependent)+len(s.ShotDependent)*len(shotCodes))
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		folders = append(folders, path)
	}
	for _, folder := range s.ShotIndependent {
		if folder = cleanFolder(folder); folder != "" {
			add(filepath.Join(root, folder))
		}
	}
	for _, folder := range s.ShotDependent {
		folder = cleanFolder(folder)
		if folder == "" {
			continue
		}
		for _, code := range shotCodes {
			add(filepath.Join(root, folder, code))
		}
	}
	return folders
}

func cleanFolder(folder string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" || folder == "." {
		return ""
	}
	return filepath.Clean(folder)
}
