package legacy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"reel/internal/logging"
	"reel/internal/naming"
	"reel/internal/numbering"
)

// Options configures an Index.
type Options struct {
	// IgnoreExtensions are skipped before decoding, e.g. ".bak".
	IgnoreExtensions []string
	// IgnorePatterns are doublestar globs matched against slash paths
	// relative to the scanned root.
	IgnorePatterns []string
	Logger         *slog.Logger
}

// Index decodes folders of canonically named files.
type Index struct {
	fs         FS
	codec      *naming.Codec
	ignoreExts map[string]struct{}
	patterns   []string
	logger     *slog.Logger
}

// NewIndex builds an index. Invalid ignore patterns are rejected up front.
func NewIndex(fsys FS, codec *naming.Codec, opts Options) (*Index, error) {
	if fsys == nil {
		fsys = OSFS{}
	}
	for _, pattern := range opts.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	exts := make(map[string]struct{}, len(opts.IgnoreExtensions))
	for _, ext := range opts.IgnoreExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[ext] = struct{}{}
	}
	return &Index{
		fs:         fsys,
		codec:      codec,
		ignoreExts: exts,
		patterns:   append([]string(nil), opts.IgnorePatterns...),
		logger:     logging.NewComponentLogger(opts.Logger, "legacy"),
	}, nil
}

// FS returns the filesystem collaborator.
func (ix *Index) FS() FS { return ix.fs }

// Skipped is a file that did not decode.
type Skipped struct {
	Path   string
	Reason string
}

// ScanResult lists the valid assets of a scan, ordered by base name then
// version, and the files that were passed over.
type ScanResult struct {
	Assets  []*Asset
	Skipped []Skipped
}

// Scan decodes the files directly inside dir.
func (ix *Index) Scan(ctx context.Context, dir string) (ScanResult, error) {
	var result ScanResult
	if err := ix.scanDir(ctx, dir, "", false, &result); err != nil {
		return ScanResult{}, err
	}
	sortAssets(result.Assets)
	return result, nil
}

// ScanTree decodes every file below root. Ignored directories are not
// descended into.
func (ix *Index) ScanTree(ctx context.Context, root string) (ScanResult, error) {
	var result ScanResult
	if err := ix.scanDir(ctx, root, "", true, &result); err != nil {
		return ScanResult{}, err
	}
	sortAssets(result.Assets)
	return result, nil
}

func (ix *Index) scanDir(ctx context.Context, dir, rel string, recursive bool, result *ScanResult) error {
	entries, err := ix.fs.List(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		entryRel := path.Join(rel, entry.Name)
		if ix.ignored(entryRel) {
			continue
		}
		if entry.IsDir {
			if recursive {
				if err := ix.scanDir(ctx, filepath.Join(dir, entry.Name), entryRel, true, result); err != nil {
					return err
				}
			}
			continue
		}
		if _, skip := ix.ignoreExts[strings.ToLower(filepath.Ext(entry.Name))]; skip {
			continue
		}
		decoded := ix.codec.DecodeFile(entry.Name)
		if !decoded.Valid {
			result.Skipped = append(result.Skipped, Skipped{Path: entryRel, Reason: decoded.Reason})
			ix.logger.Debug("skipping file",
				logging.String("path", entryRel),
				logging.String("reason", decoded.Reason),
			)
			continue
		}
		result.Assets = append(result.Assets, &Asset{
			Record:   decoded.Record,
			Dir:      dir,
			FileName: entry.Name,
			Size:     entry.Size,
			Modified: entry.ModTime,
			Created:  entry.Created,
		})
	}
	return nil
}

func (ix *Index) ignored(rel string) bool {
	for _, pattern := range ix.patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func sortAssets(assets []*Asset) {
	sort.SliceStable(assets, func(i, j int) bool {
		a, b := assets[i], assets[j]
		if a.Dir != b.Dir {
			return a.Dir < b.Dir
		}
		if a.BaseName != b.BaseName {
			return a.BaseName < b.BaseName
		}
		if a.TypeName != b.TypeName {
			return a.TypeName < b.TypeName
		}
		if a.SubName != b.SubName {
			return a.SubName < b.SubName
		}
		if a.Version != b.Version {
			return a.Version < b.Version
		}
		return a.Revision < b.Revision
	})
}

// Key returns the numbering key of rec in folder mode: the joined base,
// sub and type fields. Folder names carry no take.
func (ix *Index) Key(rec naming.Record) numbering.Key {
	return numbering.Key{BaseName: ix.codec.BaseName(rec)}
}

// Series returns the numbering series of dir. Every call lists the folder
// again.
func (ix *Index) Series(dir string) numbering.Series[*Asset] {
	return numbering.SeriesFunc[*Asset](func(ctx context.Context, key numbering.Key) ([]*Asset, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		assets, err := ix.series(dir, key.BaseName)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return assets, err
	})
}

// Authority returns a numbering authority over dir.
func (ix *Index) Authority(dir string) *numbering.Authority[*Asset] {
	return numbering.New[*Asset](ix.Series(dir))
}

func (ix *Index) series(dir, baseName string) ([]*Asset, error) {
	entries, err := ix.fs.List(dir)
	if err != nil {
		return nil, err
	}
	var assets []*Asset
	for _, entry := range entries {
		if entry.IsDir || ix.ignored(entry.Name) {
			continue
		}
		if _, skip := ix.ignoreExts[strings.ToLower(filepath.Ext(entry.Name))]; skip {
			continue
		}
		decoded := ix.codec.DecodeFile(entry.Name)
		if !decoded.Valid || ix.codec.BaseName(decoded.Record) != baseName {
			continue
		}
		assets = append(assets, &Asset{
			Record:   decoded.Record,
			Dir:      dir,
			FileName: entry.Name,
			Size:     entry.Size,
			Modified: entry.ModTime,
			Created:  entry.Created,
		})
	}
	return assets, nil
}
