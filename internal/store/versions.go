package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"reel/internal/faults"
	"reel/internal/numbering"
	"reel/internal/version"
)

const versionSelect = `SELECT v.id, v.versionable_id, v.type_name, v.base_name, v.take_name,
	v.revision_number, v.version_number, v.note, v.author_name, v.author_initials,
	v.extension, v.created_at, p.code, COALESCE(sq.code, ''), COALESCE(sh.code, '')
FROM versions v
JOIN versionables o ON o.id = v.versionable_id
JOIN projects p ON p.id = o.project_id
LEFT JOIN shots sh ON sh.id = o.shot_id
LEFT JOIN sequences sq ON sq.id = sh.sequence_id`

func scanVersion(row scanner) (*version.Version, error) {
	var (
		snap      version.Snapshot
		note      sql.NullString
		author    sql.NullString
		initials  sql.NullString
		extension sql.NullString
		created   string
	)
	if err := row.Scan(
		&snap.ID,
		&snap.VersionableID,
		&snap.TypeName,
		&snap.BaseName,
		&snap.TakeName,
		&snap.Revision,
		&snap.Number,
		&note,
		&author,
		&initials,
		&extension,
		&created,
		&snap.Placement.ProjectCode,
		&snap.Placement.SequenceCode,
		&snap.Placement.ShotCode,
	); err != nil {
		return nil, err
	}
	snap.Note = note.String
	snap.Author = version.Author{Name: author.String, Initials: initials.String}
	snap.Extension = extension.String
	snap.CreatedAt = parseTimeString(created)
	return version.FromSnapshot(snap), nil
}

// Versions returns versions matching filter, highest version first. Among
// equal version numbers the higher revision comes first.
func (s *Store) Versions(ctx context.Context, filter version.Filter) ([]*version.Version, error) {
	var (
		where []string
		args  []any
	)
	if filter.VersionableID != 0 {
		where = append(where, "v.versionable_id = ?")
		args = append(args, filter.VersionableID)
	}
	if filter.TypeName != "" {
		where = append(where, "v.type_name = ? COLLATE NOCASE")
		args = append(args, filter.TypeName)
	}
	if filter.BaseName != "" {
		where = append(where, "v.base_name = ?")
		args = append(args, filter.BaseName)
	}
	if filter.TakeName != "" {
		where = append(where, "v.take_name = ?")
		args = append(args, filter.TakeName)
	}
	query := versionSelect
	if len(where) > 0 {
		query += "\nWHERE " + strings.Join(where, " AND ")
	}
	query += "\nORDER BY v.version_number DESC, v.revision_number DESC, v.id DESC"

	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()
	var versions []*version.Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// VersionByID loads one version.
func (s *Store) VersionByID(ctx context.Context, id int64) (*version.Version, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), versionSelect+"\nWHERE v.id = ?", id)
	v, err := scanVersion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("version", fmt.Sprintf("no version with id %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("version: %w", err)
	}
	return v, nil
}

// AddVersion commits v and sets its ID. A taken (base name, take, version
// number) comes back as a *numbering.DuplicateVersionError.
func (s *Store) AddVersion(ctx context.Context, v *version.Version) error {
	if v.VersionableID() == 0 {
		return faults.Wrap(faults.ErrPrecondition, "store", "add version", "version has no stored versionable", nil)
	}
	createdAt := v.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	id, err := s.insert(ctx,
		`INSERT INTO versions (
			versionable_id, type_name, base_name, take_name, revision_number, version_number,
			note, author_name, author_initials, extension, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VersionableID(), v.TypeName(), v.BaseName(), v.TakeName(), v.RevisionNumber(), v.VersionNumber(),
		nullableString(v.Note), nullableString(v.Author().Name), nullableString(v.Author().Initials),
		nullableString(v.Extension()), formatTime(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &numbering.DuplicateVersionError{Key: v.Key(), Version: v.VersionNumber(), Err: err}
		}
		return fmt.Errorf("add version: %w", err)
	}
	v.ID = id
	v.CreatedAt = createdAt
	return nil
}
