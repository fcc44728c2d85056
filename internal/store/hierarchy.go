package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reel/internal/faults"
	"reel/internal/project"
	"reel/internal/version"
)

func conflictOr(err error, op, message string) error {
	if isUniqueViolation(err) {
		return faults.Wrap(faults.ErrConflict, "store", op, message, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func notFound(op, message string) error {
	return faults.Wrap(faults.ErrNotFound, "store", op, message, nil)
}

// CreateProject inserts p and sets its ID.
func (s *Store) CreateProject(ctx context.Context, p *project.Project) error {
	id, err := s.insert(ctx,
		`INSERT INTO projects (name, code, root_path, created_at) VALUES (?, ?, ?, ?)`,
		p.Name, p.Code, p.Root, formatTime(s.now()),
	)
	if err != nil {
		return conflictOr(err, "create project", fmt.Sprintf("project %s already exists", p.Code))
	}
	p.ID = id
	return nil
}

func scanProject(row scanner) (*project.Project, error) {
	var p project.Project
	if err := row.Scan(&p.ID, &p.Name, &p.Code, &p.Root); err != nil {
		return nil, err
	}
	return &p, nil
}

// Project finds a project by code.
func (s *Store) Project(ctx context.Context, code string) (*project.Project, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT id, name, code, root_path FROM projects WHERE code = ?`, code)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("project", fmt.Sprintf("no project with code %s", code))
	}
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return p, nil
}

// Projects lists every project ordered by code.
func (s *Store) Projects(ctx context.Context) ([]*project.Project, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, name, code, root_path FROM projects ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()
	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// CreateSequence inserts seq and sets its ID. Shots already in seq.Shots are
// not written; use AddShots.
func (s *Store) CreateSequence(ctx context.Context, seq *project.Sequence) error {
	if seq.ProjectID == 0 {
		return faults.Wrap(faults.ErrPrecondition, "store", "create sequence", "sequence has no stored project", nil)
	}
	id, err := s.insert(ctx,
		`INSERT INTO sequences (project_id, name, code, shot_dependent_folders, shot_independent_folders, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		seq.ProjectID, seq.Name, seq.Code,
		encodeList(seq.Structure.ShotDependent), encodeList(seq.Structure.ShotIndependent),
		formatTime(s.now()),
	)
	if err != nil {
		return conflictOr(err, "create sequence", fmt.Sprintf("sequence %s already exists", seq.Code))
	}
	seq.ID = id
	return nil
}

// UpdateStructure rewrites the folder structure of seq.
func (s *Store) UpdateStructure(ctx context.Context, seq project.Sequence) error {
	_, err := s.execWithRetry(ctx,
		`UPDATE sequences SET shot_dependent_folders = ?, shot_independent_folders = ? WHERE id = ?`,
		encodeList(seq.Structure.ShotDependent), encodeList(seq.Structure.ShotIndependent), seq.ID,
	)
	if err != nil {
		return fmt.Errorf("update structure: %w", err)
	}
	return nil
}

const sequenceColumns = "id, project_id, name, code, shot_dependent_folders, shot_independent_folders"

func scanSequence(row scanner) (*project.Sequence, error) {
	var (
		seq         project.Sequence
		dependent   string
		independent string
	)
	if err := row.Scan(&seq.ID, &seq.ProjectID, &seq.Name, &seq.Code, &dependent, &independent); err != nil {
		return nil, err
	}
	seq.Structure = project.Structure{
		ShotDependent:   decodeList(dependent),
		ShotIndependent: decodeList(independent),
	}
	return &seq, nil
}

// Sequence finds a sequence of projectID by code, with its shot numbers.
func (s *Store) Sequence(ctx context.Context, projectID int64, code string) (*project.Sequence, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+sequenceColumns+` FROM sequences WHERE project_id = ? AND code = ?`, projectID, code)
	seq, err := scanSequence(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("sequence", fmt.Sprintf("no sequence with code %s", code))
	}
	if err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	if err := s.loadShotNumbers(ctx, seq); err != nil {
		return nil, err
	}
	return seq, nil
}

// Sequences lists the sequences of projectID ordered by code.
func (s *Store) Sequences(ctx context.Context, projectID int64) ([]*project.Sequence, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+sequenceColumns+` FROM sequences WHERE project_id = ? ORDER BY code`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list sequences: %w", err)
	}
	var sequences []*project.Sequence
	for rows.Next() {
		seq, err := scanSequence(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		sequences = append(sequences, seq)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()
	for _, seq := range sequences {
		if err := s.loadShotNumbers(ctx, seq); err != nil {
			return nil, err
		}
	}
	return sequences, nil
}

func (s *Store) loadShotNumbers(ctx context.Context, seq *project.Sequence) error {
	shots, err := s.Shots(ctx, seq.ID)
	if err != nil {
		return err
	}
	seq.Shots = make(project.ShotSet, 0, len(shots))
	for _, shot := range shots {
		seq.Shots = append(seq.Shots, shot.Number)
	}
	return nil
}

// AddShots inserts shots into seq in one transaction and sets their IDs. A
// shot code already present fails the whole batch with a conflict.
func (s *Store) AddShots(ctx context.Context, seq *project.Sequence, shots []project.Shot) error {
	if seq.ID == 0 {
		return faults.Wrap(faults.ErrPrecondition, "store", "add shots", "sequence is not stored", nil)
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin add shots tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for i := range shots {
			res, err := tx.ExecContext(ctx,
				`INSERT INTO shots (sequence_id, number, code, start_frame, end_frame, description)
				 VALUES (?, ?, ?, ?, ?, ?)`,
				seq.ID, shots[i].Number, shots[i].Code,
				shots[i].StartFrame(), shots[i].EndFrame(), nullableString(shots[i].Description),
			)
			if err != nil {
				return conflictOr(err, "add shots", fmt.Sprintf("shot %s already exists in %s", shots[i].Code, seq.Code))
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			shots[i].ID = id
			shots[i].SequenceID = seq.ID
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit add shots: %w", err)
		}
		for _, shot := range shots {
			seq.Shots = append(seq.Shots, shot.Number)
		}
		return nil
	})
}

const shotColumns = "id, sequence_id, number, code, start_frame, end_frame, description"

func scanShot(row scanner) (project.Shot, error) {
	var (
		shot        project.Shot
		start, end  int
		description sql.NullString
	)
	if err := row.Scan(&shot.ID, &shot.SequenceID, &shot.Number, &shot.Code, &start, &end, &description); err != nil {
		return project.Shot{}, err
	}
	shot.Description = description.String
	shot.SetStartFrame(start)
	shot.SetEndFrame(end)
	return shot, nil
}

// Shots lists the shots of sequenceID in shot number order.
func (s *Store) Shots(ctx context.Context, sequenceID int64) ([]project.Shot, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+shotColumns+` FROM shots WHERE sequence_id = ?
		 ORDER BY CAST(number AS INTEGER), number`, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("list shots: %w", err)
	}
	defer rows.Close()
	var shots []project.Shot
	for rows.Next() {
		shot, err := scanShot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shot: %w", err)
		}
		shots = append(shots, shot)
	}
	return shots, rows.Err()
}

// Shot finds a shot of sequenceID by code.
func (s *Store) Shot(ctx context.Context, sequenceID int64, code string) (project.Shot, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+shotColumns+` FROM shots WHERE sequence_id = ? AND code = ?`, sequenceID, code)
	shot, err := scanShot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return project.Shot{}, notFound("shot", fmt.Sprintf("no shot with code %s", code))
	}
	if err != nil {
		return project.Shot{}, fmt.Errorf("shot: %w", err)
	}
	return shot, nil
}

// UpdateShot writes the frame range and description of shot.
func (s *Store) UpdateShot(ctx context.Context, shot project.Shot) error {
	res, err := s.execWithRetry(ctx,
		`UPDATE shots SET start_frame = ?, end_frame = ?, description = ? WHERE id = ?`,
		shot.StartFrame(), shot.EndFrame(), nullableString(shot.Description), shot.ID,
	)
	if err != nil {
		return fmt.Errorf("update shot: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("update shot", fmt.Sprintf("no shot with id %d", shot.ID))
	}
	return nil
}

// AssetVersionable returns the versionable of an asset named name in p,
// creating it on first use.
func (s *Store) AssetVersionable(ctx context.Context, p project.Project, name string) (*version.Versionable, error) {
	owner := &version.Versionable{
		ProjectID: p.ID,
		Kind:      version.KindAsset,
		Name:      name,
		Placement: version.Placement{ProjectCode: p.Code},
	}
	if err := s.ensureVersionable(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// ShotVersionable returns the versionable of shot, creating it on first use.
// It is named after the shot code.
func (s *Store) ShotVersionable(ctx context.Context, p project.Project, seq project.Sequence, shot project.Shot) (*version.Versionable, error) {
	if shot.ID == 0 {
		return nil, faults.Wrap(faults.ErrPrecondition, "store", "shot versionable", "shot is not stored", nil)
	}
	owner := &version.Versionable{
		ProjectID: p.ID,
		ShotID:    shot.ID,
		Kind:      version.KindShot,
		Name:      shot.Code,
		Placement: version.Placement{ProjectCode: p.Code, SequenceCode: seq.Code, ShotCode: shot.Code},
	}
	if err := s.ensureVersionable(ctx, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

func (s *Store) ensureVersionable(ctx context.Context, owner *version.Versionable) error {
	if owner.ProjectID == 0 {
		return faults.Wrap(faults.ErrPrecondition, "store", "versionable", "project is not stored", nil)
	}
	ctx = ensureContext(ctx)
	_, err := s.execWithRetry(ctx,
		`INSERT INTO versionables (project_id, shot_id, kind, name) VALUES (?, ?, ?, ?)
		 ON CONFLICT (project_id, kind, name) DO NOTHING`,
		owner.ProjectID, nullableID(owner.ShotID), string(owner.Kind), owner.Name,
	)
	if err != nil {
		return fmt.Errorf("ensure versionable: %w", err)
	}
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM versionables WHERE project_id = ? AND kind = ? AND name = ?`,
		owner.ProjectID, string(owner.Kind), owner.Name,
	).Scan(&owner.ID)
	if err != nil {
		return fmt.Errorf("load versionable: %w", err)
	}
	return nil
}
