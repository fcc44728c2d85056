package store

import (
	"context"
	"fmt"

	"reel/internal/environment"
	"reel/internal/vtype"
)

// SyncTypes upserts every type of reg by name. Types missing from reg are
// kept so that stored versions still resolve their type row.
func (s *Store) SyncTypes(ctx context.Context, reg *vtype.Registry) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin sync types tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, t := range reg.Types() {
			tmpl := t.Templates()
			envs := make([]string, 0, len(t.Environments()))
			for _, kind := range t.Environments() {
				envs = append(envs, kind.String())
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO version_types (name, code, path_template, filename_template, output_template, shot_dependent, environments)
				 VALUES (?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT (name) DO UPDATE SET
					code = excluded.code,
					path_template = excluded.path_template,
					filename_template = excluded.filename_template,
					output_template = excluded.output_template,
					shot_dependent = excluded.shot_dependent,
					environments = excluded.environments`,
				t.Name(), t.Code(), tmpl.Path, tmpl.FileName, tmpl.Output,
				boolToInt(tmpl.ShotDependent), encodeList(envs),
			); err != nil {
				return fmt.Errorf("sync type %s: %w", t.Name(), err)
			}
		}
		return tx.Commit()
	})
}

// Types loads every stored type as a registry.
func (s *Store) Types(ctx context.Context) (*vtype.Registry, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT name, code, path_template, filename_template, output_template, shot_dependent, environments
		 FROM version_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	defer rows.Close()

	var types []*vtype.Type
	for rows.Next() {
		var (
			def           vtype.Definition
			shotDependent int
			envs          string
		)
		if err := rows.Scan(&def.Name, &def.Code, &def.Path, &def.FileName, &def.Output, &shotDependent, &envs); err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		def.ShotDependent = shotDependent != 0
		for _, name := range decodeList(envs) {
			kind, err := environment.ParseKind(name)
			if err != nil {
				return nil, fmt.Errorf("type %s: %w", def.Name, err)
			}
			def.Environments = append(def.Environments, kind)
		}
		t, err := vtype.New(def)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vtype.NewRegistry(types...)
}
