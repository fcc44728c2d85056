package legacy

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"reel/internal/faults"
	"reel/internal/fileutil"
	"reel/internal/logging"
	"reel/internal/naming"
	"reel/internal/numbering"
)

// LockFileName is created in every folder a claim writes to.
const LockFileName = ".reel.lock"

const lockRetryDelay = 25 * time.Millisecond

// Claim reserves the next version of rec's series in dir by creating an
// empty file under the canonical name. A requested version at or below the
// current maximum moves past it. When rec has no revision the series stays
// on its current one.
//
// Another process writing the same name without the lock comes back as a
// *numbering.DuplicateVersionError; retry by claiming again.
func (ix *Index) Claim(ctx context.Context, dir string, rec naming.Record) (*Asset, error) {
	if !ix.codec.HasBaseInfo(rec) {
		return nil, faults.Wrap(faults.ErrValidation, "legacy", "claim", "record needs base name, sub name and type", nil)
	}
	rec, err := ix.codec.CanonicalType(rec)
	if err != nil {
		return nil, err
	}
	if id, ok := logging.CorrelationIDFromContext(ctx); !ok || id == "" {
		ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, ix.logger)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create claim folder: %w", err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !locked {
		return nil, faults.Wrap(faults.ErrConflict, "legacy", "claim", "folder lock not acquired", nil)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	key := ix.Key(rec)
	auth := ix.Authority(dir)
	requested := 0
	if rec.HasVersion {
		requested = rec.Version
	}
	number, corrected, err := auth.Correct(ctx, key, requested)
	if err != nil {
		return nil, err
	}
	if corrected {
		logger.Info("requested version already in use",
			logging.String(logging.FieldEventType, "version_number_corrected"),
			logging.String("key", key.String()),
			logging.Int("requested", requested),
			logging.Int("assigned", number),
		)
	}
	rec.Version, rec.HasVersion = number, true
	if !rec.HasRevision {
		revision, err := auth.NextRevisionNumber(ctx, key)
		if err != nil {
			return nil, err
		}
		rec.Revision, rec.HasRevision = revision, true
	}

	name, err := ix.codec.EncodeFile(rec)
	if err != nil {
		return nil, err
	}
	target := filepath.Join(dir, name)
	file, err := fileutil.CreateExclusive(target)
	if errors.Is(err, os.ErrExist) {
		logging.WarnWithContext(logger, "version file appeared before claim",
			"version_duplicate",
			logging.String("path", target),
			logging.String(logging.FieldErrorHint, "claim again to take the next number"),
			logging.String(logging.FieldImpact, "no file was created"),
		)
		return nil, &numbering.DuplicateVersionError{Key: key, Version: number, Err: err}
	}
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", target, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", target, err)
	}

	info, err := ix.fs.Stat(target)
	if err != nil {
		info = FileInfo{Name: name}
	}
	logger.Info("version claimed",
		logging.String(logging.FieldEventType, "version_claimed"),
		logging.String("key", key.String()),
		logging.Int("version", number),
		logging.Int("revision", rec.Revision),
		logging.String("path", target),
	)
	return &Asset{
		Record:   rec,
		Dir:      dir,
		FileName: name,
		Size:     info.Size,
		Modified: info.ModTime,
		Created:  info.Created,
	}, nil
}
