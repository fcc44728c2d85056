package numbering

import (
	"context"
	"fmt"

	"reel/internal/faults"
)

// Key groups the records of one series. The database model keys on base name
// and take; the legacy file model folds base, sub name and type into
// BaseName and leaves Take empty.
type Key struct {
	BaseName string
	Take     string
}

func (k Key) String() string {
	if k.Take == "" {
		return k.BaseName
	}
	return k.BaseName + "/" + k.Take
}

// Numbered is a record carrying a version and a revision number.
type Numbered interface {
	VersionNumber() int
	RevisionNumber() int
}

// Series lists every record currently known for a key.
type Series[T Numbered] interface {
	Records(ctx context.Context, key Key) ([]T, error)
}

// SeriesFunc adapts a function to Series.
type SeriesFunc[T Numbered] func(ctx context.Context, key Key) ([]T, error)

func (f SeriesFunc[T]) Records(ctx context.Context, key Key) ([]T, error) {
	return f(ctx, key)
}

// Latest is the result of a latest query. Found is false for an empty
// series, in which case Number is 0.
type Latest[T Numbered] struct {
	Record T
	Number int
	Found  bool
}

// Authority answers numbering questions against a series.
type Authority[T Numbered] struct {
	series Series[T]
}

// New returns an Authority reading from series.
func New[T Numbered](series Series[T]) *Authority[T] {
	return &Authority[T]{series: series}
}

// LatestVersion returns the record with the highest version number.
func (a *Authority[T]) LatestVersion(ctx context.Context, key Key) (Latest[T], error) {
	records, err := a.records(ctx, key)
	if err != nil {
		return Latest[T]{}, err
	}
	var latest Latest[T]
	for _, rec := range records {
		n := rec.VersionNumber()
		if !latest.Found || n > latest.Number {
			latest = Latest[T]{Record: rec, Number: n, Found: true}
		}
	}
	return latest, nil
}

// LatestRevision returns the record with the highest revision number. Ties
// go to the higher version.
func (a *Authority[T]) LatestRevision(ctx context.Context, key Key) (Latest[T], error) {
	records, err := a.records(ctx, key)
	if err != nil {
		return Latest[T]{}, err
	}
	var (
		latest  Latest[T]
		version int
	)
	for _, rec := range records {
		n := rec.RevisionNumber()
		if !latest.Found || n > latest.Number || (n == latest.Number && rec.VersionNumber() > version) {
			latest = Latest[T]{Record: rec, Number: n, Found: true}
			version = rec.VersionNumber()
		}
	}
	return latest, nil
}

// NextVersionNumber is the latest version plus one, or 1 for an empty
// series.
func (a *Authority[T]) NextVersionNumber(ctx context.Context, key Key) (int, error) {
	latest, err := a.LatestVersion(ctx, key)
	if err != nil {
		return 0, err
	}
	if !latest.Found {
		return 1, nil
	}
	return latest.Number + 1, nil
}

// NextRevisionNumber is the current latest revision, or 0 for an empty
// series. It does not advance; see IncrementRevision.
func (a *Authority[T]) NextRevisionNumber(ctx context.Context, key Key) (int, error) {
	latest, err := a.LatestRevision(ctx, key)
	if err != nil {
		return 0, err
	}
	return latest.Number, nil
}

// IncrementRevision returns the latest revision plus one. Nothing is
// written; the caller uses the number for its next version.
func (a *Authority[T]) IncrementRevision(ctx context.Context, key Key) (int, error) {
	current, err := a.NextRevisionNumber(ctx, key)
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

// Correct returns the version number to create. A requested number at or
// below the current maximum, or not positive, is replaced by the next
// number; corrected reports whether that happened.
func (a *Authority[T]) Correct(ctx context.Context, key Key, requested int) (number int, corrected bool, err error) {
	next, err := a.NextVersionNumber(ctx, key)
	if err != nil {
		return 0, false, err
	}
	if requested <= 0 {
		return next, false, nil
	}
	if requested < next {
		return next, true, nil
	}
	return requested, false, nil
}

// IsLatestVersion reports whether rec is not older than the series maximum.
func (a *Authority[T]) IsLatestVersion(ctx context.Context, key Key, rec T) (bool, error) {
	latest, err := a.LatestVersion(ctx, key)
	if err != nil {
		return false, err
	}
	return !latest.Found || rec.VersionNumber() >= latest.Number, nil
}

// IsNewVersion reports whether rec is strictly newer than the series maximum.
func (a *Authority[T]) IsNewVersion(ctx context.Context, key Key, rec T) (bool, error) {
	latest, err := a.LatestVersion(ctx, key)
	if err != nil {
		return false, err
	}
	return !latest.Found || rec.VersionNumber() > latest.Number, nil
}

func (a *Authority[T]) records(ctx context.Context, key Key) ([]T, error) {
	if a == nil || a.series == nil {
		return nil, faults.Wrap(faults.ErrConfiguration, "numbering", "records", "no series source", nil)
	}
	records, err := a.series.Records(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("numbering: list %s: %w", key, err)
	}
	return records, nil
}

// DuplicateVersionError is raised at commit time when the version number was
// taken between computing it and writing it. Retry by recomputing.
type DuplicateVersionError struct {
	Key     Key
	Version int
	Err     error
}

func (e *DuplicateVersionError) Error() string {
	msg := fmt.Sprintf("version %d of %s already exists", e.Version, e.Key)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DuplicateVersionError) Unwrap() error { return e.Err }

// Is matches faults.ErrConflict.
func (e *DuplicateVersionError) Is(target error) bool {
	return target == faults.ErrConflict
}
