package numbering_test

import (
	"context"
	"errors"
	"testing"

	"reel/internal/faults"
	"reel/internal/numbering"
)

type entry struct {
	key      numbering.Key
	version  int
	revision int
}

func (e entry) VersionNumber() int  { return e.version }
func (e entry) RevisionNumber() int { return e.revision }

type memorySeries struct {
	entries []entry
	reads   int
}

func (m *memorySeries) Records(_ context.Context, key numbering.Key) ([]entry, error) {
	m.reads++
	var out []entry
	for _, e := range m.entries {
		if e.key == key {
			out = append(out, e)
		}
	}
	return out, nil
}

// commit mimics the store's uniqueness constraint.
func (m *memorySeries) commit(e entry) error {
	for _, existing := range m.entries {
		if existing.key == e.key && existing.version == e.version {
			return &numbering.DuplicateVersionError{Key: e.key, Version: e.version}
		}
	}
	m.entries = append(m.entries, e)
	return nil
}

var sh010 = numbering.Key{BaseName: "SH010", Take: "MAIN"}

func TestEmptySeries(t *testing.T) {
	ctx := context.Background()
	auth := numbering.New[entry](&memorySeries{})
	latest, err := auth.LatestVersion(ctx, sh010)
	if err != nil {
		t.Fatalf("LatestVersion failed: %v", err)
	}
	if latest.Found || latest.Number != 0 {
		t.Fatalf("expected none, got %+v", latest)
	}
	next, err := auth.NextVersionNumber(ctx, sh010)
	if err != nil || next != 1 {
		t.Fatalf("NextVersionNumber = %d, %v", next, err)
	}
	rev, err := auth.NextRevisionNumber(ctx, sh010)
	if err != nil || rev != 0 {
		t.Fatalf("NextRevisionNumber = %d, %v", rev, err)
	}
}

func TestLatestAndNext(t *testing.T) {
	ctx := context.Background()
	series := &memorySeries{entries: []entry{
		{key: sh010, version: 1, revision: 0},
		{key: sh010, version: 4, revision: 1},
		{key: sh010, version: 2, revision: 1},
		{key: numbering.Key{BaseName: "SH010", Take: "ALT"}, version: 9, revision: 3},
	}}
	auth := numbering.New[entry](series)

	latest, err := auth.LatestVersion(ctx, sh010)
	if err != nil {
		t.Fatalf("LatestVersion failed: %v", err)
	}
	if !latest.Found || latest.Number != 4 || latest.Record.version != 4 {
		t.Fatalf("unexpected latest %+v", latest)
	}
	again, _ := auth.LatestVersion(ctx, sh010)
	if again != latest {
		t.Fatalf("latest changed without a write: %+v vs %+v", again, latest)
	}

	rev, err := auth.LatestRevision(ctx, sh010)
	if err != nil {
		t.Fatalf("LatestRevision failed: %v", err)
	}
	if rev.Number != 1 || rev.Record.version != 4 {
		t.Fatalf("expected revision 1 tie broken by version 4, got %+v", rev)
	}
	if next, _ := auth.NextVersionNumber(ctx, sh010); next != 5 {
		t.Fatalf("expected next version 5, got %d", next)
	}
	if next, _ := auth.NextRevisionNumber(ctx, sh010); next != 1 {
		t.Fatalf("expected revision to stay at 1, got %d", next)
	}
	if bumped, _ := auth.IncrementRevision(ctx, sh010); bumped != 2 {
		t.Fatalf("expected bumped revision 2, got %d", bumped)
	}
}

func TestLatestAndNewPredicates(t *testing.T) {
	ctx := context.Background()
	auth := numbering.New[entry](&memorySeries{entries: []entry{{key: sh010, version: 1}, {key: sh010, version: 2}}})
	cases := []struct {
		version      int
		latest, next bool
	}{
		{version: 1, latest: false, next: false},
		{version: 2, latest: true, next: false},
		{version: 3, latest: true, next: true},
	}
	for _, tc := range cases {
		rec := entry{key: sh010, version: tc.version}
		isLatest, err := auth.IsLatestVersion(ctx, sh010, rec)
		if err != nil {
			t.Fatalf("IsLatestVersion failed: %v", err)
		}
		isNew, err := auth.IsNewVersion(ctx, sh010, rec)
		if err != nil {
			t.Fatalf("IsNewVersion failed: %v", err)
		}
		if isLatest != tc.latest || isNew != tc.next {
			t.Fatalf("version %d: latest=%v new=%v, want %v %v", tc.version, isLatest, isNew, tc.latest, tc.next)
		}
	}
}

func TestCorrectCollision(t *testing.T) {
	ctx := context.Background()
	auth := numbering.New[entry](&memorySeries{entries: []entry{{key: sh010, version: 1}, {key: sh010, version: 2}}})
	number, corrected, err := auth.Correct(ctx, sh010, 1)
	if err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	if number != 3 || !corrected {
		t.Fatalf("expected 3 corrected, got %d %v", number, corrected)
	}
	if number, corrected, _ := auth.Correct(ctx, sh010, 0); number != 3 || corrected {
		t.Fatalf("expected unset request to take next without correction, got %d %v", number, corrected)
	}
	if number, corrected, _ := auth.Correct(ctx, sh010, 10); number != 10 || corrected {
		t.Fatalf("expected request above the maximum to stand, got %d %v", number, corrected)
	}

	holed := numbering.New[entry](&memorySeries{entries: []entry{{key: sh010, version: 1}, {key: sh010, version: 3}}})
	if number, corrected, _ := holed.Correct(ctx, sh010, 2); number != 4 || !corrected {
		t.Fatalf("expected unused number below the maximum to become 4, got %d %v", number, corrected)
	}
}

func TestMonotonicNumbering(t *testing.T) {
	ctx := context.Background()
	series := &memorySeries{}
	auth := numbering.New[entry](series)
	requests := []int{1, 1, 0, 2, 7, 3, 7, -1, 8}
	last := 0
	for _, requested := range requests {
		number, _, err := auth.Correct(ctx, sh010, requested)
		if err != nil {
			t.Fatalf("Correct failed: %v", err)
		}
		if number <= last {
			t.Fatalf("version %d does not exceed %d", number, last)
		}
		if err := series.commit(entry{key: sh010, version: number}); err != nil {
			t.Fatalf("commit failed: %v", err)
		}
		last = number
	}
}

func TestRaceSurfacedAsDuplicate(t *testing.T) {
	ctx := context.Background()
	series := &memorySeries{}
	auth := numbering.New[entry](series)

	// Two authors compute next before either commits.
	first, _ := auth.NextVersionNumber(ctx, sh010)
	second, _ := auth.NextVersionNumber(ctx, sh010)
	if err := series.commit(entry{key: sh010, version: first}); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}
	err := series.commit(entry{key: sh010, version: second})
	var dup *numbering.DuplicateVersionError
	if !errors.As(err, &dup) || dup.Version != 1 {
		t.Fatalf("expected DuplicateVersionError for version 1, got %v", err)
	}
	if !errors.Is(err, faults.ErrConflict) {
		t.Fatal("expected retryable conflict")
	}

	retry, _ := auth.NextVersionNumber(ctx, sh010)
	if retry != 2 {
		t.Fatalf("expected retry to recompute 2, got %d", retry)
	}
}

func TestQueriesAlwaysReadSource(t *testing.T) {
	ctx := context.Background()
	series := &memorySeries{}
	auth := numbering.New[entry](series)
	for i := 0; i < 3; i++ {
		_, _ = auth.NextVersionNumber(ctx, sh010)
	}
	if series.reads != 3 {
		t.Fatalf("expected a read per query, got %d", series.reads)
	}
}

func TestSeriesFuncAndErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk gone")
	auth := numbering.New[entry](numbering.SeriesFunc[entry](func(context.Context, numbering.Key) ([]entry, error) {
		return nil, boom
	}))
	if _, err := auth.NextVersionNumber(ctx, sh010); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	var unset *numbering.Authority[entry]
	if _, err := unset.LatestVersion(ctx, sh010); !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
