package version

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"reel/internal/faults"
	"reel/internal/logging"
	"reel/internal/numbering"
	"reel/internal/render"
	"reel/internal/vtype"
)

// Filter selects versions. Zero fields match everything.
type Filter struct {
	VersionableID int64
	TypeName      string
	BaseName      string
	TakeName      string
}

// Repository is the persistence collaborator. Versions returns matches
// ordered by version number, highest first. AddVersion must report a
// (base name, take, version number) uniqueness violation as a
// *numbering.DuplicateVersionError and fill in the version ID on success.
type Repository interface {
	Versions(ctx context.Context, filter Filter) ([]*Version, error)
	AddVersion(ctx context.Context, v *Version) error
}

// Spec describes a version to create.
type Spec struct {
	Versionable *Versionable
	TypeName    string
	// BaseName is ignored for shot-dependent types, which use the shot code.
	BaseName string
	TakeName string
	// Version is the requested number. Zero takes the next number; a number
	// already in use is moved past the current maximum.
	Version int
	// Revision, when set, is used as is. Otherwise the series stays on its
	// current revision unless BumpRevision is set.
	Revision     *int
	BumpRevision bool
	Note         string
	Author       Author
	Extension    string
}

// Service creates and queries versions.
type Service struct {
	repo     Repository
	types    *vtype.Registry
	renderer *render.Renderer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires a service. logger may be nil.
func NewService(repo Repository, types *vtype.Registry, renderer *render.Renderer, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		types:    types,
		renderer: renderer,
		logger:   logging.NewComponentLogger(logger, "version"),
		now:      time.Now,
	}
}

// Authority returns a numbering authority reading from the repository.
func (s *Service) Authority() *numbering.Authority[*Version] {
	return numbering.New[*Version](numbering.SeriesFunc[*Version](func(ctx context.Context, key numbering.Key) ([]*Version, error) {
		return s.repo.Versions(ctx, Filter{BaseName: key.BaseName, TakeName: key.Take})
	}))
}

// Create numbers, renders and commits a new version.
func (s *Service) Create(ctx context.Context, spec Spec) (*Version, error) {
	if id, ok := logging.CorrelationIDFromContext(ctx); !ok || id == "" {
		ctx = logging.WithCorrelationID(ctx, uuid.NewString())
	}
	logger := logging.WithContext(ctx, s.logger)

	if spec.Versionable == nil {
		return nil, &render.PreconditionError{Missing: "versionable"}
	}
	if strings.TrimSpace(spec.TypeName) == "" {
		return nil, &render.PreconditionError{Missing: "version type"}
	}
	typ, err := s.types.Lookup(spec.TypeName)
	if err != nil {
		return nil, err
	}

	baseName := strings.TrimSpace(spec.BaseName)
	if typ.ShotDependent() {
		baseName = spec.Versionable.Placement.ShotCode
		if baseName == "" {
			return nil, &render.PreconditionError{Missing: "shot for shot-dependent type " + typ.Name()}
		}
	}
	if baseName == "" {
		baseName = spec.Versionable.Name
	}
	take := strings.TrimSpace(spec.TakeName)
	if take == "" {
		take = DefaultTake
	}
	key := numbering.Key{BaseName: baseName, Take: take}

	auth := s.Authority()
	number, corrected, err := auth.Correct(ctx, key, spec.Version)
	if err != nil {
		return nil, err
	}
	if corrected {
		logger.Info("requested version already in use",
			logging.String(logging.FieldEventType, "version_number_corrected"),
			logging.String("key", key.String()),
			logging.Int("requested", spec.Version),
			logging.Int("assigned", number),
		)
	}

	var revision int
	switch {
	case spec.Revision != nil:
		if *spec.Revision < 0 {
			return nil, faults.Wrap(faults.ErrValidation, "version", "create", fmt.Sprintf("revision %d must not be negative", *spec.Revision), nil)
		}
		revision = *spec.Revision
	case spec.BumpRevision:
		revision, err = auth.IncrementRevision(ctx, key)
	default:
		revision, err = auth.NextRevisionNumber(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	v := &Version{
		Note:      strings.TrimSpace(spec.Note),
		CreatedAt: s.now().UTC(),
	}
	v.SetAuthor(spec.Author)
	v.SetExtension(spec.Extension)
	v.SetType(typ.Name())
	v.SetBaseName(baseName)
	v.SetTakeName(take)
	v.SetRevision(revision)
	v.SetVersionNumber(number)
	spec.Versionable.Add(v)

	paths, err := v.Paths(s.renderer, s.types)
	if err != nil {
		spec.Versionable.remove(v)
		return nil, err
	}

	if err := s.repo.AddVersion(ctx, v); err != nil {
		spec.Versionable.remove(v)
		var dup *numbering.DuplicateVersionError
		if errors.As(err, &dup) {
			logging.WarnWithContext(logger, "version number taken before commit",
				"version_duplicate",
				logging.String("key", key.String()),
				logging.Int("version", number),
				logging.String(logging.FieldErrorHint, "recompute the next version and retry"),
				logging.String(logging.FieldImpact, "version was not created"),
			)
		}
		return nil, err
	}

	logger.Info("version created",
		logging.String(logging.FieldEventType, "version_created"),
		logging.String("type", typ.Name()),
		logging.String("key", key.String()),
		logging.Int("version", number),
		logging.Int("revision", revision),
		logging.String("path", paths.FullPath),
	)
	return v, nil
}

// List returns versions matching filter, highest version first.
func (s *Service) List(ctx context.Context, filter Filter) ([]*Version, error) {
	return s.repo.Versions(ctx, filter)
}

// Latest returns the latest version for key.
func (s *Service) Latest(ctx context.Context, key numbering.Key) (numbering.Latest[*Version], error) {
	return s.Authority().LatestVersion(ctx, withDefaultTake(key))
}

// Next returns the next version number and the current revision for key.
func (s *Service) Next(ctx context.Context, key numbering.Key) (version, revision int, err error) {
	key = withDefaultTake(key)
	auth := s.Authority()
	if version, err = auth.NextVersionNumber(ctx, key); err != nil {
		return 0, 0, err
	}
	if revision, err = auth.NextRevisionNumber(ctx, key); err != nil {
		return 0, 0, err
	}
	return version, revision, nil
}

// Paths renders the path triple of v.
func (s *Service) Paths(v *Version) (render.Paths, error) {
	return v.Paths(s.renderer, s.types)
}

func withDefaultTake(key numbering.Key) numbering.Key {
	if strings.TrimSpace(key.Take) == "" {
		key.Take = DefaultTake
	}
	return key
}

func (o *Versionable) remove(v *Version) {
	for i, candidate := range o.versions {
		if candidate == v {
			o.versions = append(o.versions[:i], o.versions[i+1:]...)
			return
		}
	}
}
