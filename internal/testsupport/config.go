package testsupport

import (
	"path/filepath"
	"testing"

	"reel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ProjectsRoot = filepath.Join(base, "projects")
	cfgVal.Paths.Database = filepath.Join(base, "data", "reel.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.User = config.User{Name: "Test Artist", Initials: "ta"}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithUser sets the default author.
func WithUser(name, initials string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.User = config.User{Name: name, Initials: initials}
	}
}

// WithoutSubName drops the sub-name field from the naming layout.
func WithoutSubName() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Naming.SubNameField = false
	}
}

// WithVersionTypes replaces the configured version types.
func WithVersionTypes(types ...config.VersionType) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.VersionTypes = append([]config.VersionType(nil), types...)
	}
}

// WithRepoVariable sets the repo variable to name and exports the projects
// root under it for the duration of the test.
func WithRepoVariable(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.RepoVariable = name
		b.t.Setenv(name, b.cfg.Paths.ProjectsRoot)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ProjectsRoot)
}
