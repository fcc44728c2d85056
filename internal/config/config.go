package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectsRoot string `toml:"projects_root"`
	Database     string `toml:"database"`
	LogDir       string `toml:"log_dir"`
	// RepoVariable names the environment variable that stands in for
	// ProjectsRoot in stored paths.
	RepoVariable string `toml:"repo_variable"`
}

// Naming contains the file-name convention.
type Naming struct {
	Separator        string   `toml:"separator"`
	SubNameField     bool     `toml:"sub_name_field"`
	RevisionPrefix   string   `toml:"revision_prefix"`
	RevisionPadding  int      `toml:"revision_padding"`
	VersionPrefix    string   `toml:"version_prefix"`
	VersionPadding   int      `toml:"version_padding"`
	ShotPrefix       string   `toml:"shot_prefix"`
	ShotPadding      int      `toml:"shot_padding"`
	DefaultTake      string   `toml:"default_take"`
	IgnoreExtensions []string `toml:"ignore_extensions"`
	IgnorePatterns   []string `toml:"ignore_patterns"`
}

// User identifies the default author.
type User struct {
	Name     string `toml:"name"`
	Initials string `toml:"initials"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`

	// RetentionDays prunes reel-*.log files older than this. Zero keeps all.
	RetentionDays int `toml:"retention_days"`
}

// Environment lists the extensions a host application authors.
type Environment struct {
	Name       string   `toml:"name"`
	Extensions []string `toml:"extensions"`
}

// VersionType is one configured deliverable category.
type VersionType struct {
	Name          string   `toml:"name"`
	Code          string   `toml:"code"`
	Path          string   `toml:"path"`
	FileName      string   `toml:"filename"`
	Output        string   `toml:"output"`
	ShotDependent bool     `toml:"shot_dependent"`
	Environments  []string `toml:"environments"`
}

// Config encapsulates all configuration values for reel.
//
// Configuration sections:
//   - Paths: projects root, database file and log directory
//   - Naming: separator, number prefixes and paddings, scan filters
//   - User: default author name and initials
//   - Logging: log format and level
//   - Environments: host applications and their extensions
//   - VersionTypes: deliverable categories and their templates
type Config struct {
	Paths        Paths         `toml:"paths"`
	Naming       Naming        `toml:"naming"`
	User         User          `toml:"user"`
	Logging      Logging       `toml:"logging"`
	Environments []Environment `toml:"environments"`
	VersionTypes []VersionType `toml:"version_types"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		// Tables given in the file replace the defaults wholesale.
		cfg.Environments = nil
		cfg.VersionTypes = nil
		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
		if len(cfg.Environments) == 0 {
			cfg.Environments = defaultEnvironments()
		}
		if len(cfg.VersionTypes) == 0 {
			cfg.VersionTypes = defaultVersionTypes()
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the projects root, the database directory and
// the log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.ProjectsRoot, filepath.Dir(c.Paths.Database), c.Paths.LogDir}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
