package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNaming()
	c.normalizeUser()
	c.normalizeLogging()
	c.normalizeEnvironments()
	c.normalizeVersionTypes()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("REEL_PROJECTS_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.ProjectsRoot = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.ProjectsRoot) == "" {
		c.Paths.ProjectsRoot = defaultProjectsRoot
	}
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabase
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.ProjectsRoot, err = expandPath(strings.TrimSpace(c.Paths.ProjectsRoot)); err != nil {
		return fmt.Errorf("paths.projects_root: %w", err)
	}
	if c.Paths.Database, err = expandPath(strings.TrimSpace(c.Paths.Database)); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.RepoVariable = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(c.Paths.RepoVariable), "$"))
	if c.Paths.RepoVariable == "" {
		c.Paths.RepoVariable = defaultRepoVariable
	}
	return nil
}

func (c *Config) normalizeNaming() {
	n := &c.Naming
	if n.Separator == "" {
		n.Separator = defaultSeparator
	}
	n.RevisionPrefix = strings.TrimSpace(n.RevisionPrefix)
	n.VersionPrefix = strings.TrimSpace(n.VersionPrefix)
	n.ShotPrefix = strings.ToUpper(strings.TrimSpace(n.ShotPrefix))
	n.DefaultTake = strings.TrimSpace(n.DefaultTake)
	if n.DefaultTake == "" {
		n.DefaultTake = defaultTake
	}
	n.IgnoreExtensions = normalizeExtensions(n.IgnoreExtensions)
	patterns := n.IgnorePatterns[:0]
	for _, pattern := range n.IgnorePatterns {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	n.IgnorePatterns = patterns
}

func (c *Config) normalizeUser() {
	c.User.Name = strings.TrimSpace(c.User.Name)
	c.User.Initials = strings.ToLower(strings.TrimSpace(c.User.Initials))
	if c.User.Name == "" {
		c.User.Name = strings.TrimSpace(os.Getenv("USER"))
	}
	if c.User.Initials == "" {
		c.User.Initials = initialsFrom(c.User.Name)
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func (c *Config) normalizeEnvironments() {
	for i := range c.Environments {
		env := &c.Environments[i]
		env.Name = strings.ToLower(strings.TrimSpace(env.Name))
		env.Extensions = normalizeExtensions(env.Extensions)
	}
}

func (c *Config) normalizeVersionTypes() {
	for i := range c.VersionTypes {
		vt := &c.VersionTypes[i]
		vt.Name = strings.TrimSpace(vt.Name)
		vt.Code = strings.TrimSpace(vt.Code)
		vt.Path = strings.TrimSpace(vt.Path)
		vt.FileName = strings.TrimSpace(vt.FileName)
		vt.Output = strings.TrimSpace(vt.Output)
		for j, env := range vt.Environments {
			vt.Environments[j] = strings.ToLower(strings.TrimSpace(env))
		}
	}
}

func normalizeExtensions(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, ext := range values {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	return out
}

// initialsFrom takes the first letter of up to three words of name.
func initialsFrom(name string) string {
	var b strings.Builder
	for _, word := range strings.FieldsFunc(name, func(r rune) bool { return r == ' ' || r == '.' || r == '-' || r == '_' }) {
		if b.Len() == 3 {
			break
		}
		b.WriteString(strings.ToLower(string([]rune(word)[:1])))
	}
	return b.String()
}
