package config

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"reel/internal/environment"
	"reel/internal/render"
)

var validLogLevels = map[string]struct{}{"debug": {}, "info": {}, "warn": {}, "error": {}}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateUser(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateEnvironments(); err != nil {
		return err
	}
	if err := c.validateVersionTypes(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.ProjectsRoot == "" {
		return errors.New("paths.projects_root must be set")
	}
	if c.Paths.Database == "" {
		return errors.New("paths.database must be set")
	}
	return nil
}

func (c *Config) validateNaming() error {
	n := c.Naming
	if strings.TrimSpace(n.Separator) == "" {
		return errors.New("naming.separator must not be blank")
	}
	if n.RevisionPrefix == "" {
		return errors.New("naming.revision_prefix must be set")
	}
	if n.VersionPrefix == "" {
		return errors.New("naming.version_prefix must be set")
	}
	if n.RevisionPrefix == n.VersionPrefix {
		return fmt.Errorf("naming.revision_prefix and naming.version_prefix must differ (both %q)", n.RevisionPrefix)
	}
	for key, prefix := range map[string]string{
		"naming.revision_prefix": n.RevisionPrefix,
		"naming.version_prefix":  n.VersionPrefix,
		"naming.shot_prefix":     n.ShotPrefix,
	} {
		if strings.Contains(prefix, n.Separator) {
			return fmt.Errorf("%s must not contain the separator %q", key, n.Separator)
		}
		if strings.IndexFunc(prefix, unicode.IsDigit) >= 0 {
			return fmt.Errorf("%s must not contain digits", key)
		}
	}
	if n.RevisionPadding <= 0 {
		return errors.New("naming.revision_padding must be positive")
	}
	if n.VersionPadding <= 0 {
		return errors.New("naming.version_padding must be positive")
	}
	if n.ShotPadding <= 0 {
		return errors.New("naming.shot_padding must be positive")
	}
	if strings.Contains(n.DefaultTake, n.Separator) {
		return fmt.Errorf("naming.default_take must not contain the separator %q", n.Separator)
	}
	return nil
}

func (c *Config) validateUser() error {
	if strings.Contains(c.User.Initials, c.Naming.Separator) {
		return fmt.Errorf("user.initials must not contain the separator %q", c.Naming.Separator)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return errors.New("logging.retention_days must not be negative")
	}
	return nil
}

func (c *Config) validateEnvironments() error {
	seen := make(map[string]struct{}, len(c.Environments))
	for i, env := range c.Environments {
		if _, err := environment.ParseKind(env.Name); err != nil {
			return fmt.Errorf("environments[%d].name: %w", i, err)
		}
		if _, ok := seen[env.Name]; ok {
			return fmt.Errorf("environments[%d].name: %q listed twice", i, env.Name)
		}
		seen[env.Name] = struct{}{}
	}
	return nil
}

func (c *Config) validateVersionTypes() error {
	if len(c.VersionTypes) == 0 {
		return errors.New("at least one [[version_types]] entry is required")
	}
	seen := make(map[string]struct{}, len(c.VersionTypes))
	for i, vt := range c.VersionTypes {
		key := fmt.Sprintf("version_types[%d]", i)
		if vt.Name == "" {
			return fmt.Errorf("%s.name must be set", key)
		}
		folded := strings.ToLower(vt.Name)
		if _, ok := seen[folded]; ok {
			return fmt.Errorf("%s.name: %q listed twice", key, vt.Name)
		}
		seen[folded] = struct{}{}
		if strings.Contains(vt.Name, c.Naming.Separator) {
			return fmt.Errorf("%s.name %q must not contain the separator %q", key, vt.Name, c.Naming.Separator)
		}
		if vt.Path == "" {
			return fmt.Errorf("%s.path must be set", key)
		}
		for field, template := range map[string]string{"path": vt.Path, "filename": vt.FileName, "output": vt.Output} {
			if err := render.Check(template); err != nil {
				return fmt.Errorf("%s.%s: %w", key, field, err)
			}
		}
		for j, env := range vt.Environments {
			if _, err := environment.ParseKind(env); err != nil {
				return fmt.Errorf("%s.environments[%d]: %w", key, j, err)
			}
		}
	}
	return nil
}
