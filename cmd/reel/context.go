package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/legacy"
	"reel/internal/logging"
	"reel/internal/store"
	"reel/internal/version"
	"reel/internal/workspace"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// workspace builds a workspace without opening the database.
func (c *commandContext) workspace() (*workspace.Workspace, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return newWorkspaceFor(cfg)
}

func newWorkspaceFor(cfg *config.Config) (*workspace.Workspace, error) {
	return workspace.New(cfg, logging.NewNop())
}

// session is everything a database-backed command needs.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	ws      *workspace.Workspace
	store   *store.Store
	service *version.Service

	closers []io.Closer
}

// withSession opens logging, the workspace and the store, syncs the
// configured version types into the database and calls fn.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(context.Context, *session) error) error {
	return c.run(cmd, true, fn)
}

// withFolders is withSession for commands that only touch the filesystem;
// the session has no store or service.
func (c *commandContext) withFolders(cmd *cobra.Command, fn func(context.Context, *session) error) error {
	return c.run(cmd, false, fn)
}

func (c *commandContext) run(cmd *cobra.Command, withStore bool, fn func(context.Context, *session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()
	logger, logCloser, err := logging.NewFromConfig(cfg, stderr, shouldColorize(stderr))
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	s := &session{cfg: cfg, logger: logger, closers: []io.Closer{logCloser}}
	defer s.close()

	if s.ws, err = workspace.New(cfg, logger); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if withStore {
		if s.store, err = store.Open(cfg); err != nil {
			return err
		}
		s.closers = append(s.closers, s.store)
		if err := s.store.SyncTypes(ctx, s.ws.Types()); err != nil {
			return err
		}
		s.service = version.NewService(s.store, s.ws.Types(), s.ws.Renderer(), logger)
	}
	return fn(ctx, s)
}

func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i].Close()
	}
}

// index builds the legacy folder index from the naming configuration.
func (s *session) index() (*legacy.Index, error) {
	return newIndex(s.cfg, s.ws, s.logger)
}

func newIndex(cfg *config.Config, ws *workspace.Workspace, logger *slog.Logger) (*legacy.Index, error) {
	return legacy.NewIndex(legacy.OSFS{}, ws.Codec(), legacy.Options{
		IgnoreExtensions: cfg.Naming.IgnoreExtensions,
		IgnorePatterns:   cfg.Naming.IgnorePatterns,
		Logger:           logger,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func requireArg(value, name string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(name + " is required")
	}
	return nil
}
