package main

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/handiism/bing-wallpaper/internal/config"
	"github.com/handiism/bing-wallpaper/internal/history"
	"github.com/handiism/bing-wallpaper/internal/logging"
	"github.com/handiism/bing-wallpaper/internal/wallpaper"
)

type commandContext struct {
	configFlag *string
	dirFlag    *string

	settingsOnce sync.Once
	settings     *config.Settings
	settingsErr  error
}

func newCommandContext(configFlag, dirFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		dirFlag:    dirFlag,
	}
}

// workDir is the -d flag, or "" when unset.
func (c *commandContext) workDir() string {
	if c.dirFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.dirFlag)
}

// configPath is the -c flag, or bing-wp.toml inside the working directory.
func (c *commandContext) configPath() string {
	if c.configFlag != nil {
		if path := strings.TrimSpace(*c.configFlag); path != "" {
			return path
		}
	}
	return filepath.Join(c.workDir(), config.FileName)
}

func (c *commandContext) ensureSettings() (*config.Settings, error) {
	c.settingsOnce.Do(func() {
		settings, err := config.Load(c.configPath())
		if err != nil {
			c.settingsErr = err
			return
		}
		if dir := c.workDir(); dir != "" {
			settings.Files.WorkDir = dir
		}
		c.settings = settings
	})
	return c.settings, c.settingsErr
}

// newLogger logs to w when console is set, otherwise to the configured
// log file.
func (c *commandContext) newLogger(console bool, w io.Writer) (*slog.Logger, func() error, error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, nil, err
	}
	return logging.New(logging.Options{
		Level:   settings.Logging.Level,
		Format:  settings.Logging.Format,
		Path:    settings.Resolve(settings.Logging.File),
		Console: console,
		Writer:  w,
	})
}

// openHistory returns nil without error when history is disabled.
func (c *commandContext) openHistory() (*history.Store, error) {
	settings, err := c.ensureSettings()
	if err != nil {
		return nil, err
	}
	path := settings.Resolve(settings.Files.HistoryDB)
	if path == "" {
		return nil, nil
	}
	return history.Open(path)
}

func progressLogger(logger *slog.Logger) func(wallpaper.ProgressEvent) {
	return func(event wallpaper.ProgressEvent) {
		level := slog.LevelInfo
		switch event.Level {
		case wallpaper.LevelVerbose:
			level = slog.LevelDebug
		case wallpaper.LevelWarning:
			level = slog.LevelWarn
		case wallpaper.LevelError:
			level = slog.LevelError
		}
		logger.Log(context.Background(), level, event.Message)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
