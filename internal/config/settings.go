package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the default configuration file name inside the working directory.
const FileName = "bing-wp.toml"

// Backup naming strategies.
const (
	// BackupCount numbers backups by counting existing "*[0-9]*.jpg" files.
	BackupCount = "count"

	// BackupCounter numbers backups from the persisted history counter.
	BackupCounter = "counter"
)

// Settings holds all configuration options.
type Settings struct {
	Bing    Bing    `toml:"bing"`
	HTTP    HTTP    `toml:"http"`
	Files   Files   `toml:"files"`
	Readme  Readme  `toml:"readme"`
	Logging Logging `toml:"logging"`
	Archive Archive `toml:"archive"`
}

// Bing describes the remote endpoints.
type Bing struct {
	ArchiveEndpoint string `toml:"archive_endpoint"`
	ImageHost       string `toml:"image_host"`
	Market          string `toml:"market"`
	Language        string `toml:"language"`
	UHDWidth        int    `toml:"uhd_width"`
	UHDHeight       int    `toml:"uhd_height"`
	Count           int    `toml:"count"`
}

// HTTP controls request behavior.
type HTTP struct {
	UserAgent              string  `toml:"user_agent"`
	Retries                int     `toml:"retries"`
	RetryCooldown          float64 `toml:"retry_cooldown"`
	RetryExponent          float64 `toml:"retry_exponent"`
	FetchTimeoutSeconds    float64 `toml:"fetch_timeout_seconds"`
	DownloadTimeoutSeconds float64 `toml:"download_timeout_seconds"`
	ChunkSize              int     `toml:"chunk_size"`
}

// Files lists the local paths, relative to the working directory unless absolute.
type Files struct {
	WorkDir        string `toml:"work_dir"`
	Wallpaper      string `toml:"wallpaper"`
	Bitmap         string `toml:"bitmap"`
	BitmapMaxWidth int    `toml:"bitmap_max_width"`
	LockFile       string `toml:"lock_file"`
	HistoryDB      string `toml:"history_db"`
	BackupStrategy string `toml:"backup_strategy"`
}

// Readme controls the markdown patch.
type Readme struct {
	Path            string `toml:"path"`
	ThumbnailWidth  int    `toml:"thumbnail_width"`
	PatchOnDownload bool   `toml:"patch_on_download"`
}

// Logging controls the run log.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Archive controls the archive command.
type Archive struct {
	Dir         string `toml:"dir"`
	Concurrency int    `toml:"concurrency"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Bing: Bing{
			ArchiveEndpoint: "https://global.bing.com/HPImageArchive.aspx",
			ImageHost:       "https://cn.bing.com",
			Market:          "zh-CN",
			Language:        "en",
			UHDWidth:        2560,
			UHDHeight:       1440,
			Count:           8,
		},
		HTTP: HTTP{
			UserAgent:              "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
			Retries:                3,
			RetryCooldown:          0.2,
			RetryExponent:          2.0,
			FetchTimeoutSeconds:    5,
			DownloadTimeoutSeconds: 10,
			ChunkSize:              1024 * 1024,
		},
		Files: Files{
			WorkDir:        ".",
			Wallpaper:      "wallpaper.jpg",
			Bitmap:         "wallpaper.bmp",
			LockFile:       ".bing-wp.lock",
			HistoryDB:      "history.db",
			BackupStrategy: BackupCount,
		},
		Readme: Readme{
			Path:           "README.md",
			ThumbnailWidth: 1000,
		},
		Logging: Logging{
			Level:  "info",
			Format: "text",
			File:   "log.txt",
		},
		Archive: Archive{
			Dir:         "archive",
			Concurrency: 4,
		},
	}
}

// Load reads settings from a TOML file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a TOML file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(s)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid option.
func (s *Settings) Validate() error {
	switch {
	case strings.TrimSpace(s.Bing.ArchiveEndpoint) == "":
		return errors.New("bing.archive_endpoint: must not be empty")
	case strings.TrimSpace(s.Bing.ImageHost) == "":
		return errors.New("bing.image_host: must not be empty")
	case s.Bing.Count < 1 || s.Bing.Count > 8:
		return fmt.Errorf("bing.count: %d out of range [1,8]", s.Bing.Count)
	case s.HTTP.Retries < 0:
		return fmt.Errorf("http.retries: %d must not be negative", s.HTTP.Retries)
	case s.HTTP.FetchTimeoutSeconds <= 0:
		return errors.New("http.fetch_timeout_seconds: must be positive")
	case s.HTTP.DownloadTimeoutSeconds <= 0:
		return errors.New("http.download_timeout_seconds: must be positive")
	case s.HTTP.ChunkSize <= 0:
		return errors.New("http.chunk_size: must be positive")
	case strings.TrimSpace(s.Files.Wallpaper) == "":
		return errors.New("files.wallpaper: must not be empty")
	case s.Files.BackupStrategy != BackupCount && s.Files.BackupStrategy != BackupCounter:
		return fmt.Errorf("files.backup_strategy: unsupported value %q", s.Files.BackupStrategy)
	case s.Readme.ThumbnailWidth <= 0:
		return errors.New("readme.thumbnail_width: must be positive")
	case s.Archive.Concurrency < 1:
		return errors.New("archive.concurrency: must be at least 1")
	}
	return nil
}

// Resolve returns path relative to the working directory unless it is absolute.
// An empty path stays empty.
func (s *Settings) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Files.WorkDir, path)
}

// FetchTimeout returns the manifest request budget.
func (s *Settings) FetchTimeout() time.Duration {
	return seconds(s.HTTP.FetchTimeoutSeconds)
}

// DownloadTimeout returns the image request budget.
func (s *Settings) DownloadTimeout() time.Duration {
	return seconds(s.HTTP.DownloadTimeoutSeconds)
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
