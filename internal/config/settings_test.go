package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.HTTP.Retries != 3 {
		t.Errorf("Retries = %d, want 3", settings.HTTP.Retries)
	}
	if settings.FetchTimeout() != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", settings.FetchTimeout())
	}
	if settings.DownloadTimeout() != 10*time.Second {
		t.Errorf("DownloadTimeout = %v, want 10s", settings.DownloadTimeout())
	}
	if settings.HTTP.ChunkSize != 1<<20 {
		t.Errorf("ChunkSize = %d, want 1 MiB", settings.HTTP.ChunkSize)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bing-wp.toml")
	content := `
[bing]
market = "en-US"

[readme]
path = "docs/INDEX.md"
patch_on_download = true

[files]
backup_strategy = "counter"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if settings.Bing.Market != "en-US" {
		t.Errorf("Market = %q, want %q", settings.Bing.Market, "en-US")
	}
	if settings.Bing.ImageHost != "https://cn.bing.com" {
		t.Errorf("ImageHost = %q, default should survive", settings.Bing.ImageHost)
	}
	if !settings.Readme.PatchOnDownload {
		t.Error("PatchOnDownload should be true")
	}
	if settings.Files.BackupStrategy != BackupCounter {
		t.Errorf("BackupStrategy = %q, want %q", settings.Files.BackupStrategy, BackupCounter)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bing-wp.toml")
	if err := os.WriteFile(path, []byte("[files]\nbackup_strategy = \"random\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}

	if err := os.WriteFile(path, []byte("not = [valid"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestSettings_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bing-wp.toml")
	settings := DefaultSettings()
	settings.Readme.ThumbnailWidth = 640

	if err := settings.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Readme.ThumbnailWidth != 640 {
		t.Errorf("ThumbnailWidth = %d, want 640", loaded.Readme.ThumbnailWidth)
	}
}

func TestSettings_Resolve(t *testing.T) {
	settings := DefaultSettings()
	settings.Files.WorkDir = "/srv/wallpapers"

	if got := settings.Resolve("wallpaper.jpg"); got != filepath.Join("/srv/wallpapers", "wallpaper.jpg") {
		t.Errorf("Resolve(relative) = %q", got)
	}
	abs := filepath.Join(t.TempDir(), "x.jpg")
	if got := settings.Resolve(abs); got != abs {
		t.Errorf("Resolve(absolute) = %q, want %q", got, abs)
	}
	if got := settings.Resolve(""); got != "" {
		t.Errorf("Resolve(\"\") = %q, want empty", got)
	}
}
