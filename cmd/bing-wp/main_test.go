package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/handiism/bing-wallpaper/internal/config"
	"github.com/handiism/bing-wallpaper/internal/wallpaper"
)

const cliManifest = `{"images":[
{"startdate":"20240424","enddate":"20240425","url":"/th?id=OHR.Sunset_UHD.jpg&rf=LaDigue_UHD.jpg","copyright":"Coast (© Someone)","copyrightlink":"/search?q=coast","title":"Sunset","hsh":"a"},
{"startdate":"20240423","enddate":"20240424","url":"/th?id=OHR.Forest_UHD.jpg&rf=LaDigue_UHD.jpg","copyright":"Woods (© Other)","copyrightlink":"/search?q=woods","title":"Forest","hsh":"b"}
]}`

type cliTestEnv struct {
	server     *httptest.Server
	dir        string
	configPath string
	imageCalls *int32
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	var imageCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/HPImageArchive.aspx":
			w.Write([]byte(cliManifest))
		case "/th":
			atomic.AddInt32(&imageCalls, 1)
			w.Write([]byte("jpeg-bytes"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	base := t.TempDir()
	settings := config.DefaultSettings()
	settings.Bing.ArchiveEndpoint = srv.URL + "/HPImageArchive.aspx"
	settings.Bing.ImageHost = srv.URL
	settings.HTTP.Retries = 0
	configPath := filepath.Join(base, "bing-wp.toml")
	if err := settings.Save(configPath); err != nil {
		t.Fatalf("save config: %v", err)
	}

	dir := filepath.Join(base, "work")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	return &cliTestEnv{server: srv, dir: dir, configPath: configPath, imageCalls: &imageCalls}
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLI(t, append([]string{"--config", env.configPath, "--dir", env.dir}, args...))
}

func runCLI(t *testing.T, args []string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRootDownloadsAndLogsToFile(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(filepath.Join(env.dir, "wallpaper.jpg"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := env.run(t, "-s", "1")
	if err != nil {
		t.Fatalf("bing-wp -s 1: %v", err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty when logging to file", out)
	}

	data, err := os.ReadFile(filepath.Join(env.dir, "wallpaper.jpg"))
	if err != nil || string(data) != "jpeg-bytes" {
		t.Errorf("wallpaper.jpg = (%q, %v)", data, err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "1.jpg")); err != nil {
		t.Errorf("expected backup 1.jpg: %v", err)
	}

	log, err := os.ReadFile(filepath.Join(env.dir, "log.txt"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	requireContains(t, string(log), "Download image successfully")
	requireContains(t, string(log), "run_id=")

	out, _, err = env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Sunset")
	requireContains(t, out, "2024-04-25")
	requireContains(t, out, "1.jpg")
}

func TestRootUpdateOnlyPatchesReadme(t *testing.T) {
	env := setupCLITestEnv(t)
	readmePath := filepath.Join(env.dir, "README.md")
	if err := os.WriteFile(readmePath, []byte("# Wallpapers\nx\ny\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := env.run(t, "-u", "-n", "1")
	if err != nil {
		t.Fatalf("bing-wp -u: %v", err)
	}
	requireContains(t, out, "Fetch json successfully")

	data, err := os.ReadFile(readmePath)
	if err != nil {
		t.Fatal(err)
	}
	requireContains(t, string(data), "**2024-04-24:** Forest\n")
	if got := atomic.LoadInt32(env.imageCalls); got != 0 {
		t.Errorf("image requests = %d, want 0", got)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "log.txt")); !os.IsNotExist(err) {
		t.Errorf("log.txt should not be written in update mode, stat err = %v", err)
	}
}

func TestRootNetworkFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	env.server.Close()

	for _, args := range [][]string{{"-s", "1"}, nil} {
		_, _, err := env.run(t, args...)
		if !errors.Is(err, wallpaper.ErrNetwork) {
			t.Fatalf("args %v: error = %v, want ErrNetwork", args, err)
		}
	}

	entries, err := os.ReadDir(env.dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, entry := range entries {
		if entry.Name() != "log.txt" {
			t.Errorf("unexpected file %s after network failure", entry.Name())
		}
	}
}

func TestListPrintsTable(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "list", "--urls")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "Sunset")
	requireContains(t, out, "Forest")
	requireContains(t, out, "2024-04-25")
	requireContains(t, out, env.server.URL+"/th?id=OHR.Sunset_UHD.jpg")
}

func TestArchiveDownloadsAll(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.dir, "pics")

	out, _, err := env.run(t, "archive", target)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	requireContains(t, out, "Archived 2 new images")

	for _, name := range []string{"20240425_OHR.Sunset_UHD.jpg", "20240424_OHR.Forest_UHD.jpg"} {
		if _, err := os.Stat(filepath.Join(target, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestArchiveRejectsWorkDir(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := env.run(t, "archive", env.dir)
	if !errors.Is(err, wallpaper.ErrArchiveInWorkDir) {
		t.Fatalf("error = %v, want ErrArchiveInWorkDir", err)
	}
	if got := atomic.LoadInt32(env.imageCalls); got != 0 {
		t.Errorf("image requests = %d, want 0", got)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := env.run(t, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No downloads recorded yet.")
}

func TestConfigInitAndShow(t *testing.T) {
	target := filepath.Join(t.TempDir(), "bing-wp.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target})
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote default configuration")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}); err == nil {
		t.Fatal("expected error when config already exists")
	}

	out, _, err = runCLI(t, []string{"--config", target, "config", "show"})
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "archive_endpoint")
	requireContains(t, out, "HPImageArchive.aspx")
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bing-wp.toml")
	if err := os.WriteFile(path, []byte("[archive]\nconcurrency = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"--config", path, "-s", "0"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "archive.concurrency")
}
