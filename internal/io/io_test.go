package ioutils

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCountBackups(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.jpg", "2.jpg", "20240425_OHR.Sunset.jpg", "wallpaper.jpg", "3.png", "notes.txt"} {
		touch(t, filepath.Join(dir, name), name)
	}
	if err := os.Mkdir(filepath.Join(dir, "9.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	n, err := CountBackups(dir)
	if err != nil {
		t.Fatalf("CountBackups failed: %v", err)
	}
	if n != 3 {
		t.Errorf("CountBackups = %d, want 3", n)
	}
}

func TestRenameToBackup(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "1.jpg"), "first")
	touch(t, filepath.Join(dir, "2.jpg"), "second")
	touch(t, filepath.Join(dir, "wallpaper.jpg"), "current")

	n, err := CountBackups(dir)
	if err != nil {
		t.Fatal(err)
	}
	name, err := RenameToBackup(filepath.Join(dir, "wallpaper.jpg"), dir, n+1)
	if err != nil {
		t.Fatalf("RenameToBackup failed: %v", err)
	}
	if name != "3.jpg" {
		t.Errorf("backup name = %q, want %q", name, "3.jpg")
	}

	checks := map[string]string{"1.jpg": "first", "2.jpg": "second", "3.jpg": "current"}
	for file, want := range checks {
		got, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			t.Fatalf("read %s: %v", file, err)
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", file, got, want)
		}
	}
	if exists, _ := FileExists(filepath.Join(dir, "wallpaper.jpg")); exists {
		t.Error("wallpaper.jpg should have been renamed")
	}
}

func TestRenameToBackup_NoCurrentFile(t *testing.T) {
	dir := t.TempDir()
	name, err := RenameToBackup(filepath.Join(dir, "wallpaper.jpg"), dir, 1)
	if err != nil {
		t.Fatalf("RenameToBackup failed: %v", err)
	}
	if name != "" {
		t.Errorf("backup name = %q, want empty", name)
	}
}

func writeJPEG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}

func TestImageService_ConvertToBMP(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wallpaper.jpg")
	dst := filepath.Join(dir, "wallpaper.bmp")
	writeJPEG(t, src, 64, 32)

	svc := NewImageService()
	if err := svc.ConvertToBMP(context.Background(), src, dst, 32); err != nil {
		t.Fatalf("ConvertToBMP failed: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	header := make([]byte, 2)
	if _, err := f.Read(header); err != nil {
		t.Fatal(err)
	}
	if string(header) != "BM" {
		t.Errorf("header = %q, want BM", header)
	}
}

func TestImageService_ConvertToBMPRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "wallpaper.jpg")
	touch(t, src, "not an image")

	if err := NewImageService().ConvertToBMP(context.Background(), src, filepath.Join(dir, "out.bmp"), 0); err == nil {
		t.Error("expected decode error")
	}
}

func TestImageService_ResizeToWidth(t *testing.T) {
	svc := NewImageService()
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))

	resized := svc.ResizeToWidth(context.Background(), img, 100)
	if got := resized.Bounds().Dx(); got != 100 {
		t.Errorf("width = %d, want 100", got)
	}
	if got := resized.Bounds().Dy(); got != 50 {
		t.Errorf("height = %d, want 50", got)
	}

	same := svc.ResizeToWidth(context.Background(), img, 800)
	if same.Bounds().Dx() != 400 {
		t.Errorf("image within limit should be unchanged")
	}
}
