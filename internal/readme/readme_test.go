package readme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/bing-wallpaper/internal/model"
)

func sunset() *model.Entry {
	return model.NewEntry(0, "Sunset", "Sunset over the sea (© Someone)", "/search?q=sunset",
		"/th?id=OHR.Sunset_UHD.jpg&pid=hp", "20240424", "20240425", "")
}

func TestFormatDate(t *testing.T) {
	got, err := FormatDate("20240425")
	if err != nil {
		t.Fatalf("FormatDate failed: %v", err)
	}
	if got != "2024-04-25" {
		t.Errorf("FormatDate = %q, want %q", got, "2024-04-25")
	}

	if _, err := FormatDate("2024-04"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestDateLine(t *testing.T) {
	got, err := DateLine(sunset())
	if err != nil {
		t.Fatalf("DateLine failed: %v", err)
	}
	if got != "**2024-04-25:** Sunset" {
		t.Errorf("DateLine = %q, want %q", got, "**2024-04-25:** Sunset")
	}
}

func TestEmbedLine(t *testing.T) {
	url := "https://cn.bing.com/th?id=OHR.Sunset_UHD.jpg&pid=hp"
	got := EmbedLine(sunset(), url, 1000)
	want := "![](https://cn.bing.com/th?id=OHR.Sunset_UHD.jpg&w=1000&pid=hp)[Sunset over the sea (© Someone)](" + url + ")"
	if got != want {
		t.Errorf("EmbedLine =\n%q\nwant\n%q", got, want)
	}
}

func TestPatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	original := "# Wallpapers\nold date\nold embed\n\nMore text.\n"
	if err := os.WriteFile(path, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}

	url := "https://cn.bing.com/th?id=OHR.Sunset_UHD.jpg&pid=hp"
	patched, err := Patch(path, sunset(), url, 1000)
	if err != nil {
		t.Fatalf("Patch failed: %v", err)
	}
	if !patched {
		t.Fatal("Patch reported no change")
	}

	got, _ := os.ReadFile(path)
	want := "# Wallpapers\n" +
		"**2024-04-25:** Sunset\n" +
		"![](https://cn.bing.com/th?id=OHR.Sunset_UHD.jpg&w=1000&pid=hp)[Sunset over the sea (© Someone)](" + url + ")\n" +
		"\nMore text.\n"
	if string(got) != want {
		t.Errorf("content =\n%s\nwant\n%s", got, want)
	}
}

func TestPatch_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(path, []byte("title\na\nb\nc\n"), 0644); err != nil {
		t.Fatal(err)
	}
	url := "https://host/img.jpg"

	if _, err := Patch(path, sunset(), url, 1000); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)
	if _, err := Patch(path, sunset(), url, 1000); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Errorf("second patch changed content:\n%s\nvs\n%s", first, second)
	}
}

func TestPatch_ShortDocumentIsNoop(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"one line", "title\n"},
		{"two lines", "title\nsecond\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "README.md")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			patched, err := Patch(path, sunset(), "https://host/img.jpg", 1000)
			if err != nil {
				t.Fatalf("Patch failed: %v", err)
			}
			if patched {
				t.Error("short document should not be patched")
			}
			got, _ := os.ReadFile(path)
			if string(got) != tt.content {
				t.Errorf("content changed to %q", got)
			}
		})
	}
}

func TestPatch_ThreeLinesWithoutTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	if err := os.WriteFile(path, []byte("title\r\na\r\nb"), 0644); err != nil {
		t.Fatal(err)
	}

	patched, err := Patch(path, sunset(), "https://host/img.jpg", 1000)
	if err != nil || !patched {
		t.Fatalf("Patch = %v, %v", patched, err)
	}

	got, _ := os.ReadFile(path)
	want := "title\r\n**2024-04-25:** Sunset\r\n![](https://host/img.jpg&w=1000)[Sunset over the sea (© Someone)](https://host/img.jpg)"
	if string(got) != want {
		t.Errorf("content = %q, want %q", got, want)
	}
}

func TestPatch_MissingDocument(t *testing.T) {
	if _, err := Patch(filepath.Join(t.TempDir(), "missing.md"), sunset(), "https://host/img.jpg", 1000); err == nil {
		t.Error("expected error for missing document")
	}
}
