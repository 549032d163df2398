package readme

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/handiism/bing-wallpaper/internal/bing"
	"github.com/handiism/bing-wallpaper/internal/model"
)

// Line numbers (1-indexed) of the patched region.
const (
	dateLine  = 2
	embedLine = 3
)

// FormatDate turns "20240425" into "2024-04-25".
func FormatDate(yyyymmdd string) (string, error) {
	t, err := time.Parse(model.DateLayout, yyyymmdd)
	if err != nil {
		return "", fmt.Errorf("invalid end date %q: %w", yyyymmdd, err)
	}
	return t.Format("2006-01-02"), nil
}

// DateLine renders "**<date>:** <title>".
func DateLine(entry *model.Entry) (string, error) {
	date, err := FormatDate(entry.EndDate)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("**%s:** %s", date, entry.Title), nil
}

// EmbedLine renders "![](<thumbnail>)[<copyright>](<url>)".
func EmbedLine(entry *model.Entry, absoluteURL string, thumbnailWidth int) string {
	thumb := bing.ThumbnailURL(absoluteURL, thumbnailWidth)
	return fmt.Sprintf("![](%s)[%s](%s)", thumb, entry.Copyright, absoluteURL)
}

// Patch rewrites lines 2 and 3 of the document at path.
//
// All other lines, line endings and the trailing newline are kept as they
// are. A document with fewer than three lines is left untouched and Patch
// returns false without error. A missing document is an error.
func Patch(path string, entry *model.Entry, absoluteURL string, thumbnailWidth int) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	date, err := DateLine(entry)
	if err != nil {
		return false, err
	}
	embed := EmbedLine(entry, absoluteURL, thumbnailWidth)

	patched, ok := replaceLines(string(data), map[int]string{
		dateLine:  date,
		embedLine: embed,
	})
	if !ok {
		return false, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(patched), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// replaceLines swaps whole lines by 1-indexed number. It reports false when
// the content has fewer lines than the highest requested number.
func replaceLines(content string, replacements map[int]string) (string, bool) {
	lines := strings.SplitAfter(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	for number := range replacements {
		if number > len(lines) {
			return content, false
		}
	}

	for number, text := range replacements {
		old := lines[number-1]
		ending := old[len(strings.TrimRight(old, "\r\n")):]
		lines[number-1] = text + ending
	}
	return strings.Join(lines, ""), true
}
