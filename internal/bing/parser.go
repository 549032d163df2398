package bing

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/handiism/bing-wallpaper/internal/bing/dto"
	"github.com/handiism/bing-wallpaper/internal/model"
)

// MaxOffset is the oldest day the archive endpoint serves (seven days prior).
const MaxOffset = 7

// ErrEntryMissing is returned when the manifest holds no entry for an offset.
//
// The endpoint always returns eight entries when asked for n=8, so this
// indicates a truncated or malformed response.
var ErrEntryMissing = errors.New("manifest has no entry for offset")

// ParseManifest decodes the raw HPImageArchive JSON into entries.
//
// Entry offsets follow the order of the images array: index 0 is today.
//
// Example:
//
//	entries, err := bing.ParseManifest(raw)
//	if err != nil {
//	    return fmt.Errorf("failed to parse manifest: %w", err)
//	}
//	fmt.Println(entries[0].Title)
func ParseManifest(raw string) ([]*model.Entry, error) {
	var manifest dto.JSONManifest
	if err := json.Unmarshal([]byte(raw), &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	return manifest.ToEntries(), nil
}

// ClampOffset limits n to [0, MaxOffset].
func ClampOffset(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxOffset {
		return MaxOffset
	}
	return n
}

// SelectEntry returns entries[offset]. The offset is expected to be clamped
// already; no further adjustment happens here.
func SelectEntry(entries []*model.Entry, offset int) (*model.Entry, error) {
	if offset < 0 || offset >= len(entries) {
		return nil, fmt.Errorf("%w %d (manifest has %d entries)", ErrEntryMissing, offset, len(entries))
	}
	return entries[offset], nil
}
