package model

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the 8-digit form Bing uses for startdate and enddate.
const DateLayout = "20060102"

// Entry represents one image from the Bing image archive manifest.
//
// Entry contains everything needed to download and describe a wallpaper:
//   - Offset identifies the day (0 = today, 7 = seven days prior)
//   - Title and Copyright for captions
//   - ImagePath and CopyrightLink, both relative to the image host
//   - StartDate and EndDate in YYYYMMDD form
//
// Entries are immutable once parsed and live for a single run.
//
// Example:
//
//	entry := NewEntry(0, "Sunset", "© Someone", "/search?q=sunset",
//	    "/th?id=OHR.Sunset_UHD.jpg&rf=LaDigue_UHD.jpg", "20240424", "20240425", "abc")
//	fmt.Println(entry.ArchiveFileName()) // "20240425_OHR.Sunset_UHD.jpg"
type Entry struct {
	// Offset is the position in the manifest (0 = today).
	Offset int

	// Title is the short image title.
	Title string

	// Copyright is the caption, usually "Place (© Photographer)".
	Copyright string

	// CopyrightLink is the relative search link for the caption.
	CopyrightLink string

	// ImagePath is the relative image path, query string included.
	ImagePath string

	// StartDate is the first day the image was shown (YYYYMMDD).
	StartDate string

	// EndDate is the day the image belongs to (YYYYMMDD).
	EndDate string

	// Hash is the manifest hsh field.
	Hash string
}

// NewEntry creates an Entry.
func NewEntry(offset int, title, copyright, copyrightLink, imagePath, startDate, endDate, hash string) *Entry {
	return &Entry{
		Offset:        offset,
		Title:         title,
		Copyright:     copyright,
		CopyrightLink: copyrightLink,
		ImagePath:     imagePath,
		StartDate:     startDate,
		EndDate:       endDate,
		Hash:          hash,
	}
}

// Date parses EndDate.
func (e *Entry) Date() (time.Time, error) {
	return time.Parse(DateLayout, e.EndDate)
}

// ImageName returns the image file name encoded in ImagePath.
//
// Bing serves images from "/th?id=<name>&...", so the id query parameter
// wins; otherwise the last path element is used.
func (e *Entry) ImageName() string {
	u, err := url.Parse(e.ImagePath)
	if err != nil {
		return sanitizeFileName(path.Base(e.ImagePath))
	}
	if id := u.Query().Get("id"); id != "" {
		return sanitizeFileName(id)
	}
	return sanitizeFileName(path.Base(u.Path))
}

// ArchiveFileName computes the file name used by archive downloads:
// "<enddate>_<imagename>".
func (e *Entry) ArchiveFileName() string {
	name := e.ImageName()
	if !strings.HasSuffix(strings.ToLower(name), ".jpg") {
		name += ".jpg"
	}
	return sanitizeFileName(e.EndDate + "_" + name)
}

// sanitizeFileName removes or replaces characters that are invalid in file names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars) are replaced with underscore
//   - Trailing dots are removed (Windows limitation)
//   - Multiple whitespace is collapsed to single space
//   - Trailing whitespace is removed
func sanitizeFileName(name string) string {
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	return strings.TrimRight(name, " ")
}
