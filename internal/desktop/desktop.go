package desktop

// Personalizer applies an image file as the desktop background.
type Personalizer interface {
	// SetWallpaper applies the image at path. path must be absolute.
	SetWallpaper(path string) error
}

// Detect returns the host's Personalizer. The boolean is false when the
// host has no supported desktop personalization API.
func Detect() (Personalizer, bool) {
	p := platformPersonalizer()
	return p, p != nil
}
