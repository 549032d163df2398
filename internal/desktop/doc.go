// Package desktop sets the desktop background where the host allows it.
//
// Only Windows is supported. On other hosts Detect reports false and
// callers skip the step:
//
//	if p, ok := desktop.Detect(); ok {
//	    err := p.SetWallpaper(absBitmapPath)
//	}
package desktop
