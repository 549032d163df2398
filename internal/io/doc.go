// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Counting numbered backups and renaming the current wallpaper
//   - Directory creation
//   - JPEG to BMP conversion and resizing
//
// # Backups
//
// A backup is any file whose name contains a digit and ends in ".jpg".
// The next backup is numbered one past the current count:
//
//	n, _ := ioutils.CountBackups(dir)
//	name, err := ioutils.RenameToBackup(filepath.Join(dir, "wallpaper.jpg"), dir, n+1)
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	err := svc.ConvertToBMP(ctx, "wallpaper.jpg", "wallpaper.bmp", 1920)
package ioutils
