// Package model defines the core data structures used throughout
// the bing-wallpaper application.
//
// # Entry
//
// Entry represents one image from the Bing image archive manifest:
//
//	entry := model.NewEntry(0, title, copyright, link, imagePath, start, end, hash)
//	fmt.Println(entry.EndDate)           // "20240425"
//	fmt.Println(entry.ArchiveFileName()) // "20240425_OHR.Sunset_UHD.jpg"
//
// Offsets run from 0 (today) to 7 (seven days prior); the manifest never
// carries more than eight entries.
package model
