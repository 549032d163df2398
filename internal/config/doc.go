// Package config provides configuration management for bing-wallpaper.
//
// This package handles:
//   - Loading and saving settings from TOML files
//   - Default configuration values
//   - Validation and path resolution against the working directory
//
// # Default Settings
//
// Use DefaultSettings() to get the values the tool ships with:
//
//	settings := config.DefaultSettings()
//	// 8-entry manifest from global.bing.com, images from cn.bing.com
//	// 3 retries, 5s manifest budget, 10s download budget
//	// wallpaper.jpg, numbered backups, log.txt
//
// # Loading from File
//
//	settings, err := config.Load("bing-wp.toml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.Readme.PatchOnDownload = true
//	err := settings.Save("bing-wp.toml")
package config
