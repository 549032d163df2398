// Command bing-wp downloads the Bing photo of the day.
//
// Without a subcommand it runs one fetch:
//
//	bing-wp              # today's image, download and set as wallpaper
//	bing-wp -n 3 -s 1    # three days ago, download only
//	bing-wp -u           # rewrite README.md lines 2 and 3, log to console
//
// Subcommands list the archive, download it in bulk, show the local
// download history and manage the TOML configuration. The exit status is 0
// on success, 1 on any failure and 130 when interrupted.
package main
