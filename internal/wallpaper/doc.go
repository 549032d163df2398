// Package wallpaper runs the Bing photo-of-the-day workflow.
//
// # Fetcher
//
// The Fetcher coordinates one run:
//
//  1. Fetch the image manifest (8 days, newest first)
//  2. Select the entry at the day offset
//  3. Resolve the absolute image URL
//  4. Rename the current wallpaper to the next numbered backup
//  5. Download the new wallpaper in chunks
//  6. Rewrite the readme date and thumbnail lines (optional)
//  7. Apply the image as desktop background (optional, Windows only)
//
// Steps 4 to 7 depend on the run depth and the update-only flag.
//
// # Basic Usage
//
//	fetcher := wallpaper.NewFetcher(settings, wallpaper.Options{
//	    DayOffset: 0,
//	    RunDepth:  wallpaper.DepthDownload,
//	}, func(event wallpaper.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	res, err := fetcher.Run(ctx)
//	if errors.Is(err, wallpaper.ErrNetwork) {
//	    os.Exit(1)
//	}
//
// # Single Instance
//
// Every step that writes files runs under an advisory file lock
// (files.lock_file). A second concurrent run fails with ErrAlreadyRunning
// instead of racing on the backup numbering.
//
// # Archive
//
// Archive downloads every entry of the manifest into a directory using up
// to archive.concurrency parallel downloads. Existing files are skipped, so
// repeated runs only fetch new days.
package wallpaper
