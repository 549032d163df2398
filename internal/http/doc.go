// Package http provides an HTTP client configured for Bing requests.
//
// The Client in this package handles:
//   - User-Agent headers
//   - A timeout budget per call
//   - Bounded retries with exponential cooldown
//   - File downloads streamed in fixed-size chunks with progress tracking
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{UserAgent: ua, Retries: 3})
//
//	// Fetch the manifest
//	raw, err := client.GetString(ctx, manifestURL, 5*time.Second)
//
//	// Download an image with progress callback
//	client.DownloadFile(ctx, imageURL, "wallpaper.jpg", 10*time.Second, func(written, total int64) {
//	    fmt.Printf("%.1f%%\n", float64(written)/float64(total)*100)
//	})
//
// # Retries
//
// Transport errors, timeouts, 429 and 5xx answers are retried. Other
// statuses and local file errors fail immediately.
package http
