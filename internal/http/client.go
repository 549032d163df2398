package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"
)

// DefaultChunkSize is the buffer used when streaming downloads to disk.
const DefaultChunkSize = 1024 * 1024

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// Retryable reports whether the status is worth another attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// Options configures a Client.
type Options struct {
	// UserAgent is sent with every request.
	UserAgent string

	// Retries is the number of extra attempts after the first one fails.
	Retries int

	// RetryCooldown is the first wait between attempts, in seconds.
	RetryCooldown float64

	// RetryExponent multiplies the cooldown after every attempt.
	RetryExponent float64

	// ChunkSize is the copy buffer for DownloadFile. Zero means DefaultChunkSize.
	ChunkSize int
}

// Client wraps HTTP operations with Bing-specific configuration.
//
// Client provides:
//   - Configured User-Agent header
//   - A per-call time budget
//   - Bounded retries with exponential cooldown
//   - Chunked file download with progress tracking
//
// Example usage:
//
//	client := NewClient(Options{UserAgent: "Mozilla/5.0", Retries: 3})
//
//	// Fetch the manifest
//	raw, err := client.GetString(ctx, manifestURL, 5*time.Second)
//
//	// Download the image with progress
//	err = client.DownloadFile(ctx, imageURL, "wallpaper.jpg", 10*time.Second, func(written, total int64) {
//	    fmt.Printf("%d / %d\n", written, total)
//	})
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a new HTTP client.
func NewClient(opts Options) *Client {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.RetryExponent <= 0 {
		opts.RetryExponent = 1
	}
	return &Client{
		httpClient: &http.Client{},
		opts:       opts,
	}
}

// ProgressWriter wraps a writer to track download progress.
//
// Use this to monitor large downloads by providing an OnUpdate callback
// that receives the current bytes written and total expected bytes.
type ProgressWriter struct {
	// Writer is the underlying writer to write data to.
	Writer io.Writer

	// Total is the expected total bytes (from Content-Length header).
	Total int64

	// Written is the current number of bytes written.
	Written int64

	// OnUpdate is called after each Write with current progress.
	OnUpdate func(written, total int64)
}

// Write implements io.Writer, tracking progress and calling OnUpdate.
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.Writer.Write(p)
	pw.Written += int64(n)
	if pw.OnUpdate != nil {
		pw.OnUpdate(pw.Written, pw.Total)
	}
	return n, err
}

// Get performs a GET request and returns the response body as bytes.
//
// Each attempt gets its own timeout budget. Transport errors, timeouts and
// 5xx/429 answers are retried up to Options.Retries times.
func (c *Client) Get(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	var body []byte
	err := c.withRetry(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := c.do(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// GetString performs a GET request and returns the response body as a string.
func (c *Client) GetString(ctx context.Context, url string, timeout time.Duration) (string, error) {
	body, err := c.Get(ctx, url, timeout)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadFile streams url to destPath in Options.ChunkSize pieces.
//
// The file is created (or truncated if it exists) only once the server has
// answered 200 OK. A failed attempt removes whatever was written, so an
// error never leaves a partial file behind.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: URL to download from
//   - destPath: Local file path to save to
//   - timeout: Budget for each attempt, body transfer included
//   - onProgress: Optional callback called with (bytesWritten, totalBytes)
func (c *Client) DownloadFile(ctx context.Context, url, destPath string, timeout time.Duration, onProgress func(written, total int64)) error {
	return c.withRetry(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		resp, err := c.do(ctx, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		file, err := os.Create(destPath)
		if err != nil {
			return permanent(err)
		}

		// ProgressWriter also hides *os.File's ReadFrom so the buffer is honored.
		writer := &ProgressWriter{
			Writer:   file,
			Total:    resp.ContentLength,
			OnUpdate: onProgress,
		}

		_, copyErr := io.CopyBuffer(writer, resp.Body, make([]byte, c.opts.ChunkSize))
		closeErr := file.Close()
		if copyErr == nil {
			copyErr = closeErr
		}
		if copyErr != nil {
			_ = os.Remove(destPath)
			return copyErr
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, permanent(err)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		statusErr := &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
		if !statusErr.Retryable() {
			return nil, permanent(statusErr)
		}
		return nil, statusErr
	}
	return resp, nil
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

func permanent(err error) error { return permanentError{err: err} }

func (c *Client) withRetry(ctx context.Context, attempt func(context.Context) error) error {
	var err error
	for tries := 0; tries <= c.opts.Retries; tries++ {
		if tries > 0 {
			if waitErr := c.waitForRetry(ctx, tries-1); waitErr != nil {
				return fmt.Errorf("%w (last error: %v)", waitErr, err)
			}
		}

		err = attempt(ctx)
		if err == nil {
			return nil
		}

		var perm permanentError
		if errors.As(err, &perm) {
			return perm.err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", c.opts.Retries+1, err)
}

func (c *Client) waitForRetry(ctx context.Context, tries int) error {
	cooldown := c.opts.RetryCooldown * math.Pow(c.opts.RetryExponent, float64(tries))
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
		return nil
	}
}
