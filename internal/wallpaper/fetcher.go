package wallpaper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"github.com/handiism/bing-wallpaper/internal/bing"
	"github.com/handiism/bing-wallpaper/internal/config"
	"github.com/handiism/bing-wallpaper/internal/desktop"
	"github.com/handiism/bing-wallpaper/internal/history"
	"github.com/handiism/bing-wallpaper/internal/http"
	ioutils "github.com/handiism/bing-wallpaper/internal/io"
	"github.com/handiism/bing-wallpaper/internal/model"
	"github.com/handiism/bing-wallpaper/internal/readme"
)

var (
	// ErrNetwork marks a manifest or image request that failed after all
	// retries or ran out of time.
	ErrNetwork = errors.New("network failure")

	// ErrAlreadyRunning is returned when another run holds the lock.
	ErrAlreadyRunning = errors.New("another bing-wp run is already in progress")

	// ErrArchiveInWorkDir rejects an archive directory that is the working
	// directory: archived names contain digits and would be counted as
	// backups.
	ErrArchiveInWorkDir = errors.New("archive directory must differ from the working directory")
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a run progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// RunDepth selects how far a run goes.
type RunDepth int

const (
	// DepthLink fetches the manifest and reports the image link only.
	DepthLink RunDepth = iota

	// DepthDownload also backs up the old wallpaper and downloads the new one.
	DepthDownload

	// DepthApply also sets the downloaded image as desktop background.
	DepthApply
)

// Options are the per-run choices, usually taken from the command line.
type Options struct {
	// DayOffset selects the image: 0 is today, 7 is seven days prior.
	DayOffset int

	// RunDepth selects how far the run goes.
	RunDepth RunDepth

	// UpdateOnly rewrites the readme and nothing else.
	UpdateOnly bool

	// RunID tags history records.
	RunID string
}

// Result describes what a run did.
type Result struct {
	Entry            *model.Entry
	URL              string
	CopyrightURL     string
	BackupName       string
	WallpaperPath    string
	ReadmePatched    bool
	WallpaperApplied bool
}

// Fetcher coordinates a wallpaper run.
type Fetcher struct {
	settings     *config.Settings
	opts         Options
	httpClient   *http.Client
	imageService *ioutils.ImageService
	desktop      desktop.Personalizer
	history      *history.Store
	openHistory  func() (*history.Store, error)
	ownsHistory  bool

	totalBytes    int64
	receivedBytes int64

	onProgress func(ProgressEvent)
}

// NewFetcher creates a new Fetcher.
//
// The day offset is clamped to [0, 7] here, once. UpdateOnly forces the
// run depth down to DepthLink.
func NewFetcher(settings *config.Settings, opts Options, onProgress func(ProgressEvent)) *Fetcher {
	opts.DayOffset = bing.ClampOffset(opts.DayOffset)
	if opts.UpdateOnly || opts.RunDepth < DepthLink {
		opts.RunDepth = DepthLink
	}
	if opts.RunDepth > DepthApply {
		opts.RunDepth = DepthApply
	}

	personalizer, _ := desktop.Detect()

	return &Fetcher{
		settings: settings,
		opts:     opts,
		httpClient: http.NewClient(http.Options{
			UserAgent:     settings.HTTP.UserAgent,
			Retries:       settings.HTTP.Retries,
			RetryCooldown: settings.HTTP.RetryCooldown,
			RetryExponent: settings.HTTP.RetryExponent,
			ChunkSize:     settings.HTTP.ChunkSize,
		}),
		imageService: ioutils.NewImageService(),
		desktop:      personalizer,
		onProgress:   onProgress,
	}
}

// SetDesktop replaces the detected desktop personalizer. nil disables the step.
func (f *Fetcher) SetDesktop(p desktop.Personalizer) {
	f.desktop = p
}

// SetHistory wires a history store. Downloads are recorded and the
// "counter" backup strategy becomes available.
func (f *Fetcher) SetHistory(store *history.Store) {
	f.history = store
}

// SetHistoryOpener defers opening the history store until the run is about
// to write files, so a failed manifest fetch leaves no database behind.
// The store is owned by the Fetcher and released by Close. A nil store
// from open disables history.
func (f *Fetcher) SetHistoryOpener(open func() (*history.Store, error)) {
	f.openHistory = open
}

// Close releases a history store opened through SetHistoryOpener.
func (f *Fetcher) Close() error {
	if !f.ownsHistory || f.history == nil {
		return nil
	}
	store := f.history
	f.history, f.ownsHistory = nil, false
	return store.Close()
}

// Offset returns the clamped day offset.
func (f *Fetcher) Offset() int {
	return f.opts.DayOffset
}

// Depth returns the effective run depth.
func (f *Fetcher) Depth() RunDepth {
	return f.opts.RunDepth
}

// GetProgress returns the current image download progress.
func (f *Fetcher) GetProgress() (received, total int64) {
	return atomic.LoadInt64(&f.receivedBytes), atomic.LoadInt64(&f.totalBytes)
}

// Run executes FetchManifest, SelectEntry, ResolveURL, then the backup,
// download, readme and desktop steps enabled by the options.
func (f *Fetcher) Run(ctx context.Context) (*Result, error) {
	raw, err := f.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := bing.ParseManifest(raw)
	if err != nil {
		return nil, err
	}

	entry, err := f.SelectEntry(entries)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Entry:        entry,
		URL:          f.ResolveURL(entry),
		CopyrightURL: bing.ResolveURL(f.settings.Bing.ImageHost, entry.CopyrightLink),
	}
	f.progress(ProgressEvent{Message: fmt.Sprintf("title: %s", entry.Title), Level: LevelInfo})
	f.progress(ProgressEvent{Message: fmt.Sprintf("copyright: %s", entry.Copyright), Level: LevelInfo})
	f.progress(ProgressEvent{Message: fmt.Sprintf("copyright link: %s", res.CopyrightURL), Level: LevelInfo})
	f.progress(ProgressEvent{Message: fmt.Sprintf("url: %s", res.URL), Level: LevelInfo})

	patchReadme := f.opts.UpdateOnly || (f.settings.Readme.PatchOnDownload && f.opts.RunDepth >= DepthDownload)
	if f.opts.RunDepth == DepthLink && !patchReadme {
		return res, nil
	}

	unlock, err := f.lock()
	if err != nil {
		return res, err
	}
	defer unlock()

	if f.opts.RunDepth >= DepthDownload {
		f.ensureHistory()
		if res.BackupName, err = f.BackupExisting(ctx); err != nil {
			return res, err
		}
		if err := f.DownloadImage(ctx, res.URL); err != nil {
			return res, err
		}
		res.WallpaperPath = f.wallpaperPath()
		f.recordHistory(ctx, res)
	}

	if patchReadme {
		if res.ReadmePatched, err = f.PatchReadme(entry, res.URL); err != nil {
			return res, err
		}
	}

	if f.opts.RunDepth >= DepthApply {
		if res.WallpaperApplied, err = f.SetDesktopWallpaper(ctx); err != nil {
			return res, err
		}
	}

	return res, nil
}

// FetchManifest requests the image manifest and returns the raw JSON.
func (f *Fetcher) FetchManifest(ctx context.Context) (string, error) {
	f.progress(ProgressEvent{Message: "Fetch json start", Level: LevelInfo})

	url := bing.ManifestURL(f.settings.Bing.ArchiveEndpoint, bing.ManifestQuery{
		Count:     f.settings.Bing.Count,
		Market:    f.settings.Bing.Market,
		Language:  f.settings.Bing.Language,
		UHDWidth:  f.settings.Bing.UHDWidth,
		UHDHeight: f.settings.Bing.UHDHeight,
	})
	raw, err := f.httpClient.GetString(ctx, url, f.settings.FetchTimeout())
	if err != nil {
		f.progress(ProgressEvent{Message: fmt.Sprintf("Fetch json failed, exception: %v", err), Level: LevelError})
		return "", fmt.Errorf("fetch manifest: %w: %w", ErrNetwork, err)
	}

	f.progress(ProgressEvent{Message: "Fetch json successfully", Level: LevelSuccess})
	return raw, nil
}

// Entries fetches and parses the whole manifest.
func (f *Fetcher) Entries(ctx context.Context) ([]*model.Entry, error) {
	raw, err := f.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	return bing.ParseManifest(raw)
}

// SelectEntry picks the entry at the clamped day offset.
func (f *Fetcher) SelectEntry(entries []*model.Entry) (*model.Entry, error) {
	return bing.SelectEntry(entries, f.opts.DayOffset)
}

// ResolveURL returns the absolute image URL for entry.
func (f *Fetcher) ResolveURL(entry *model.Entry) string {
	return bing.ResolveURL(f.settings.Bing.ImageHost, entry.ImagePath)
}

// BackupExisting renames the current wallpaper to the next numbered backup.
//
// It returns the backup file name, or "" when there was no wallpaper yet.
func (f *Fetcher) BackupExisting(ctx context.Context) (string, error) {
	dir := f.settings.Files.WorkDir
	wallpaper := f.wallpaperPath()

	count, err := ioutils.CountBackups(dir)
	if err != nil {
		return "", fmt.Errorf("count backups: %w", err)
	}

	exists, err := ioutils.FileExists(wallpaper)
	if err != nil || !exists {
		return "", err
	}

	rename := func(number int) (string, error) {
		f.progress(ProgressEvent{Message: fmt.Sprintf("backup name: %s", ioutils.BackupName(number)), Level: LevelInfo})
		return ioutils.RenameToBackup(wallpaper, dir, number)
	}

	if f.settings.Files.BackupStrategy != config.BackupCounter || f.history == nil {
		return rename(count + 1)
	}

	// The counter only advances when the rename goes through.
	var name string
	_, err = f.history.AdvanceBackupNumber(ctx, count, func(number int) error {
		var renameErr error
		name, renameErr = rename(number)
		return renameErr
	})
	if err != nil {
		return "", err
	}
	return name, nil
}

// DownloadImage streams url into the wallpaper file.
func (f *Fetcher) DownloadImage(ctx context.Context, url string) error {
	f.progress(ProgressEvent{Message: "Download image start", Level: LevelInfo})
	atomic.StoreInt64(&f.receivedBytes, 0)
	atomic.StoreInt64(&f.totalBytes, 0)

	err := f.httpClient.DownloadFile(ctx, url, f.wallpaperPath(), f.settings.DownloadTimeout(), func(written, total int64) {
		atomic.StoreInt64(&f.receivedBytes, written)
		atomic.StoreInt64(&f.totalBytes, total)
	})
	if err != nil {
		f.progress(ProgressEvent{Message: fmt.Sprintf("Download image failed, exception: %v", err), Level: LevelError})
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return fmt.Errorf("download image: %w", err)
		}
		return fmt.Errorf("download image: %w: %w", ErrNetwork, err)
	}

	f.progress(ProgressEvent{Message: "Download image successfully", Level: LevelSuccess})
	return nil
}

// PatchReadme rewrites lines 2 and 3 of the readme. It reports false,
// without error, when the readme is shorter than three lines.
func (f *Fetcher) PatchReadme(entry *model.Entry, url string) (bool, error) {
	path := f.settings.Resolve(f.settings.Readme.Path)
	patched, err := readme.Patch(path, entry, url, f.settings.Readme.ThumbnailWidth)
	if err != nil {
		return false, fmt.Errorf("patch readme: %w", err)
	}
	if !patched {
		f.progress(ProgressEvent{Message: fmt.Sprintf("Readme %s has fewer than 3 lines, left unchanged", path), Level: LevelVerbose})
		return false, nil
	}
	f.progress(ProgressEvent{Message: fmt.Sprintf("Readme %s updated", path), Level: LevelSuccess})
	return true, nil
}

// SetDesktopWallpaper converts the wallpaper to BMP and applies it. It
// reports false when the host has no desktop personalization support.
func (f *Fetcher) SetDesktopWallpaper(ctx context.Context) (bool, error) {
	if f.desktop == nil {
		f.progress(ProgressEvent{Message: "Desktop wallpaper not supported on this host, skipped", Level: LevelVerbose})
		return false, nil
	}

	f.progress(ProgressEvent{Message: "Set wallpaper start", Level: LevelInfo})
	bitmap, err := filepath.Abs(f.settings.Resolve(f.settings.Files.Bitmap))
	if err != nil {
		return false, err
	}
	if err := f.imageService.ConvertToBMP(ctx, f.wallpaperPath(), bitmap, f.settings.Files.BitmapMaxWidth); err != nil {
		return false, fmt.Errorf("convert wallpaper: %w", err)
	}
	if err := f.desktop.SetWallpaper(bitmap); err != nil {
		return false, fmt.Errorf("set wallpaper: %w", err)
	}

	f.progress(ProgressEvent{Message: "Set wallpaper successfully", Level: LevelSuccess})
	return true, nil
}

func (f *Fetcher) wallpaperPath() string {
	return f.settings.Resolve(f.settings.Files.Wallpaper)
}

func (f *Fetcher) lock() (func(), error) {
	path := f.settings.Resolve(f.settings.Files.LockFile)
	if path == "" {
		return func() {}, nil
	}

	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			f.progress(ProgressEvent{Message: fmt.Sprintf("Failed to release lock %s: %v", path, err), Level: LevelWarning})
		}
	}, nil
}

func (f *Fetcher) ensureHistory() {
	if f.history != nil || f.openHistory == nil {
		return
	}
	store, err := f.openHistory()
	if err != nil {
		f.progress(ProgressEvent{Message: fmt.Sprintf("History disabled: %v", err), Level: LevelWarning})
		return
	}
	if store != nil {
		f.history, f.ownsHistory = store, true
	}
}

func (f *Fetcher) recordHistory(ctx context.Context, res *Result) {
	if f.history == nil {
		return
	}
	_, err := f.history.Record(ctx, history.Record{
		RunID:      f.opts.RunID,
		Offset:     res.Entry.Offset,
		EndDate:    res.Entry.EndDate,
		Title:      res.Entry.Title,
		Copyright:  res.Entry.Copyright,
		URL:        res.URL,
		BackupName: res.BackupName,
	})
	if err != nil {
		f.progress(ProgressEvent{Message: fmt.Sprintf("Failed to record history: %v", err), Level: LevelWarning})
	}
}

func (f *Fetcher) progress(event ProgressEvent) {
	if f.onProgress != nil {
		f.onProgress(event)
	}
}
