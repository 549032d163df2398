package wallpaper

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/bing-wallpaper/internal/bing"
	ioutils "github.com/handiism/bing-wallpaper/internal/io"
	"github.com/handiism/bing-wallpaper/internal/model"
)

// ArchiveResult counts what an archive pass did.
type ArchiveResult struct {
	Dir        string
	Downloaded int
	Skipped    int
	Failed     int
}

// Archive downloads every manifest entry into dir as <enddate>_<name>.jpg.
// Files already present are skipped. An empty dir uses archive.dir from
// the settings. dir may not be the working directory.
func (f *Fetcher) Archive(ctx context.Context, dir string) (*ArchiveResult, error) {
	if dir == "" {
		dir = f.settings.Resolve(f.settings.Archive.Dir)
	}
	if sameDir(dir, f.settings.Files.WorkDir) {
		return nil, fmt.Errorf("%w: %s", ErrArchiveInWorkDir, dir)
	}

	entries, err := f.Entries(ctx)
	if err != nil {
		return nil, err
	}
	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}

	unlock, err := f.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	f.progress(ProgressEvent{Message: fmt.Sprintf("Archiving %d images into %s", len(entries), dir), Level: LevelInfo})

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(f.settings.Archive.Concurrency, 1))

	var downloaded, skipped, failed int32
	for _, entry := range entries {
		g.Go(func() error {
			done, err := f.archiveEntry(ctx, dir, entry)
			switch {
			case err != nil:
				f.progress(ProgressEvent{Message: fmt.Sprintf("Error archiving %s: %v", entry.ArchiveFileName(), err), Level: LevelError})
				atomic.AddInt32(&failed, 1)
			case done:
				atomic.AddInt32(&downloaded, 1)
			default:
				atomic.AddInt32(&skipped, 1)
			}
			return nil // Continue with other entries
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &ArchiveResult{
		Dir:        dir,
		Downloaded: int(downloaded),
		Skipped:    int(skipped),
		Failed:     int(failed),
	}
	if res.Failed > 0 {
		return res, fmt.Errorf("%w: %d of %d archive downloads failed", ErrNetwork, res.Failed, len(entries))
	}
	f.progress(ProgressEvent{
		Message: fmt.Sprintf("Archive complete: %d downloaded, %d already present", res.Downloaded, res.Skipped),
		Level:   LevelSuccess,
	})
	return res, nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func (f *Fetcher) archiveEntry(ctx context.Context, dir string, entry *model.Entry) (bool, error) {
	dest := filepath.Join(dir, entry.ArchiveFileName())
	exists, err := ioutils.FileExists(dest)
	if err != nil {
		return false, err
	}
	if exists {
		f.progress(ProgressEvent{Message: fmt.Sprintf("Skipping %s, already archived", filepath.Base(dest)), Level: LevelVerbose})
		return false, nil
	}

	url := bing.ResolveURL(f.settings.Bing.ImageHost, entry.ImagePath)
	if err := f.httpClient.DownloadFile(ctx, url, dest, f.settings.DownloadTimeout(), nil); err != nil {
		return false, err
	}
	f.progress(ProgressEvent{Message: fmt.Sprintf("Archived %s", filepath.Base(dest)), Level: LevelSuccess})
	return true, nil
}
