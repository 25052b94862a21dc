// internal/source/watcher.go
package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/stockops/stockorders/internal/report"
)

// Watcher polls a report source and copies recognized report files into
// the ingest directory. A file is fetched again only when its size
// changes, so re-exports with fresh data are picked up.
type Watcher struct {
	source    ReportSource
	ingestDir string
	interval  time.Duration
	sem       *semaphore.Weighted
	onSync    func(context.Context)

	mu       sync.RWMutex
	seen     map[string]int64
	lastSync time.Time
	lastErr  string
	fetched  int
}

func NewWatcher(src ReportSource, ingestDir string, interval time.Duration, maxParallel int64) *Watcher {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if maxParallel <= 0 {
		maxParallel = 4
	}
	return &Watcher{
		source:    src,
		ingestDir: ingestDir,
		interval:  interval,
		sem:       semaphore.NewWeighted(maxParallel),
		seen:      make(map[string]int64),
	}
}

// OnSync registers a hook invoked after every sync that fetched files,
// e.g. to reload the dataset the engine runs on.
func (w *Watcher) OnSync(fn func(context.Context)) {
	w.onSync = fn
}

// Run syncs immediately and then on every tick until the context ends.
func (w *Watcher) Run(ctx context.Context) {
	w.Sync(ctx)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Sync(ctx)
		}
	}
}

// Sync lists the source and fetches new or changed report files. It
// returns how many files were fetched; the first fetch failure aborts the
// pass and the next tick retries.
func (w *Watcher) Sync(ctx context.Context) (int, error) {
	count, err := w.sync(ctx)
	w.mu.Lock()
	w.lastSync = time.Now()
	w.fetched += count
	if err != nil {
		w.lastErr = err.Error()
	} else {
		w.lastErr = ""
	}
	w.mu.Unlock()

	if err != nil {
		log.Error().Err(err).Str("source", w.source.Name()).Msg("source sync failed")
		return count, err
	}
	if count > 0 {
		log.Info().Int("files", count).Str("source", w.source.Name()).Msg("report files synced")
		if w.onSync != nil {
			w.onSync(ctx)
		}
	}
	return count, nil
}

func (w *Watcher) sync(ctx context.Context) (int, error) {
	if err := os.MkdirAll(w.ingestDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create ingest dir: %w", err)
	}

	files, err := w.source.List(ctx)
	if err != nil {
		return 0, err
	}

	var pending []FileInfo
	w.mu.RLock()
	for _, f := range files {
		if kind, _ := report.Classify(f.Name); kind == report.KindUnknown {
			continue
		}
		if size, ok := w.seen[f.Name]; ok && size == f.Size {
			continue
		}
		pending = append(pending, f)
	}
	w.mu.RUnlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, f := range pending {
		f := f
		g.Go(func() error {
			if err := w.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer w.sem.Release(1)

			dest := filepath.Join(w.ingestDir, f.Name)
			if err := w.source.Fetch(ctx, f.Name, dest); err != nil {
				return err
			}
			log.Debug().Str("file", f.Name).Int64("size", f.Size).Msg("report file fetched")

			w.mu.Lock()
			w.seen[f.Name] = f.Size
			w.mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return w.countSeen(pending), err
	}
	return len(pending), nil
}

// countSeen reports how many of the pending files made it into seen, the
// fetch count when a pass fails partway.
func (w *Watcher) countSeen(pending []FileInfo) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	n := 0
	for _, f := range pending {
		if size, ok := w.seen[f.Name]; ok && size == f.Size {
			n++
		}
	}
	return n
}

// Status is the watcher state the admin endpoints report.
type Status struct {
	Source      string    `json:"source"`
	IngestDir   string    `json:"ingest_dir"`
	Interval    string    `json:"interval"`
	LastSync    time.Time `json:"last_sync"`
	LastError   string    `json:"last_error,omitempty"`
	FilesSynced int       `json:"files_synced"`
	KnownFiles  int       `json:"known_files"`
}

func (w *Watcher) Status() Status {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return Status{
		Source:      w.source.Name(),
		IngestDir:   w.ingestDir,
		Interval:    w.interval.String(),
		LastSync:    w.lastSync,
		LastError:   w.lastErr,
		FilesSynced: w.fetched,
		KnownFiles:  len(w.seen),
	}
}
