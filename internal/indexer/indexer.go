package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"mosaic-gallery/internal/database"
	"mosaic-gallery/internal/logging"
	"mosaic-gallery/internal/metrics"
)

// Default polling interval for change detection
const defaultPollInterval = 30 * time.Second

// Indexer keeps the catalog database in sync with the source directory.
type Indexer struct {
	db                   *database.Database
	sourceDir            string
	basePath             string
	indexInterval        time.Duration
	pollInterval         time.Duration
	walkerConfig         WalkerConfig
	ctx                  context.Context
	cancel               context.CancelFunc
	stopOnce             sync.Once
	indexMu              sync.Mutex
	isIndexing           bool
	lastIndexTime        time.Time
	initialIndexComplete bool
	initialIndexError    error
	startTime            time.Time

	filesIndexed   atomic.Int64
	authorsIndexed atomic.Int64
	indexProgress  atomic.Value

	// Called after every successful run.
	onIndexComplete func()

	// Last known directory state for cheap change detection
	stateMu         sync.RWMutex
	lastRootModTime time.Time
	lastDirModTimes map[string]time.Time
}

// IndexProgress tracks the current indexing progress
type IndexProgress struct {
	FilesIndexed   int64     `json:"filesIndexed"`
	AuthorsIndexed int64     `json:"authorsIndexed"`
	IsIndexing     bool      `json:"isIndexing"`
	StartedAt      time.Time `json:"startedAt,omitempty"`
}

// HealthStatus contains health check information.
type HealthStatus struct {
	Ready             bool           `json:"ready"`
	Indexing          bool           `json:"indexing"`
	StartTime         time.Time      `json:"startTime"`
	Uptime            string         `json:"uptime"`
	LastIndexed       time.Time      `json:"lastIndexed,omitempty"`
	InitialIndexError string         `json:"initialIndexError,omitempty"`
	FilesIndexed      int64          `json:"filesIndexed"`
	AuthorsIndexed    int64          `json:"authorsIndexed"`
	IndexProgress     *IndexProgress `json:"indexProgress,omitempty"`
}

// New creates an Indexer that stamps every row with basePath.
func New(db *database.Database, sourceDir, basePath string, indexInterval time.Duration) *Indexer {
	ctx, cancel := context.WithCancel(context.Background())
	idx := &Indexer{
		db:              db,
		sourceDir:       sourceDir,
		basePath:        basePath,
		indexInterval:   indexInterval,
		pollInterval:    defaultPollInterval,
		walkerConfig:    DefaultWalkerConfig(),
		ctx:             ctx,
		cancel:          cancel,
		startTime:       time.Now(),
		lastDirModTimes: make(map[string]time.Time),
	}
	idx.indexProgress.Store(IndexProgress{})
	return idx
}

// SetPollInterval sets the interval for polling-based change detection.
func (idx *Indexer) SetPollInterval(interval time.Duration) {
	if interval > 0 {
		idx.pollInterval = interval
	}
}

// SetWalkerConfig sets the walker configuration.
func (idx *Indexer) SetWalkerConfig(config WalkerConfig) {
	if config.NumWorkers < 1 {
		config.NumWorkers = 1
	}
	if config.BatchSize < 1 {
		config.BatchSize = 500
	}
	idx.walkerConfig = config
}

// SetOnIndexComplete sets a callback to be invoked when indexing completes.
func (idx *Indexer) SetOnIndexComplete(callback func()) {
	idx.onIndexComplete = callback
}

// Start runs the initial index in the background and schedules the
// periodic and change-driven runs.
func (idx *Indexer) Start() error {
	go func() {
		logging.Info("Starting initial index in background...")
		if err := idx.Index(); err != nil {
			logging.Error("Initial index error: %v", err)
			idx.indexMu.Lock()
			idx.initialIndexError = err
			idx.indexMu.Unlock()
		}
	}()

	go idx.pollForChanges()

	if idx.indexInterval > 0 {
		go idx.periodicIndex()
	}

	return nil
}

// Stop stops the background loops and aborts a running walk.
func (idx *Indexer) Stop() {
	idx.stopOnce.Do(idx.cancel)
}

// IsReady reports whether the initial index has finished.
func (idx *Indexer) IsReady() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.initialIndexComplete
}

// IsIndexing reports whether a run is in progress.
func (idx *Indexer) IsIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()
	return idx.isIndexing
}

func (idx *Indexer) getProgress() IndexProgress {
	if progress, ok := idx.indexProgress.Load().(IndexProgress); ok {
		return progress
	}
	return IndexProgress{}
}

// GetHealthStatus returns detailed health information.
func (idx *Indexer) GetHealthStatus() HealthStatus {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	status := HealthStatus{
		Ready:          idx.initialIndexComplete,
		Indexing:       idx.isIndexing,
		StartTime:      idx.startTime,
		Uptime:         time.Since(idx.startTime).String(),
		LastIndexed:    idx.lastIndexTime,
		FilesIndexed:   idx.filesIndexed.Load(),
		AuthorsIndexed: idx.authorsIndexed.Load(),
	}

	if idx.isIndexing {
		progress := idx.getProgress()
		status.IndexProgress = &progress
	}
	if idx.initialIndexError != nil {
		status.InitialIndexError = idx.initialIndexError.Error()
	}

	return status
}

// TriggerIndex starts a run in the background. It returns false when a run
// is already in progress.
func (idx *Indexer) TriggerIndex() bool {
	if idx.IsIndexing() {
		return false
	}
	go func() {
		if err := idx.Index(); err != nil {
			logging.Error("Triggered index failed: %v", err)
		}
	}()
	return true
}

// Index performs a full index of the source directory. Concurrent calls
// return immediately while a run is in progress.
func (idx *Indexer) Index() error {
	if !idx.tryStartIndexing() {
		logging.Info("Index already in progress, skipping...")
		return nil
	}
	succeeded := false
	defer func() { idx.finishIndexing(succeeded) }()

	metrics.IndexerIsRunning.Set(1)
	defer metrics.IndexerIsRunning.Set(0)
	metrics.IndexerRunsTotal.Inc()

	startTime := time.Now()
	logging.Info("Starting collection indexing of %s...", idx.sourceDir)
	idx.indexProgress.Store(IndexProgress{IsIndexing: true, StartedAt: startTime})

	result, err := walkCollections(idx.ctx, idx.sourceDir, idx.basePath, idx.walkerConfig, startTime)
	if err != nil {
		metrics.IndexerErrors.Inc()
		return err
	}
	metrics.IndexerErrors.Add(float64(result.errors))

	if err := idx.store(result.images, startTime); err != nil {
		metrics.IndexerErrors.Inc()
		return err
	}

	idx.filesIndexed.Store(int64(len(result.images)))
	idx.authorsIndexed.Store(int64(result.authors))
	idx.finalize(startTime)
	idx.updateLastKnownState()

	metrics.IndexerLastRunTimestamp.Set(float64(time.Now().Unix()))
	metrics.IndexerLastRunDuration.Set(time.Since(startTime).Seconds())
	metrics.IndexerFilesProcessed.Add(float64(len(result.images)))

	succeeded = true
	if idx.onIndexComplete != nil {
		idx.onIndexComplete()
	}
	return nil
}

// store upserts images in batches and then removes rows not seen since
// startTime.
func (idx *Indexer) store(images []database.Image, startTime time.Time) error {
	batchSize := idx.walkerConfig.BatchSize
	for i := 0; i < len(images); i += batchSize {
		if err := idx.ctx.Err(); err != nil {
			return err
		}
		end := min(i+batchSize, len(images))
		if err := idx.processBatch(images[i:end]); err != nil {
			return fmt.Errorf("batch %d-%d: %w", i, end, err)
		}
		idx.indexProgress.Store(IndexProgress{
			FilesIndexed: int64(end),
			IsIndexing:   true,
			StartedAt:    startTime,
		})
	}

	tx, err := idx.db.BeginBatch()
	if err != nil {
		return fmt.Errorf("failed to begin cleanup transaction: %w", err)
	}
	deleted, err := idx.db.DeleteMissing(tx, startTime)
	if err := idx.db.EndBatch(tx, err); err != nil {
		return fmt.Errorf("failed to remove missing images: %w", err)
	}
	if deleted > 0 {
		logging.Info("Removed %d images no longer on disk", deleted)
	}
	return nil
}

func (idx *Indexer) processBatch(batch []database.Image) (err error) {
	tx, err := idx.db.BeginBatch()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { err = idx.db.EndBatch(tx, err) }()

	for i := range batch {
		if err = idx.db.UpsertImage(tx, &batch[i]); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Indexer) finalize(startTime time.Time) {
	duration := time.Since(startTime)
	now := time.Now()

	idx.indexMu.Lock()
	idx.lastIndexTime = now
	idx.indexMu.Unlock()

	stats, err := idx.db.ComputeStats(idx.ctx)
	if err != nil {
		logging.Warn("Failed to compute catalog stats: %v", err)
	}
	stats.LastIndexed = now
	stats.IndexDuration = duration.Round(time.Millisecond).String()
	idx.db.UpdateStats(stats)

	if err := idx.db.SetLastIndexRun(idx.ctx, now); err != nil {
		logging.Warn("Failed to record last index run: %v", err)
	}

	logging.Info("Indexing complete: %d images from %d photographers in %v",
		stats.TotalImages, stats.TotalAuthors, duration)
}

func (idx *Indexer) tryStartIndexing() bool {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	if idx.isIndexing {
		return false
	}
	idx.isIndexing = true
	return true
}

func (idx *Indexer) finishIndexing(succeeded bool) {
	idx.indexMu.Lock()
	defer idx.indexMu.Unlock()

	idx.isIndexing = false
	if succeeded {
		idx.initialIndexComplete = true
		idx.initialIndexError = nil
	}
	idx.indexProgress.Store(IndexProgress{})
}

func (idx *Indexer) periodicIndex() {
	ticker := time.NewTicker(idx.indexInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logging.Info("Starting periodic re-index...")
			if err := idx.Index(); err != nil {
				logging.Error("Periodic index error: %v", err)
			}
		case <-idx.ctx.Done():
			return
		}
	}
}

// pollForChanges re-indexes when a photographer directory appears or its
// modification time moves.
func (idx *Indexer) pollForChanges() {
	ticker := time.NewTicker(idx.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !idx.IsReady() {
				continue
			}
			changed, err := idx.detectChanges()
			if err != nil {
				logging.Error("Error detecting changes: %v", err)
				continue
			}
			if changed {
				logging.Info("Collection changes detected, triggering re-index")
				if err := idx.Index(); err != nil {
					logging.Error("Re-index after change detection failed: %v", err)
				}
			}
		case <-idx.ctx.Done():
			logging.Info("Change detection polling stopped")
			return
		}
	}
}

// detectChanges compares the root and photographer directory modification
// times with the state recorded after the last run.
func (idx *Indexer) detectChanges() (bool, error) {
	rootModTime, dirModTimes, err := idx.readState()
	if err != nil {
		return false, err
	}

	idx.stateMu.RLock()
	defer idx.stateMu.RUnlock()

	if rootModTime.After(idx.lastRootModTime) || len(dirModTimes) != len(idx.lastDirModTimes) {
		return true, nil
	}
	for name, mod := range dirModTimes {
		last, ok := idx.lastDirModTimes[name]
		if !ok || mod.After(last) {
			logging.Debug("Photographer directory %s changed", name)
			return true, nil
		}
	}
	return false, nil
}

func (idx *Indexer) readState() (time.Time, map[string]time.Time, error) {
	rootInfo, err := os.Stat(idx.sourceDir)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to stat source directory: %w", err)
	}
	entries, err := os.ReadDir(idx.sourceDir)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("failed to read source directory: %w", err)
	}

	dirModTimes := make(map[string]time.Time)
	for _, e := range entries {
		if !e.IsDir() || isHidden(e.Name()) {
			continue
		}
		if info, err := os.Stat(filepath.Join(idx.sourceDir, e.Name())); err == nil {
			dirModTimes[e.Name()] = info.ModTime()
		}
	}
	return rootInfo.ModTime(), dirModTimes, nil
}

func (idx *Indexer) updateLastKnownState() {
	rootModTime, dirModTimes, err := idx.readState()
	if err != nil {
		logging.Warn("Failed to record directory state: %v", err)
		return
	}

	idx.stateMu.Lock()
	idx.lastRootModTime = rootModTime
	idx.lastDirModTimes = dirModTimes
	idx.stateMu.Unlock()
}
