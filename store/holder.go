package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Paldeepak079/AadharIQ/analytics"
	"github.com/Paldeepak079/AadharIQ/metrics"
	"github.com/Paldeepak079/AadharIQ/models"
)

// Snapshot is an immutable view of a loaded dataset and its report.
// Generation increases by one on every successful reload.
type Snapshot struct {
	Dataset    *models.Dataset
	Report     *models.AnalyticsReport
	LoadedAt   time.Time
	Generation uint64
}

// Holder owns the dataset snapshot served by the API and swaps it on reload.
type Holder struct {
	source  Source
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	mu        sync.RWMutex
	snap      *Snapshot
	listeners []func(*Snapshot)

	reloadMu sync.Mutex
	cron     *cron.Cron
}

func NewHolder(source Source, m *metrics.Metrics, logger *zap.Logger) *Holder {
	return &Holder{
		source:  source,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// Current returns the active snapshot, if one has been loaded.
func (h *Holder) Current() (*Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.snap != nil
}

// OnReload registers fn to run after every successful reload.
func (h *Holder) OnReload(fn func(*Snapshot)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, fn)
}

// Reload loads the dataset from the source and replaces the snapshot. The
// previous snapshot stays active if loading fails.
func (h *Holder) Reload(ctx context.Context) (*Snapshot, error) {
	h.reloadMu.Lock()
	defer h.reloadMu.Unlock()

	start := h.now()
	ds, err := h.source.Load(ctx)
	if err != nil {
		h.recordReload(nil, err)
		return nil, fmt.Errorf("reload dataset: %w", err)
	}

	ds = scoreDataset(ds)
	snap := &Snapshot{
		Dataset:  ds,
		Report:   analytics.Analyze(ds, start),
		LoadedAt: start,
	}

	h.mu.Lock()
	if h.snap != nil {
		snap.Generation = h.snap.Generation + 1
	}
	h.snap = snap
	listeners := make([]func(*Snapshot), len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	h.recordReload(snap, nil)
	h.logger.Info("Dataset loaded",
		zap.Int("states", len(ds.States)),
		zap.Int("districts", len(ds.Districts)),
		zap.Int("series_points", len(ds.TimeSeries)),
		zap.Duration("took", h.now().Sub(start)))
	return snap, nil
}

// scoreDataset returns a copy of ds with de-duplicated states carrying their
// anomaly scores. The summary is recomputed when duplicates were dropped.
func scoreDataset(ds *models.Dataset) *models.Dataset {
	out := *ds
	out.States = analytics.ScoreStates(ds.States)
	if len(out.States) != len(ds.States) {
		out.Summary = models.Summarize(out.States, out.Districts, ds.Summary.LastUpdated)
	}
	return &out
}

func (h *Holder) recordReload(snap *Snapshot, err error) {
	if h.metrics == nil {
		return
	}
	if err != nil {
		h.metrics.RecordReload(0, 0, time.Time{}, err)
		return
	}
	h.metrics.RecordReload(len(snap.Dataset.States), len(snap.Dataset.Districts), snap.LoadedAt, nil)
}

// Schedule reloads the dataset on a cron spec such as "@every 1h". Each run
// gets timeout to finish.
func (h *Holder) Schedule(spec string, timeout time.Duration) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := h.Reload(ctx); err != nil {
			h.logger.Error("Scheduled reload failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}

	h.mu.Lock()
	if h.cron != nil {
		h.cron.Stop()
	}
	h.cron = c
	h.mu.Unlock()

	c.Start()
	h.logger.Info("Dataset reload scheduled", zap.String("spec", spec))
	return nil
}

// Stop halts scheduled reloads and waits for a running one to finish.
func (h *Holder) Stop() {
	h.mu.Lock()
	c := h.cron
	h.cron = nil
	h.mu.Unlock()
	if c != nil {
		<-c.Stop().Done()
	}
}
