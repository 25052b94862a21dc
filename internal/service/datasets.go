// internal/service/datasets.go
package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stockops/stockorders/internal/domain"
	"github.com/stockops/stockorders/internal/report"
)

// DatasetService owns the current snapshot the engines run on. Loads swap
// the snapshot atomically; a snapshot handed out is never mutated, so a
// run in flight keeps a consistent view while a reload happens.
type DatasetService struct {
	loader *report.Loader

	mu       sync.RWMutex
	snapshot *domain.Snapshot
	statuses []report.FileStatus
	loadedAt time.Time
}

func NewDatasetService(maxParallel int64) *DatasetService {
	return &DatasetService{loader: report.NewLoader(maxParallel)}
}

// DatasetStatus describes what is currently loaded.
type DatasetStatus struct {
	Loaded      bool                `json:"loaded"`
	LoadedAt    time.Time           `json:"loaded_at"`
	Fingerprint string              `json:"fingerprint,omitempty"`
	Files       []report.FileStatus `json:"files,omitempty"`
}

// LoadDir replaces the dataset with the reports found in a directory.
func (s *DatasetService) LoadDir(ctx context.Context, dir string) ([]report.FileStatus, error) {
	snap, statuses, err := s.loader.LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	s.swap(snap, statuses)
	log.Info().Str("dir", dir).Int("files", len(statuses)).Msg("dataset loaded")
	return statuses, nil
}

// AddFiles parses the given files and merges them over the current
// dataset, replacing only the tables the new files carry.
func (s *DatasetService) AddFiles(ctx context.Context, paths []string) ([]report.FileStatus, error) {
	snap, statuses, err := s.loader.LoadFiles(ctx, paths)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.snapshot = mergeSnapshots(s.snapshot, snap)
	s.statuses = mergeStatuses(s.statuses, statuses)
	s.loadedAt = time.Now()
	s.mu.Unlock()

	log.Info().Int("files", len(statuses)).Msg("dataset files added")
	return statuses, nil
}

// Snapshot returns the current dataset, nil before the first load.
func (s *DatasetService) Snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *DatasetService) Status() DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := DatasetStatus{
		Loaded:   s.snapshot != nil,
		LoadedAt: s.loadedAt,
		Files:    append([]report.FileStatus(nil), s.statuses...),
	}
	if s.snapshot != nil {
		st.Fingerprint = s.snapshot.Fingerprint()
	}
	return st
}

func (s *DatasetService) swap(snap *domain.Snapshot, statuses []report.FileStatus) {
	s.mu.Lock()
	s.snapshot = snap
	s.statuses = statuses
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// mergeSnapshots lays add over base without touching either: tables the
// new load carries win, the rest carry over.
func mergeSnapshots(base, add *domain.Snapshot) *domain.Snapshot {
	if base == nil {
		return add
	}
	out := &domain.Snapshot{
		Availability: base.Availability,
		Inventory:    base.Inventory,
		BOM:          base.BOM,
		Sales:        base.Sales,
	}
	if add.Availability != nil {
		out.Availability = add.Availability
	}
	if add.Inventory != nil {
		out.Inventory = add.Inventory
	}
	if add.BOM != nil {
		out.BOM = add.BOM
	}
	if add.Sales != nil {
		out.Sales = add.Sales
	}
	if len(base.Replenishment) > 0 || len(add.Replenishment) > 0 {
		out.Replenishment = make(map[string][]domain.ReplenishmentRecord,
			len(base.Replenishment)+len(add.Replenishment))
		for wh, recs := range base.Replenishment {
			out.Replenishment[wh] = recs
		}
		for wh, recs := range add.Replenishment {
			out.Replenishment[wh] = recs
		}
	}
	return out
}

// mergeStatuses keeps one entry per file name, newest parse winning.
func mergeStatuses(base, add []report.FileStatus) []report.FileStatus {
	out := append([]report.FileStatus(nil), base...)
	for _, st := range add {
		replaced := false
		for i := range out {
			if out[i].Name == st.Name {
				out[i] = st
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, st)
		}
	}
	return out
}
