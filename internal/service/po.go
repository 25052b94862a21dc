// internal/service/po.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stockops/stockorders/internal/config"
	"github.com/stockops/stockorders/internal/domain"
	"github.com/stockops/stockorders/internal/engine"
	"github.com/stockops/stockorders/internal/suppliers"
)

// POService sizes purchase orders per warehouse from the replenishment
// report, applying the supplier exclusion list on every run.
type POService struct {
	datasets   *DatasetService
	cfg        *config.Config
	engCfg     engine.Config
	exclusions *suppliers.Store

	mu     sync.RWMutex
	latest map[string]*domain.PORun
}

func NewPOService(datasets *DatasetService, cfg *config.Config, exclusions *suppliers.Store) *POService {
	return &POService{
		datasets:   datasets,
		cfg:        cfg,
		engCfg:     EngineConfigFrom(cfg.Engine),
		exclusions: exclusions,
		latest:     make(map[string]*domain.PORun),
	}
}

// Generate produces the purchase order lines for one warehouse against
// the current dataset.
func (s *POService) Generate(ctx context.Context, warehouseCode string) (*domain.PORun, error) {
	wh, ok := s.cfg.Warehouse(warehouseCode)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownWarehouse, warehouseCode)
	}
	snap := s.datasets.Snapshot()
	if snap == nil {
		return nil, engine.NewMissingTable("dataset")
	}
	records := snap.ReplenishmentFor(wh.Code)
	if records == nil {
		return nil, engine.NewMissingTable(fmt.Sprintf("replenishment report for %s", wh.Code))
	}
	if snap.Sales == nil {
		return nil, engine.NewMissingTable("sales report")
	}
	if snap.Inventory == nil {
		return nil, engine.NewMissingTable("inventory list")
	}
	if snap.Availability == nil {
		return nil, engine.NewMissingTable("availability report")
	}

	started := time.Now()
	result, diag := engine.GeneratePOLines(engine.POInput{
		Replenishment:     records,
		SalesTotals:       engine.SumMetricTotals(snap.Sales),
		Inventory:         snap.Inventory,
		Availability:      snap.Availability,
		Warehouse:         wh.Code,
		ExcludedSuppliers: s.exclusions.List(),
	}, s.engCfg)

	run := &domain.PORun{
		Warehouse:           wh.Code,
		GeneratedAt:         started,
		Fingerprint:         snap.Fingerprint(),
		Lines:               result.Lines,
		IncludeSupplierCode: result.IncludeSupplierCode,
		IncludeProductName:  result.IncludeProductName,
	}
	run.Diagnostics.Add(diag)

	s.mu.Lock()
	s.latest[wh.Code] = run
	s.mu.Unlock()

	log.Info().
		Str("warehouse", wh.Code).
		Int("rows", diag.RowsProcessed).
		Int("lines", len(run.Lines)).
		Dur("elapsed", time.Since(started)).
		Msg("purchase order generated")
	return run, nil
}

// Latest returns the most recent run for a warehouse, nil when none ran.
func (s *POService) Latest(warehouseCode string) *domain.PORun {
	wh, ok := s.cfg.Warehouse(warehouseCode)
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest[wh.Code]
}
