// internal/service/orders.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/stockops/stockorders/internal/config"
	"github.com/stockops/stockorders/internal/domain"
	"github.com/stockops/stockorders/internal/engine"
)

// ErrUnknownWarehouse is returned for a warehouse code outside the
// configured set.
var ErrUnknownWarehouse = errors.New("unknown warehouse")

// OrderService runs the assembly decision chain for one warehouse and
// keeps the latest run per warehouse for the export endpoints.
type OrderService struct {
	datasets *DatasetService
	cfg      *config.Config
	engCfg   engine.Config

	mu     sync.RWMutex
	latest map[string]*domain.AssemblyRun
}

func NewOrderService(datasets *DatasetService, cfg *config.Config) *OrderService {
	return &OrderService{
		datasets: datasets,
		cfg:      cfg,
		engCfg:   EngineConfigFrom(cfg.Engine),
		latest:   make(map[string]*domain.AssemblyRun),
	}
}

// Generate runs velocity, replenishment, assembly, transfer and ABC
// analysis for one warehouse against the current dataset. The chain stages
// run in sequence while transfers and ABC run alongside them; they only
// share the immutable snapshot.
func (s *OrderService) Generate(ctx context.Context, warehouseCode string) (*domain.AssemblyRun, error) {
	wh, ok := s.cfg.Warehouse(warehouseCode)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownWarehouse, warehouseCode)
	}
	snap := s.datasets.Snapshot()
	if snap == nil {
		return nil, engine.NewMissingTable("dataset")
	}
	if snap.Inventory == nil {
		return nil, engine.NewMissingTable("inventory list")
	}
	if snap.Availability == nil {
		return nil, engine.NewMissingTable("availability report")
	}
	if snap.BOM == nil {
		return nil, engine.NewMissingTable("bom report")
	}
	qty := snap.SalesMetric(domain.MetricQuantity)
	if qty == nil {
		return nil, engine.NewMissingTable("sales quantity")
	}

	started := time.Now()
	run := &domain.AssemblyRun{
		Warehouse:   wh.Code,
		GeneratedAt: started,
		Fingerprint: snap.Fingerprint(),
	}

	var (
		velocityDiag, replenishDiag, assemblyDiag domain.StageDiagnostics
		transferDiag, abcDiag                     domain.StageDiagnostics
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		velocities, vd := engine.EstimateVelocity(qty, s.engCfg.VelocityWindowMonths)
		velocityDiag = vd

		candidates, rd := engine.SelectReplenishments(engine.ReplenishInput{
			Inventory:    snap.Inventory,
			Availability: snap.Availability,
			BOM:          snap.BOM,
			Velocities:   velocities,
			Warehouse:    wh.Code,
			Locations:    wh.Locations,
		}, s.engCfg)
		replenishDiag = rd
		run.Candidates = candidates

		analyses, ad := engine.AnalyzeAssemblies(candidates, snap.BOM, snap.Availability, wh.Locations)
		assemblyDiag = ad
		run.Analyses = analyses
		return nil
	})
	g.Go(func() error {
		transfers, td := engine.RecommendTransfers(engine.TransferInput{
			Availability: snap.Availability,
			BOM:          snap.BOM,
			From:         wh.TransferFrom,
			To:           wh.TransferTo,
		}, s.engCfg)
		transferDiag = td
		run.Transfers = transfers
		return nil
	})
	g.Go(func() error {
		profit := snap.SalesMetric(domain.MetricProfit)
		if profit == nil {
			abcDiag = domain.StageDiagnostics{Stage: "abc"}
			abcDiag.AddNote("sales profit metric not loaded, classification skipped")
			log.Warn().Str("warehouse", wh.Code).Msg("abc classification skipped, no profit metric")
			return nil
		}
		records, cd := engine.ClassifyABC(profit, s.engCfg)
		abcDiag = cd
		run.ABC = records
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	run.Diagnostics.Add(velocityDiag)
	run.Diagnostics.Add(replenishDiag)
	run.Diagnostics.Add(assemblyDiag)
	run.Diagnostics.Add(transferDiag)
	run.Diagnostics.Add(abcDiag)

	s.mu.Lock()
	s.latest[wh.Code] = run
	s.mu.Unlock()

	log.Info().
		Str("warehouse", wh.Code).
		Int("candidates", len(run.Candidates)).
		Int("ready", run.ReadyCount()).
		Int("transfers", len(run.Transfers)).
		Bool("degraded", run.Diagnostics.Degraded()).
		Dur("elapsed", time.Since(started)).
		Msg("assembly run generated")
	return run, nil
}

// Latest returns the most recent run for a warehouse, nil when none ran.
func (s *OrderService) Latest(warehouseCode string) *domain.AssemblyRun {
	wh, ok := s.cfg.Warehouse(warehouseCode)
	if !ok {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest[wh.Code]
}

// EngineConfigFrom maps the loaded configuration onto the engine's
// threshold set, falling back to DefaultPriceTiers for the margin table.
func EngineConfigFrom(c config.EngineConfig) engine.Config {
	return engine.Config{
		VelocityWindowMonths: int(c.VelocityWindowMonths),
		DaysOfStock:          c.DaysOfStock,
		MinAssemblyQty:       int(c.MinAssemblyQty),
		MinAssemblyCeiling:   int(c.MinAssemblyCeiling),
		MonthlyMultiple:      c.MonthlyMultiple,
		MaxAssemblyQty:       int(c.MaxAssemblyQty),
		ExcludedAssemblySKUs: c.ExcludedAssemblySKUs,
		TransferSourceMin:    c.TransferSourceMin,
		TransferDestMin:      c.TransferDestMin,
		ClassACut:            c.ABCClassACut,
		ClassBCut:            c.ABCClassBCut,
		LeadTimeBufferDays:   c.LeadTimeBufferDays,
		PriceTiers:           engine.DefaultPriceTiers(),
	}
}
