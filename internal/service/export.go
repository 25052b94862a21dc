// internal/service/export.go
package service

import (
	"bytes"
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/stockops/stockorders/internal/cache"
	"github.com/stockops/stockorders/internal/report"
)

// ErrNoRun is returned when an export is requested for a warehouse that
// has no generated run yet.
var ErrNoRun = errors.New("no run generated for warehouse")

// Export kinds, used both as cache key segments and route names.
const (
	ExportAssemblyOrders = "assembly-orders"
	ExportCannotAssemble = "cannot-assemble"
	ExportTransfers      = "transfers"
	ExportABC            = "abc"
	ExportPO             = "po"
)

// ExportService renders run results as CSV, serving repeated downloads of
// an unchanged run from the cache. Keys carry the snapshot fingerprint,
// so a reload naturally misses instead of serving stale rows.
type ExportService struct {
	orders *OrderService
	po     *POService
	cache  cache.ExportCache
}

func NewExportService(orders *OrderService, po *POService, exportCache cache.ExportCache) *ExportService {
	return &ExportService{orders: orders, po: po, cache: exportCache}
}

// Export renders one CSV for the latest run of a warehouse. The returned
// filename is what the download should be saved as.
func (s *ExportService) Export(ctx context.Context, kind, warehouse string) (payload []byte, filename string, err error) {
	switch kind {
	case ExportPO:
		run := s.po.Latest(warehouse)
		if run == nil {
			return nil, "", ErrNoRun
		}
		payload, err = s.render(ctx, kind, run.Fingerprint, run.Warehouse, func(buf *bytes.Buffer) error {
			return report.WritePOLines(buf, run.Lines, run.IncludeSupplierCode, run.IncludeProductName)
		})
		return payload, report.POFilename(run.Warehouse), err
	default:
		run := s.orders.Latest(warehouse)
		if run == nil {
			return nil, "", ErrNoRun
		}
		var render func(*bytes.Buffer) error
		switch kind {
		case ExportAssemblyOrders:
			render = func(buf *bytes.Buffer) error {
				return report.WriteAssemblyOrders(buf, run.Analyses, run.Warehouse)
			}
			filename = "assembly_orders_" + run.Warehouse + ".csv"
		case ExportCannotAssemble:
			render = func(buf *bytes.Buffer) error {
				return report.WriteCannotAssemble(buf, run.Analyses, run.Warehouse)
			}
			filename = "cannot_assemble_" + run.Warehouse + ".csv"
		case ExportTransfers:
			render = func(buf *bytes.Buffer) error {
				return report.WriteTransfers(buf, run.Transfers)
			}
			filename = "transfer_orders_" + run.Warehouse + ".csv"
		case ExportABC:
			render = func(buf *bytes.Buffer) error {
				return report.WriteABC(buf, run.ABC)
			}
			filename = "abc_analysis_" + run.Warehouse + ".csv"
		default:
			return nil, "", errors.New("unknown export kind " + kind)
		}
		payload, err = s.render(ctx, kind, run.Fingerprint, run.Warehouse, render)
		return payload, filename, err
	}
}

// Invalidate drops every cached export, used after a dataset reload.
func (s *ExportService) Invalidate(ctx context.Context) {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("export cache invalidation failed")
	}
}

func (s *ExportService) render(ctx context.Context, kind, fingerprint, warehouse string,
	write func(*bytes.Buffer) error) ([]byte, error) {

	key := cache.BuildExportKey(kind, fingerprint, warehouse)
	if payload, ok, err := s.cache.GetCSV(ctx, key); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("export cache read failed")
	} else if ok {
		log.Debug().Str("kind", kind).Str("warehouse", warehouse).Msg("export served from cache")
		return payload, nil
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return nil, err
	}
	payload := buf.Bytes()

	if err := s.cache.SetCSV(ctx, key, payload); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("export cache write failed")
	}
	return payload, nil
}

// RunSummary is the lightweight view the list endpoints return.
type RunSummary struct {
	Warehouse   string `json:"warehouse"`
	Kind        string `json:"kind"`
	GeneratedAt string `json:"generated_at"`
	Rows        int    `json:"rows"`
}

// Summaries lists the latest run per configured warehouse, skipping
// warehouses that never ran.
func (s *ExportService) Summaries(warehouses []string) []RunSummary {
	var out []RunSummary
	for _, wh := range warehouses {
		if run := s.orders.Latest(wh); run != nil {
			out = append(out, RunSummary{
				Warehouse:   run.Warehouse,
				Kind:        "assembly",
				GeneratedAt: run.GeneratedAt.Format("2006-01-02 15:04:05"),
				Rows:        len(run.Analyses),
			})
		}
		if run := s.po.Latest(wh); run != nil {
			out = append(out, RunSummary{
				Warehouse:   run.Warehouse,
				Kind:        "po",
				GeneratedAt: run.GeneratedAt.Format("2006-01-02 15:04:05"),
				Rows:        len(run.Lines),
			})
		}
	}
	return out
}
