// internal/report/loader.go
package report

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/stockops/stockorders/internal/domain"
)

// FileStatus reports what the loader made of one file.
type FileStatus struct {
	Name      string   `json:"name"`
	Kind      FileKind `json:"kind"`
	Warehouse string   `json:"warehouse,omitempty"`
	Rows      int      `json:"rows"`
	Error     string   `json:"error,omitempty"`
}

// Loader parses report files into snapshots, a bounded number at a time.
type Loader struct {
	sem *semaphore.Weighted
}

func NewLoader(maxParallel int64) *Loader {
	if maxParallel <= 0 {
		maxParallel = 4
	}
	return &Loader{sem: semaphore.NewWeighted(maxParallel)}
}

// LoadDir loads every recognizable report in a directory into one
// snapshot. Subdirectories are not descended into.
func (l *Loader) LoadDir(ctx context.Context, dir string) (*domain.Snapshot, []FileStatus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return l.LoadFiles(ctx, paths)
}

type parsedFile struct {
	status        FileStatus
	availability  *domain.AvailabilityTable
	inventory     *domain.InventoryTable
	bom           *domain.BOMTable
	sales         map[string]*domain.WideTable
	replenishment []domain.ReplenishmentRecord
}

// LoadFiles parses the given files concurrently and merges them into one
// snapshot in filename order, so a later file of the same kind replaces an
// earlier one deterministically. Parse failures land in the returned
// statuses rather than aborting the load.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) (*domain.Snapshot, []FileStatus, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	results := make([]parsedFile, len(sorted))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range sorted {
		i, path := i, path
		g.Go(func() error {
			if err := l.sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer l.sem.Release(1)
			results[i] = parseFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	snap := &domain.Snapshot{}
	statuses := make([]FileStatus, 0, len(results))
	for _, res := range results {
		statuses = append(statuses, res.status)
		if res.status.Error != "" {
			log.Warn().Str("file", res.status.Name).Str("error", res.status.Error).Msg("report file skipped")
			continue
		}
		switch res.status.Kind {
		case KindAvailability:
			if snap.Availability != nil {
				log.Warn().Str("file", res.status.Name).Msg("replacing previously loaded availability report")
			}
			snap.Availability = res.availability
		case KindInventory:
			if snap.Inventory != nil {
				log.Warn().Str("file", res.status.Name).Msg("replacing previously loaded inventory list")
			}
			snap.Inventory = res.inventory
		case KindBOM:
			if snap.BOM != nil {
				log.Warn().Str("file", res.status.Name).Msg("replacing previously loaded BOM report")
			}
			snap.BOM = res.bom
		case KindSales:
			if snap.Sales != nil {
				log.Warn().Str("file", res.status.Name).Msg("replacing previously loaded sales report")
			}
			snap.Sales = res.sales
		case KindReplenishment:
			if snap.Replenishment == nil {
				snap.Replenishment = make(map[string][]domain.ReplenishmentRecord)
			}
			snap.Replenishment[res.status.Warehouse] = res.replenishment
		}
	}
	return snap, statuses, nil
}

func parseFile(path string) parsedFile {
	name := filepath.Base(path)
	kind, warehouse := Classify(name)
	res := parsedFile{status: FileStatus{Name: name, Kind: kind, Warehouse: warehouse}}
	if kind == KindUnknown {
		return res
	}

	fail := func(err error) parsedFile {
		res.status.Error = err.Error()
		return res
	}

	switch kind {
	case KindBOM:
		bom, err := ParseBOMWorkbook(path)
		if err != nil {
			return fail(err)
		}
		res.bom = bom
		res.status.Rows = len(bom.Lines)
	case KindSales:
		sales, err := ParseSalesWorkbook(path)
		if err != nil {
			return fail(err)
		}
		res.sales = sales
		if t := sales[domain.MetricQuantity]; t != nil {
			res.status.Rows = len(t.Rows)
		}
	default:
		f, err := os.Open(path)
		if err != nil {
			return fail(err)
		}
		defer f.Close()
		table, err := readCSV(f)
		if err != nil {
			return fail(err)
		}
		switch kind {
		case KindAvailability:
			res.availability = availabilityFromTable(table)
			res.status.Rows = len(res.availability.Records)
		case KindInventory:
			res.inventory = inventoryFromTable(table)
			res.status.Rows = len(res.inventory.Items)
		case KindReplenishment:
			res.replenishment = replenishmentFromTable(table)
			res.status.Rows = len(res.replenishment)
		}
	}

	log.Debug().Str("file", name).Str("kind", string(kind)).Int("rows", res.status.Rows).Msg("report file parsed")
	return res
}
