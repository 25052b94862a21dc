// cmd/stockorders/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/stockops/stockorders/internal/config"
	"github.com/stockops/stockorders/internal/domain"
	"github.com/stockops/stockorders/internal/report"
	"github.com/stockops/stockorders/internal/service"
	"github.com/stockops/stockorders/internal/source"
	"github.com/stockops/stockorders/internal/suppliers"
	"github.com/stockops/stockorders/pkg/logger"
)

func newWarehouseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "warehouse",
		Aliases: []string{"w"},
		Usage:   "Warehouse code to run, empty runs every configured warehouse",
	}
}

func newDataDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "data-dir",
		Usage:   "Directory containing the report files",
		EnvVars: []string{"APP_DATA_DIR"},
	}
}

func newOutDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Directory the CSV exports are written to",
		Value:   ".",
	}
}

func main() {
	app := &cli.App{
		Name:  "stockorders",
		Usage: "Generate assembly orders, stock transfers and purchase orders from inventory reports",
		Before: func(c *cli.Context) error {
			logger.SetLevel(config.Load().App.LogLevel)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "assembly",
				Usage:  "Run the assembly analysis and write its four CSV sheets",
				Flags:  []cli.Flag{newWarehouseFlag(), newDataDirFlag(), newOutDirFlag()},
				Action: runAssembly,
			},
			{
				Name:   "po",
				Usage:  "Size purchase orders from the replenishment report",
				Flags:  []cli.Flag{newWarehouseFlag(), newDataDirFlag(), newOutDirFlag()},
				Action: runPO,
			},
			{
				Name:   "fetch",
				Usage:  "Sync report files from the configured source into the data directory",
				Flags:  []cli.Flag{newDataDirFlag()},
				Action: runFetch,
			},
			{
				Name:  "suppliers",
				Usage: "Manage the supplier exclusion list",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "Print the exclusion list",
						Action: runSupplierList,
					},
					{
						Name:      "add",
						Usage:     "Add names to the exclusion list",
						ArgsUsage: "NAME [NAME...]",
						Action:    runSupplierAdd,
					},
					{
						Name:   "reset",
						Usage:  "Restore the built-in exclusion list",
						Action: runSupplierReset,
					},
					{
						Name:  "export",
						Usage: "Write the exclusion list to a file",
						Flags: []cli.Flag{&cli.StringFlag{
							Name:  "out",
							Usage: "Output file",
							Value: "excluded_suppliers.txt",
						}},
						Action: runSupplierExport,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}

// loadDataset reads the report directory and logs what it made of each file.
func loadDataset(ctx context.Context, cfg *config.Config, dataDir string) (*service.DatasetService, error) {
	if dataDir == "" {
		dataDir = cfg.App.DataDir
	}
	datasets := service.NewDatasetService(cfg.Ingest.MaxParallel)
	statuses, err := datasets.LoadDir(ctx, dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load reports from %s: %w", dataDir, err)
	}
	for _, st := range statuses {
		if st.Error != "" {
			log.Warn().Str("file", st.Name).Str("error", st.Error).Msg("report skipped")
		}
	}
	return datasets, nil
}

func warehouseCodes(cfg *config.Config, flag string) []string {
	if flag != "" {
		return []string{flag}
	}
	codes := make([]string, 0, len(cfg.Warehouses))
	for _, wh := range cfg.Warehouses {
		codes = append(codes, wh.Code)
	}
	return codes
}

func runAssembly(c *cli.Context) error {
	cfg := config.Load()
	datasets, err := loadDataset(c.Context, cfg, c.String("data-dir"))
	if err != nil {
		return err
	}
	orders := service.NewOrderService(datasets, cfg)
	outDir := c.String("out")

	for _, code := range warehouseCodes(cfg, c.String("warehouse")) {
		run, err := orders.Generate(c.Context, code)
		if err != nil {
			return fmt.Errorf("assembly run for %s: %w", code, err)
		}
		files := map[string]func(w io.Writer) error{
			"assembly_orders_" + run.Warehouse + ".csv": func(w io.Writer) error {
				return report.WriteAssemblyOrders(w, run.Analyses, run.Warehouse)
			},
			"cannot_assemble_" + run.Warehouse + ".csv": func(w io.Writer) error {
				return report.WriteCannotAssemble(w, run.Analyses, run.Warehouse)
			},
			"transfer_orders_" + run.Warehouse + ".csv": func(w io.Writer) error {
				return report.WriteTransfers(w, run.Transfers)
			},
			"abc_analysis_" + run.Warehouse + ".csv": func(w io.Writer) error {
				return report.WriteABC(w, run.ABC)
			},
		}
		for name, write := range files {
			if err := writeFile(filepath.Join(outDir, name), write); err != nil {
				return err
			}
		}
		printAssemblySummary(run)
	}
	return nil
}

func printAssemblySummary(run *domain.AssemblyRun) {
	fmt.Printf("%s: %d candidates, %d ready to build, %d transfers, %d SKUs classified\n",
		run.Warehouse, len(run.Candidates), run.ReadyCount(), len(run.Transfers), len(run.ABC))
	for _, stage := range run.Diagnostics.Stages {
		if len(stage.MissingColumns) > 0 {
			fmt.Printf("  warning: %s ran without columns %v\n", stage.Stage, stage.MissingColumns)
		}
	}
}

func runPO(c *cli.Context) error {
	cfg := config.Load()
	datasets, err := loadDataset(c.Context, cfg, c.String("data-dir"))
	if err != nil {
		return err
	}

	exclusions := suppliers.NewStore(cfg.Suppliers.ExclusionFile)
	if err := exclusions.Load(); err != nil {
		return err
	}
	po := service.NewPOService(datasets, cfg, exclusions)
	outDir := c.String("out")

	for _, code := range warehouseCodes(cfg, c.String("warehouse")) {
		run, err := po.Generate(c.Context, code)
		if err != nil {
			return fmt.Errorf("purchase order for %s: %w", code, err)
		}
		path := filepath.Join(outDir, report.POFilename(run.Warehouse))
		err = writeFile(path, func(w io.Writer) error {
			return report.WritePOLines(w, run.Lines, run.IncludeSupplierCode, run.IncludeProductName)
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d order lines written to %s\n", run.Warehouse, len(run.Lines), path)
	}
	return nil
}

func runFetch(c *cli.Context) error {
	cfg := config.Load()
	src, err := source.New(cfg)
	if err != nil {
		return err
	}
	dataDir := c.String("data-dir")
	if dataDir == "" {
		dataDir = cfg.App.DataDir
	}

	watcher := source.NewWatcher(src, dataDir, 0, cfg.Ingest.MaxParallel)
	fetched, err := watcher.Sync(c.Context)
	if err != nil {
		return fmt.Errorf("sync from %s: %w", src.Name(), err)
	}
	fmt.Printf("fetched %d files from %s into %s\n", fetched, src.Name(), dataDir)
	return nil
}

func loadExclusionStore() (*suppliers.Store, error) {
	store := suppliers.NewStore(config.Load().Suppliers.ExclusionFile)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

func runSupplierList(c *cli.Context) error {
	store, err := loadExclusionStore()
	if err != nil {
		return err
	}
	for _, name := range store.List() {
		fmt.Println(name)
	}
	fmt.Printf("%d excluded suppliers\n", store.Count())
	return nil
}

func runSupplierAdd(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("no supplier names given")
	}
	store, err := loadExclusionStore()
	if err != nil {
		return err
	}
	added, err := store.Merge(c.Args().Slice())
	if err != nil {
		return err
	}
	fmt.Printf("added %d, list now holds %d\n", added, store.Count())
	return nil
}

func runSupplierReset(c *cli.Context) error {
	store, err := loadExclusionStore()
	if err != nil {
		return err
	}
	if err := store.Reset(); err != nil {
		return err
	}
	fmt.Printf("restored %d built-in exclusions\n", store.Count())
	return nil
}

func runSupplierExport(c *cli.Context) error {
	store, err := loadExclusionStore()
	if err != nil {
		return err
	}
	path := c.String("out")
	return writeFile(path, store.Export)
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
