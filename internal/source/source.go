// internal/source/source.go
package source

import (
	"context"
	"fmt"

	"github.com/stockops/stockorders/internal/config"
)

// FileInfo is the metadata a source reports for one remote file.
type FileInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// ReportSource captures the minimal operations the watcher needs to sync
// report files from wherever the exports land.
type ReportSource interface {
	// Name identifies the source in logs and status output.
	Name() string
	// List returns the files currently offered by the source.
	List(ctx context.Context) ([]FileInfo, error)
	// Fetch copies one file into destPath.
	Fetch(ctx context.Context, name, destPath string) error
}

// New builds the source named by INGEST_SOURCE: local, s3 or drive.
func New(cfg *config.Config) (ReportSource, error) {
	switch cfg.Ingest.Source {
	case "local":
		return NewLocalSource(cfg.Ingest.WatchLocal), nil
	case "s3", "minio":
		return NewS3Source(cfg.Storage)
	case "drive", "gdrive":
		return NewDriveSource(cfg.Drive)
	default:
		return nil, fmt.Errorf("unknown ingest source %q", cfg.Ingest.Source)
	}
}
