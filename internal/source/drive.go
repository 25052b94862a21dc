// internal/source/drive.go
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/stockops/stockorders/internal/config"
)

// DriveSource reads report files from a Google Drive folder using a
// service account.
type DriveSource struct {
	srv      *drive.Service
	folderID string

	mu  sync.RWMutex
	ids map[string]string
}

func NewDriveSource(cfg config.DriveConfig) (*DriveSource, error) {
	if cfg.CredentialsFile == "" {
		return nil, fmt.Errorf("drive credentials file must be provided")
	}
	credentials, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(credentials, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}

	srv, err := drive.NewService(context.Background(),
		option.WithHTTPClient(jwt.Client(context.Background())))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	folderID := cfg.FolderID
	if folderID == "" {
		folderID = "root"
	}

	return &DriveSource{
		srv:      srv,
		folderID: folderID,
		ids:      make(map[string]string),
	}, nil
}

func (s *DriveSource) Name() string {
	return "drive:" + s.folderID
}

func (s *DriveSource) List(ctx context.Context) ([]FileInfo, error) {
	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", s.folderID)).
		Fields("files(id, name, size)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list drive folder: %w", err)
	}

	files := make([]FileInfo, 0, len(result.Files))
	s.mu.Lock()
	for _, f := range result.Files {
		s.ids[f.Name] = f.Id
		files = append(files, FileInfo{Name: f.Name, Size: f.Size})
	}
	s.mu.Unlock()
	return files, nil
}

func (s *DriveSource) Fetch(ctx context.Context, name, destPath string) error {
	id, err := s.fileID(ctx, name)
	if err != nil {
		return err
	}

	resp, err := s.srv.Files.Get(id).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", name, err)
	}
	defer resp.Body.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	return out.Close()
}

// fileID resolves a name to a Drive file ID, from the cache a List filled
// or with a lookup query.
func (s *DriveSource) fileID(ctx context.Context, name string) (string, error) {
	s.mu.RLock()
	id := s.ids[name]
	s.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and name='%s' and trashed=false", s.folderID, name)).
		Fields("files(id)").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to look up %s: %w", name, err)
	}
	if len(result.Files) == 0 {
		return "", fmt.Errorf("file not found in drive folder: %s", name)
	}

	id = result.Files[0].Id
	s.mu.Lock()
	s.ids[name] = id
	s.mu.Unlock()
	return id, nil
}
