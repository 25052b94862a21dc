package source

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

func adminServer(t *testing.T, srcDir string) *httptest.Server {
	t.Helper()
	src := NewLocalSource(srcDir)
	w := NewWatcher(src, t.TempDir(), time.Minute, 2)

	router := mux.NewRouter()
	NewAdminHandler(w, src).RegisterRoutes(router)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestAdminStatusEndpoint(t *testing.T) {
	srv := adminServer(t, t.TempDir())

	resp, err := http.Get(srv.URL + "/api/source/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}

	var st Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Source == "" || st.Interval != "1m0s" {
		t.Errorf("status = %+v", st)
	}
}

func TestAdminSyncEndpoint(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "AvailabilityReport_1.csv"), []byte("SKU\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := adminServer(t, srcDir)

	resp, err := http.Post(srv.URL+"/api/source/sync", "application/json", nil)
	if err != nil {
		t.Fatalf("POST sync: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code = %d", resp.StatusCode)
	}

	var out map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["fetched"] != 1 {
		t.Errorf("fetched = %d, want 1", out["fetched"])
	}
}

func TestAdminFilesEndpoint(t *testing.T) {
	srcDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(srcDir, "InventoryList_1.csv"), []byte("ProductCode\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	srv := adminServer(t, srcDir)

	resp, err := http.Get(srv.URL + "/api/source/files")
	if err != nil {
		t.Fatalf("GET files: %v", err)
	}
	defer resp.Body.Close()

	var files []FileInfo
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(files) != 1 || files[0].Name != "InventoryList_1.csv" {
		t.Errorf("files = %+v", files)
	}
}
