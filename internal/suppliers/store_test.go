package suppliers

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestStoreDefaults(t *testing.T) {
	s := NewStore("")
	if s.Count() != 28 {
		t.Fatalf("default count = %d, want 28", s.Count())
	}
	if !s.Contains("Auto Transfer") {
		t.Error("Contains should match case-insensitively")
	}
	if !s.Contains("  bulk sale  ") {
		t.Error("Contains should trim its argument")
	}
	if s.Contains("acme supply") {
		t.Error("acme supply should not be excluded by default")
	}
}

func TestStoreLoadMissingFileKeepsDefaults(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "excluded_suppliers.txt"))
	if err := s.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Count() != 28 {
		t.Errorf("count after loading missing file = %d, want 28", s.Count())
	}
}

func TestStoreReplaceNormalizesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "excluded_suppliers.txt")
	s := NewStore(path)

	if err := s.Replace([]string{" Acme Supply ", "", "acme supply", "Zeta"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	want := []string{"acme supply", "zeta"}
	if got := s.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}

	reloaded := NewStore(path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := reloaded.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List after reload = %v, want %v", got, want)
	}
}

func TestStoreMergeReportsNewEntries(t *testing.T) {
	s := NewStore("")
	if err := s.Replace([]string{"acme"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	added, err := s.Merge([]string{"Beta", "ACME"})
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if added != 1 {
		t.Errorf("added = %d, want 1", added)
	}
	want := []string{"acme", "beta"}
	if got := s.List(); !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestStoreResetAndClear(t *testing.T) {
	s := NewStore("")
	if err := s.Replace([]string{"acme"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if s.Count() != 28 {
		t.Errorf("count after reset = %d, want 28", s.Count())
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("count after clear = %d, want 0", s.Count())
	}
}

func TestStoreExport(t *testing.T) {
	s := NewStore("")
	if err := s.Replace([]string{"zeta", "acme"}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := buf.String(); got != "acme\nzeta\n" {
		t.Errorf("export = %q", got)
	}
}

func TestParseList(t *testing.T) {
	names, err := ParseList(strings.NewReader("  Acme \n\nBETA\r\nacme\n"))
	if err != nil {
		t.Fatalf("ParseList: %v", err)
	}
	want := []string{"acme", "beta"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ParseList = %v, want %v", names, want)
	}
}
