package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stockops/stockorders/internal/config"
)

func TestBuildExportKey(t *testing.T) {
	base := BuildExportKey("assembly_orders", "abc123", "NC")
	if !strings.HasPrefix(base, exportKeyPrefix+":") {
		t.Errorf("key %q missing prefix", base)
	}
	if again := BuildExportKey("assembly_orders", "abc123", "NC"); again != base {
		t.Errorf("same inputs produced %q and %q", base, again)
	}

	variants := []string{
		BuildExportKey("po", "abc123", "NC"),
		BuildExportKey("assembly_orders", "def456", "NC"),
		BuildExportKey("assembly_orders", "abc123", "CA"),
		BuildExportKey("assembly_orders", "abc123"),
	}
	for _, v := range variants {
		if v == base {
			t.Errorf("variant key collided with base: %q", v)
		}
	}
}

func TestNewExportCacheDisabled(t *testing.T) {
	c, err := NewExportCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatalf("NewExportCache: %v", err)
	}

	ctx := context.Background()
	if err := c.SetCSV(ctx, "k", []byte("payload")); err != nil {
		t.Fatalf("SetCSV: %v", err)
	}
	if _, ok, err := c.GetCSV(ctx, "k"); err != nil || ok {
		t.Errorf("noop cache returned ok=%v err=%v, want miss", ok, err)
	}
	if err := c.InvalidateAll(ctx); err != nil {
		t.Errorf("InvalidateAll: %v", err)
	}
}
