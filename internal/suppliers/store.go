// internal/suppliers/store.go
package suppliers

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// defaults are the internal movement accounts an inventory system books
// stock against. None of them is a vendor anyone should order from.
var defaults = []string{
	"auto transfer", "direct transfer", "internal transfer", "transfer in",
	"transfer out", "stock adjustment", "inventory adjustment", "write off",
	"damaged goods", "lost inventory", "returned goods", "customer return",
	"warranty replacement", "sample product", "promotional item", "gift",
	"complimentary", "testing", "quality control", "research", "development",
	"prototype", "discontinued", "obsolete", "end of life", "clearance",
	"liquidation", "bulk sale",
}

// DefaultExclusions returns the built-in exclusion list.
func DefaultExclusions() []string {
	return append([]string(nil), defaults...)
}

// Store holds the supplier exclusion list: lowercased names matched
// exactly against order suppliers. The list persists to a newline
// delimited file when a path is configured.
type Store struct {
	path string

	mu    sync.RWMutex
	names []string
}

// NewStore creates a store backed by the given file. An empty path keeps
// the list in memory only.
func NewStore(path string) *Store {
	return &Store{path: path, names: normalize(defaults)}
}

// Load reads the exclusion list from disk. A missing file keeps the
// defaults; that is the state before anyone has saved a list.
func (s *Store) Load() error {
	if s.path == "" {
		return nil
	}
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		log.Debug().Str("path", s.path).Msg("no supplier exclusion file, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to open supplier exclusions %s: %w", s.path, err)
	}
	defer f.Close()

	names, err := ParseList(f)
	if err != nil {
		return fmt.Errorf("failed to read supplier exclusions %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.names = names
	s.mu.Unlock()
	log.Info().Int("count", len(names)).Str("path", s.path).Msg("supplier exclusions loaded")
	return nil
}

// List returns the current exclusions, sorted.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.names...)
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// Contains reports whether a supplier name is excluded, matching the way
// order generation does: trimmed and case-insensitive.
func (s *Store) Contains(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := sort.SearchStrings(s.names, name)
	return i < len(s.names) && s.names[i] == name
}

// Replace swaps in a whole new list and persists it.
func (s *Store) Replace(names []string) error {
	return s.set(normalize(names))
}

// Merge adds names to the existing list, reporting how many were new.
func (s *Store) Merge(names []string) (int, error) {
	s.mu.RLock()
	combined := append(append([]string(nil), s.names...), names...)
	before := len(s.names)
	s.mu.RUnlock()

	merged := normalize(combined)
	if err := s.set(merged); err != nil {
		return 0, err
	}
	return len(merged) - before, nil
}

// Reset restores the default list and persists it.
func (s *Store) Reset() error {
	return s.set(normalize(defaults))
}

// Clear empties the list and persists it.
func (s *Store) Clear() error {
	return s.set(nil)
}

// Export writes the list one name per line.
func (s *Store) Export(w io.Writer) error {
	for _, name := range s.List() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) set(names []string) error {
	s.mu.Lock()
	s.names = names
	s.mu.Unlock()
	return s.save(names)
}

func (s *Store) save(names []string) error {
	if s.path == "" {
		return nil
	}
	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to save supplier exclusions %s: %w", s.path, err)
	}
	return nil
}

// ParseList reads a newline-delimited supplier list: trimmed, lowercased,
// blanks skipped.
func ParseList(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		names = append(names, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return normalize(names), nil
}

// normalize lowers, trims, dedupes and sorts, the canonical list shape.
func normalize(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
