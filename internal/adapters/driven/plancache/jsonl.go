// Package plancache persists compiled query plans in an append-only
// JSONL file keyed by query-text hash.
package plancache

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.PlanCache = (*Cache)(nil)

// maxEntrySize bounds a single cache line.
const maxEntrySize = 1 * 1024 * 1024

// entry is one cache line. The key is the hash of the raw query text,
// so lookup never depends on plan contents.
type entry struct {
	Key  string           `json:"key"`
	Plan domain.QueryPlan `json:"plan"`
}

// Cache is a file-backed plan cache. Writes append with O_APPEND so
// concurrent processes interleave whole lines; a duplicate append for
// the same key is benign, and the latest entry wins on read.
type Cache struct {
	mu   sync.Mutex
	path string
}

// New returns a cache stored at path. The file is created lazily on
// first Put.
func New(path string) (*Cache, error) {
	if path == "" {
		return nil, errors.New("empty plan cache path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	return &Cache{path: path}, nil
}

// Path returns the cache file path.
func (c *Cache) Path() string {
	return c.path
}

// Get scans the cache file for the query's entry.
func (c *Cache) Get(ctx context.Context, queryText string) (*domain.QueryPlan, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("opening plan cache: %w", err)
	}
	defer f.Close()

	key := domain.HashQueryText(queryText)
	plan, found, err := scanFor(f, key)
	if err != nil {
		return nil, false, fmt.Errorf("reading plan cache: %w", err)
	}
	return plan, found, nil
}

// Put appends the plan. Earlier entries are never rewritten.
func (c *Cache) Put(ctx context.Context, plan domain.QueryPlan) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(entry{
		Key:  domain.HashQueryText(plan.QueryText),
		Plan: plan,
	})
	if err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	line = append(line, '\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("opening plan cache: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("appending plan: %w", err)
	}
	return nil
}

// scanFor reads every line and keeps the last entry matching key. A
// truncated final line (a crash mid-append) is tolerated; any earlier
// malformed line is corruption and fails the read.
func scanFor(r io.Reader, key string) (*domain.QueryPlan, bool, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxEntrySize)

	var (
		plan    *domain.QueryPlan
		pending error
		line    int
	)
	for scanner.Scan() {
		line++
		if pending != nil {
			return nil, false, pending
		}
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var e entry
		if err := json.Unmarshal(data, &e); err != nil {
			pending = fmt.Errorf("decoding line %d: %w", line, err)
			continue
		}
		if e.Key == key {
			p := e.Plan
			plan = &p
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, false, err
	}
	return plan, plan != nil, nil
}
