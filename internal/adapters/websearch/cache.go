package websearch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"go.uber.org/zap"

	"github.com/novagate/novagate/internal/domain/entities"
	"github.com/novagate/novagate/internal/domain/ports"
)

// Cache decorates a SearchService with a short-lived SQLite result cache
// keyed by (query, topK, freshOnly), so a burst of identical
// time-sensitive questions does not hammer the engine. It stores
// retrieval results only - never conversation state. Cache failures are
// logged and fall through to the wrapped service.
type Cache struct {
	mu     sync.RWMutex
	inner  ports.SearchService
	db     *sql.DB
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewCache creates a persistent search cache at dataPath.
func NewCache(inner ports.SearchService, dataPath string, ttl time.Duration, logger *zap.Logger) (*Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if dataPath == "" {
		dataPath = "./data"
	}

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataPath, "searchcache.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Cache{
		inner:  inner,
		db:     db,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return c, nil
}

func (c *Cache) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS search_cache (
		query TEXT NOT NULL,
		top_k INTEGER NOT NULL,
		fresh_only INTEGER NOT NULL,
		results TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (query, top_k, fresh_only)
	);
	`
	_, err := c.db.Exec(schema)
	return err
}

// Search serves from cache when a live-enough entry exists, otherwise
// delegates and stores non-empty results.
func (c *Cache) Search(ctx context.Context, query string, topK int, freshOnly bool) ([]entities.RetrievalItem, error) {
	if items, ok := c.lookup(ctx, query, topK, freshOnly); ok {
		return items, nil
	}

	items, err := c.inner.Search(ctx, query, topK, freshOnly)
	if err != nil {
		return nil, err
	}
	// Empty results are not cached: a transient engine failure must not
	// blank out a query for a whole TTL.
	if len(items) > 0 {
		c.store(ctx, query, topK, freshOnly, items)
	}
	return items, nil
}

func (c *Cache) lookup(ctx context.Context, query string, topK int, freshOnly bool) ([]entities.RetrievalItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		payload   string
		createdAt int64
	)
	err := c.db.QueryRowContext(ctx, `
		SELECT results, created_at FROM search_cache
		WHERE query = ? AND top_k = ? AND fresh_only = ?
	`, query, topK, boolToInt(freshOnly)).Scan(&payload, &createdAt)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("cache lookup failed", zap.Error(err))
		return nil, false
	}

	if c.now().Unix()-createdAt > int64(c.ttl.Seconds()) {
		return nil, false
	}

	var items []entities.RetrievalItem
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		c.logger.Warn("cache entry corrupt, ignoring", zap.Error(err))
		return nil, false
	}
	return items, true
}

func (c *Cache) store(ctx context.Context, query string, topK int, freshOnly bool, items []entities.RetrievalItem) {
	payload, err := json.Marshal(items)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.Error(err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO search_cache (query, top_k, fresh_only, results, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, query, topK, boolToInt(freshOnly), string(payload), c.now().Unix())
	if err != nil {
		c.logger.Warn("cache store failed", zap.Error(err))
	}
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
