package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/ppiankov/mailfacts/internal/model"
)

// Cache defines the interface for byte-oriented caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ContentKey generates a cache key from the combined subject/body content
func ContentKey(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "mailfacts:v1:" + hex.EncodeToString(hash[:])
}

// RecordCache stores extraction records keyed by the content they were extracted from
type RecordCache struct {
	store Cache
	ttl   time.Duration
}

// NewRecordCache wraps a byte cache
func NewRecordCache(store Cache, ttl time.Duration) *RecordCache {
	return &RecordCache{store: store, ttl: ttl}
}

// New builds the record cache described by cfg. It returns nil when caching is
// disabled; a nil *RecordCache is safe to use and never hits.
func New(cfg model.CacheConfig) *RecordCache {
	if !cfg.Enabled {
		return nil
	}

	memory := NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
	if cfg.DiskDir == "" {
		return NewRecordCache(memory, cfg.MemoryTTL)
	}

	return NewRecordCache(NewLayeredCache(memory, NewDiskCache(cfg.DiskDir, cfg.DiskTTL)), 0)
}

// Get returns the cached record for content
func (c *RecordCache) Get(content string) (model.ExtractionRecord, bool) {
	var record model.ExtractionRecord
	if c == nil {
		return record, false
	}

	data, found := c.store.Get(ContentKey(content))
	if !found {
		return record, false
	}

	if err := json.Unmarshal(data, &record); err != nil {
		return model.ExtractionRecord{}, false
	}
	return record, true
}

// Put stores the record extracted from content
func (c *RecordCache) Put(content string, record model.ExtractionRecord) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return c.store.Set(ContentKey(content), data, c.ttl)
}
