// Package cache stores pipeline results keyed by source URL and model, with
// an in-memory backend for single-process use and a Cloud Storage backend
// for serverless deployments.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/sakabe/article-pipeline/internal/extractor"
	"github.com/sakabe/article-pipeline/internal/summarizer"
)

// Cache defines the operations a result cache backend supports.
type Cache interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Prune(ctx context.Context) error
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// Entry is one cached pipeline result.
type Entry struct {
	Key         string              `json:"key"`
	Article     extractor.Article   `json:"article"`
	Summary     summarizer.Response `json:"summary"`
	CreatedAt   time.Time           `json:"created_at"`
	ExpiresAt   time.Time           `json:"expires_at"`
	AccessedAt  time.Time           `json:"accessed_at"`
	AccessCount int                 `json:"access_count"`
}

// Stats describes the state of a cache backend.
type Stats struct {
	TotalEntries   int           `json:"total_entries"`
	HitCount       int64         `json:"hit_count"`
	MissCount      int64         `json:"miss_count"`
	HitRate        float64       `json:"hit_rate"`
	OldestEntry    time.Time     `json:"oldest_entry"`
	AverageAge     time.Duration `json:"average_age"`
	ExpiredEntries int           `json:"expired_entries"`
}

// ErrCacheMiss is returned when no live entry exists for a key.
var ErrCacheMiss = fmt.Errorf("cache miss")

// MemoryCache is the in-process backend.
type MemoryCache struct {
	entries   map[string]*Entry
	mutex     sync.RWMutex
	duration  time.Duration
	hitCount  int64
	missCount int64
}

// NewMemoryCache creates an in-memory cache with the given entry TTL.
func NewMemoryCache(duration time.Duration) *MemoryCache {
	return &MemoryCache{
		entries:  make(map[string]*Entry),
		duration: duration,
	}
}

// Get retrieves an entry, counting hits and misses and evicting expired
// entries on access.
func (c *MemoryCache) Get(ctx context.Context, key string) (*Entry, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		c.missCount++
		return nil, ErrCacheMiss
	}

	now := time.Now()
	if now.After(entry.ExpiresAt) {
		delete(c.entries, key)
		c.missCount++
		return nil, ErrCacheMiss
	}

	entry.AccessedAt = now
	entry.AccessCount++
	c.hitCount++
	return entry, nil
}

// Set stores an entry under key.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *Entry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	entry.Key = key
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(c.duration)
	entry.AccessedAt = now
	entry.AccessCount = 0

	c.entries[key] = entry
	return nil
}

// Delete removes an entry.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
	return nil
}

// Exists checks whether a non-expired entry is present.
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return false, nil
	}
	return !time.Now().After(entry.ExpiresAt), nil
}

// Prune removes expired entries.
func (c *MemoryCache) Prune(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for key, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, key)
		}
	}
	return nil
}

// Clear removes all entries and resets counters.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*Entry)
	c.hitCount = 0
	c.missCount = 0
	return nil
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats(ctx context.Context) (*Stats, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := &Stats{
		TotalEntries: len(c.entries),
		HitCount:     c.hitCount,
		MissCount:    c.missCount,
	}
	if c.hitCount+c.missCount > 0 {
		stats.HitRate = float64(c.hitCount) / float64(c.hitCount+c.missCount)
	}

	var totalAge time.Duration
	now := time.Now()
	for _, entry := range c.entries {
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		totalAge += now.Sub(entry.CreatedAt)
		if now.After(entry.ExpiresAt) {
			stats.ExpiredEntries++
		}
	}
	if len(c.entries) > 0 {
		stats.AverageAge = totalAge / time.Duration(len(c.entries))
	}

	return stats, nil
}

// Close is a no-op for the memory backend.
func (c *MemoryCache) Close() error {
	return nil
}

// CloudStorageCache stores entries as JSON objects in a Cloud Storage
// bucket under a fixed prefix.
type CloudStorageCache struct {
	client     *storage.Client
	bucketName string
	duration   time.Duration
	prefix     string
}

// NewCloudStorageCache creates a Cloud Storage cache. The bucket name comes
// from CACHE_BUCKET, defaulting to article-pipeline-cache.
func NewCloudStorageCache(ctx context.Context, duration time.Duration) (*CloudStorageCache, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	bucketName := os.Getenv("CACHE_BUCKET")
	if bucketName == "" {
		bucketName = "article-pipeline-cache"
	}

	return &CloudStorageCache{
		client:     client,
		bucketName: bucketName,
		duration:   duration,
		prefix:     "results/",
	}, nil
}

// Get retrieves an entry, treating expired objects as misses and deleting
// them.
func (c *CloudStorageCache) Get(ctx context.Context, key string) (*Entry, error) {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName(key))

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("opening object reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading object data: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling cache entry: %w", err)
	}

	if time.Now().After(entry.ExpiresAt) {
		if err := c.Delete(ctx, key); err != nil {
			log.Printf("Warning: failed to delete expired cache entry %s: %v", key, err)
		}
		return nil, ErrCacheMiss
	}

	return &entry, nil
}

// Set stores an entry as a JSON object.
func (c *CloudStorageCache) Set(ctx context.Context, key string, entry *Entry) error {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName(key))

	now := time.Now()
	entry.Key = key
	entry.CreatedAt = now
	entry.ExpiresAt = now.Add(c.duration)
	entry.AccessedAt = now

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}

	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/json"
	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing object data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}

	return nil
}

// Delete removes an entry; a missing object is not an error.
func (c *CloudStorageCache) Delete(ctx context.Context, key string) error {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName(key))
	if err := obj.Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("deleting object: %w", err)
	}
	return nil
}

// Exists checks whether the object is present.
func (c *CloudStorageCache) Exists(ctx context.Context, key string) (bool, error) {
	obj := c.client.Bucket(c.bucketName).Object(c.objectName(key))
	if _, err := obj.Attrs(ctx); err != nil {
		if err == storage.ErrObjectNotExist {
			return false, nil
		}
		return false, fmt.Errorf("getting object attributes: %w", err)
	}
	return true, nil
}

// Prune deletes objects whose stored entry has expired.
func (c *CloudStorageCache) Prune(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: c.prefix})
	now := time.Now()

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}

		reader, err := bucket.Object(attrs.Name).NewReader(ctx)
		if err != nil {
			continue
		}
		var entry Entry
		decodeErr := json.NewDecoder(reader).Decode(&entry)
		reader.Close()
		if decodeErr != nil {
			continue
		}

		if now.After(entry.ExpiresAt) {
			if err := bucket.Object(attrs.Name).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
				return fmt.Errorf("deleting expired object %s: %w", attrs.Name, err)
			}
		}
	}
	return nil
}

// Clear removes all objects under the cache prefix.
func (c *CloudStorageCache) Clear(ctx context.Context) error {
	bucket := c.client.Bucket(c.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: c.prefix})

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("listing objects: %w", err)
		}
		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil {
			return fmt.Errorf("deleting object %s: %w", attrs.Name, err)
		}
	}
	return nil
}

// Stats aggregates object counts and ages. Hit counts are not tracked for
// this backend.
func (c *CloudStorageCache) Stats(ctx context.Context) (*Stats, error) {
	bucket := c.client.Bucket(c.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: c.prefix})

	stats := &Stats{}
	var totalAge time.Duration
	now := time.Now()

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects: %w", err)
		}

		stats.TotalEntries++
		if stats.OldestEntry.IsZero() || attrs.Created.Before(stats.OldestEntry) {
			stats.OldestEntry = attrs.Created
		}
		totalAge += now.Sub(attrs.Created)
	}

	if stats.TotalEntries > 0 {
		stats.AverageAge = totalAge / time.Duration(stats.TotalEntries)
	}
	return stats, nil
}

// Close closes the storage client.
func (c *CloudStorageCache) Close() error {
	return c.client.Close()
}

func (c *CloudStorageCache) objectName(key string) string {
	return c.prefix + key + ".json"
}

// Manager selects a backend and adds result-level convenience methods.
type Manager struct {
	cache Cache
}

// NewManager creates a manager for the named backend, "memory" or
// "cloud-storage".
func NewManager(ctx context.Context, cacheType string, duration time.Duration) (*Manager, error) {
	var backend Cache

	switch cacheType {
	case "memory":
		backend = NewMemoryCache(duration)
	case "cloud-storage":
		var err error
		backend, err = NewCloudStorageCache(ctx, duration)
		if err != nil {
			return nil, fmt.Errorf("creating cloud storage cache: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	}

	return &Manager{cache: backend}, nil
}

// NewManagerWith wraps an existing backend.
func NewManagerWith(backend Cache) *Manager {
	return &Manager{cache: backend}
}

// GetResult retrieves a cached result for a URL and model.
func (m *Manager) GetResult(ctx context.Context, url, model string) (*Entry, error) {
	return m.cache.Get(ctx, GenerateKey(url, model))
}

// SetResult caches a pipeline result for a URL and model.
func (m *Manager) SetResult(ctx context.Context, url, model string, article extractor.Article, summary summarizer.Response) error {
	entry := &Entry{
		Article: article,
		Summary: summary,
	}
	return m.cache.Set(ctx, GenerateKey(url, model), entry)
}

// IsCached checks whether a result is cached for a URL and model.
func (m *Manager) IsCached(ctx context.Context, url, model string) (bool, error) {
	return m.cache.Exists(ctx, GenerateKey(url, model))
}

// Prune removes expired entries from the backend.
func (m *Manager) Prune(ctx context.Context) error {
	return m.cache.Prune(ctx)
}

// Stats returns backend statistics.
func (m *Manager) Stats(ctx context.Context) (*Stats, error) {
	return m.cache.Stats(ctx)
}

// Clear drops all cached results.
func (m *Manager) Clear(ctx context.Context) error {
	return m.cache.Clear(ctx)
}

// Close closes the backend.
func (m *Manager) Close() error {
	return m.cache.Close()
}

// GenerateKey derives a fixed-length cache key from the source URL and
// model name.
func GenerateKey(url, model string) string {
	hash := md5.Sum([]byte(url + "|" + model))
	return fmt.Sprintf("result:%x", hash)
}
