package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/dm/eams-go/internal/config"
	"github.com/dm/eams-go/internal/model"
)

// ErrNotFound is returned when no analytics are cached for an equipment ID.
var ErrNotFound = errors.New("store: not found")

// CachedAnalytics is the summary of the latest assessment of one asset, kept
// between runs so the next assessment can report trends.
type CachedAnalytics struct {
	EquipmentID        string    `json:"equipment_id"`
	AssessedAt         time.Time `json:"assessed_at"`
	HealthScore        float64   `json:"health_score"`
	MasterFaultIndex   float64   `json:"master_fault_index"`
	RULHours           float64   `json:"rul_hours"`
	FailureProbability float64   `json:"failure_probability"`
	AnomalyScore       float64   `json:"anomaly_score"`
}

// Signals converts the cached summary into engine input for an assessment
// taken at now.
func (c CachedAnalytics) Signals(now time.Time) model.AnalyticsSignals {
	elapsed := now.Sub(c.AssessedAt).Hours()
	if elapsed < 0 {
		elapsed = 0
	}
	return model.AnalyticsSignals{
		PreviousHealthScore: c.HealthScore,
		PreviousMFI:         c.MasterFaultIndex,
		PreviousRULHours:    c.RULHours,
		ElapsedHours:        elapsed,
		AnomalyScore:        c.AnomalyScore,
	}
}

// AnalyticsCache stores the latest CachedAnalytics per equipment ID.
type AnalyticsCache interface {
	Get(ctx context.Context, equipmentID string) (CachedAnalytics, error)
	Put(ctx context.Context, a CachedAnalytics) error
	Close() error
}

// OpenCache returns a RedisCache when cfg.Addr is set and a MemoryCache
// otherwise.
func OpenCache(ctx context.Context, cfg config.CacheConfig, log *zap.Logger) (AnalyticsCache, error) {
	if cfg.Addr == "" {
		log.Debug("store: using in-memory analytics cache")
		return NewMemoryCache(cfg.TTL), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: ping redis %s: %w", cfg.Addr, err)
	}
	log.Info("store: connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return NewRedisCache(client, cfg.KeyPrefix, cfg.TTL, log), nil
}

// RedisCache keeps analytics as JSON strings under prefix+equipmentID.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisCache wraps an existing client. A zero ttl stores keys without expiry.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) *RedisCache {
	return &RedisCache{client: client, prefix: prefix, ttl: ttl, log: log}
}

func (r *RedisCache) key(equipmentID string) string {
	return r.prefix + equipmentID
}

// Get returns ErrNotFound on a cache miss.
func (r *RedisCache) Get(ctx context.Context, equipmentID string) (CachedAnalytics, error) {
	val, err := r.client.Get(ctx, r.key(equipmentID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return CachedAnalytics{}, ErrNotFound
		}
		return CachedAnalytics{}, fmt.Errorf("store: get %s: %w", equipmentID, err)
	}

	var a CachedAnalytics
	if err := json.Unmarshal([]byte(val), &a); err != nil {
		r.log.Warn("store: discarding unreadable cache entry",
			zap.String("equipment_id", equipmentID), zap.Error(err))
		return CachedAnalytics{}, ErrNotFound
	}
	return a, nil
}

// Put overwrites the entry for a.EquipmentID and refreshes its TTL.
func (r *RedisCache) Put(ctx context.Context, a CachedAnalytics) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", a.EquipmentID, err)
	}
	if err := r.client.Set(ctx, r.key(a.EquipmentID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("store: set %s: %w", a.EquipmentID, err)
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

type memoryEntry struct {
	value   CachedAnalytics
	expires time.Time
}

// MemoryCache is a process-local AnalyticsCache used when no Redis address is
// configured. Entries expire after ttl; a zero ttl keeps them forever.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns ErrNotFound for missing or expired entries.
func (m *MemoryCache) Get(_ context.Context, equipmentID string) (CachedAnalytics, error) {
	m.mu.RLock()
	e, ok := m.entries[equipmentID]
	m.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && !m.now().Before(e.expires)) {
		return CachedAnalytics{}, ErrNotFound
	}
	return e.value, nil
}

// Put stores a, replacing any previous entry for the same equipment.
func (m *MemoryCache) Put(_ context.Context, a CachedAnalytics) error {
	e := memoryEntry{value: a}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.entries[a.EquipmentID] = e
	m.mu.Unlock()
	return nil
}

// Close is a no-op.
func (m *MemoryCache) Close() error {
	return nil
}
