package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/business-pulse/pkg/models/domain"
	"github.com/redis/go-redis/v9"
)

var ErrMiss = errors.New("cache miss")

const defaultKeyPrefix = "pulse:summary:"

// Client is the subset of redis commands the cache uses; *redis.Client
// satisfies it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// SummaryCache keeps realtime summaries in redis for a short TTL.
type SummaryCache struct {
	client Client
	ttl    time.Duration
	prefix string
}

func NewSummaryCache(client Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl, prefix: defaultKeyPrefix}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

type entry struct {
	BusinessID  string             `json:"business_id"`
	Period      domain.Period      `json:"period"`
	HealthScore int                `json:"health_score"`
	HealthLabel domain.HealthLabel `json:"health_label"`
	LabelText   string             `json:"label_text"`
	KeyMetrics  map[string]float64 `json:"key_metrics"`
	KPIProgress domain.KPIProgress `json:"kpi_progress"`
}

func (c *SummaryCache) key(businessID string) string {
	return c.prefix + businessID
}

func (c *SummaryCache) GetSummary(ctx context.Context, businessID string) (*domain.Summary, error) {
	data, err := c.client.Get(ctx, c.key(businessID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get summary: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &domain.Summary{
		BusinessID:  e.BusinessID,
		Period:      e.Period,
		HealthScore: e.HealthScore,
		HealthLabel: e.HealthLabel,
		LabelText:   e.LabelText,
		KeyMetrics:  e.KeyMetrics,
		KPIProgress: e.KPIProgress,
	}, nil
}

func (c *SummaryCache) SetSummary(ctx context.Context, s *domain.Summary) error {
	data, err := json.Marshal(entry{
		BusinessID:  s.BusinessID,
		Period:      s.Period,
		HealthScore: s.HealthScore,
		HealthLabel: s.HealthLabel,
		LabelText:   s.LabelText,
		KeyMetrics:  s.KeyMetrics,
		KPIProgress: s.KPIProgress,
	})
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := c.client.Set(ctx, c.key(s.BusinessID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set summary: %w", err)
	}
	return nil
}
