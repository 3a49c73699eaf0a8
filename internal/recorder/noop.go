package recorder

import (
	"context"

	"github.com/diabolical-ninja/Finsights/internal/model"
)

// NoopCache never hits; used when SQLite is not configured.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (n *NoopCache) Load(_ context.Context, _ CacheKey) ([]model.PricePoint, bool, error) {
	return nil, false, nil
}
func (n *NoopCache) Store(_ context.Context, _ CacheKey, _ []model.PricePoint) error { return nil }
func (n *NoopCache) Prune(_ context.Context, _ string) (int64, error)                { return 0, nil }
func (n *NoopCache) Close() error                                                    { return nil }
