// Package cache stores workup results keyed by workup.ResultKey, so an
// unchanged pack under an unchanged ruleset is answered without
// re-evaluation.
package cache

import (
	"context"
	"time"

	"github.com/MikeSquared-Agency/Workup/internal/workup"
)

// Cache holds workup results by result key.
// GetWorkup returns nil, nil on a miss.
type Cache interface {
	GetWorkup(ctx context.Context, key string) (*workup.Result, error)
	SetWorkup(ctx context.Context, key string, res *workup.Result, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// NopCache never stores anything. Used when no Redis address is configured.
type NopCache struct{}

func (NopCache) GetWorkup(context.Context, string) (*workup.Result, error) { return nil, nil }
func (NopCache) SetWorkup(context.Context, string, *workup.Result, time.Duration) error {
	return nil
}
func (NopCache) Ping(context.Context) error { return nil }
func (NopCache) Close() error               { return nil }
