package cache

import (
	"context"
	"time"
)

// Disabled is the cache used when layouts must not be cached. Every Get
// misses and every Set is discarded. Reason says why caching is off and
// is shown to users who try to manage the cache.
type Disabled struct {
	Reason string
}

// NewDisabled returns a cache that stores nothing.
func NewDisabled(reason string) *Disabled {
	return &Disabled{Reason: reason}
}

func (*Disabled) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*Disabled) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*Disabled) Delete(context.Context, string) error { return nil }

func (*Disabled) Close() error { return nil }

var _ Cache = (*Disabled)(nil)
