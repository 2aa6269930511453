// Package cache is a small time-boxed key/value port used by read paths that
// are expensive to recompute. Keys are typed so invalidation on write is a
// checked call rather than a string match.
//
// Invalidation never deletes entries. Each namespace carries a generation
// that is part of every key; a write bumps it and older entries age out by TTL.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
)

// Namespace groups keys that are invalidated together.
type Namespace string

const NamespaceProgressions Namespace = "progressions"

type Key struct {
	Namespace  Namespace
	Generation uint64
	Variant    string
}

func NewKey(ns Namespace, variant string) Key {
	return Key{Namespace: ns, Variant: variant}
}

// at pins k to a namespace generation.
func (k Key) at(gen uint64) Key {
	k.Generation = gen
	return k
}

func (k Key) String() string {
	return string(k.Namespace) + ":" + strconv.FormatUint(k.Generation, 10) + ":" + k.Variant
}

// generationKey sits outside the "ns:" entry space.
func (ns Namespace) generationKey() []byte { return []byte(string(ns) + "#generation") }

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

type Store interface {
	Get(ctx context.Context, key Key) ([]byte, error)
	Set(ctx context.Context, key Key, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key Key) error
	// Generation is the current generation of ns, zero until first invalidated.
	Generation(ctx context.Context, ns Namespace) (uint64, error)
	// Invalidate bumps the generation of ns so no existing entry is read again.
	Invalidate(ctx context.Context, ns Namespace) error
	Close() error
}

// Nop never stores anything; every Get misses.
type Nop struct{}

func (Nop) Get(context.Context, Key) ([]byte, error)              { return nil, ErrMiss }
func (Nop) Set(context.Context, Key, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, Key) error                     { return nil }
func (Nop) Generation(context.Context, Namespace) (uint64, error) { return 0, nil }
func (Nop) Invalidate(context.Context, Namespace) error           { return nil }
func (Nop) Close() error                                          { return nil }
