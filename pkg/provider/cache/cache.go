// Package cache holds the response caches used by provider adapters.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/pitstop-service-go/pkg/utils/cache"
)

type Kind string

const (
	KindFile Kind = "file"
	KindNats Kind = "nats"
	KindNone Kind = "none"

	DefaultDir    = "cache"
	DefaultBucket = "pitstop_responses"
)

var ErrKindNotSupported = errors.New("response cache kind not supported")

type (
	Option func(*Config)
	Config struct {
		Dir    string
		Bucket string
		TTL    time.Duration
		NC     *nats.Conn
	}
)

func WithDir(dir string) Option {
	return func(c *Config) {
		c.Dir = dir
	}
}

func WithNATS(nc *nats.Conn) Option {
	return func(c *Config) {
		c.NC = nc
	}
}

func WithBucket(bucket string) Option {
	return func(c *Config) {
		c.Bucket = bucket
	}
}

// WithTTL sets the default lifetime of an entry. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(c *Config) {
		c.TTL = ttl
	}
}

// New creates a response cache of the requested kind
func New(ctx context.Context, kind Kind, opts ...Option) (cache.Store, error) {
	cfg := &Config{Dir: DefaultDir, Bucket: DefaultBucket}
	for _, opt := range opts {
		opt(cfg)
	}
	switch kind {
	case KindFile:
		return NewFileStore(cfg.Dir, cfg.TTL)
	case KindNats:
		if cfg.NC == nil {
			return nil, errors.New("nats cache requires a connection")
		}
		return NewNatsStore(ctx, cfg.NC, cfg.Bucket, cfg.TTL)
	case KindNone, "":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrKindNotSupported, kind)
	}
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, cache.ErrCacheMiss
}

func (Noop) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}
