package cache

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/utils/cache"
)

// NatsStore keeps entries in a JetStream key value bucket.
// The lifetime of entries is controlled by the bucket TTL.
type NatsStore struct {
	kv  jetstream.KeyValue
	log *log.Logger
}

//nolint:whitespace // can't make both editor and linter happy
func NewNatsStore(
	ctx context.Context,
	nc *nats.Conn,
	bucket string,
	ttl time.Duration,
) (*NatsStore, error) {
	ret := &NatsStore{log: log.Default().Named("provider.cache.nats")}
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, err
	}
	ret.kv, err = js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      bucket,
		Description: "cached responses of remote session data providers",
		TTL:         ttl,
	})
	if err != nil {
		return nil, err
	}
	ret.log.Debug("Initialized response cache", log.String("bucket", bucket))
	return ret, nil
}

func (s *NatsStore) Get(ctx context.Context, key string) ([]byte, error) {
	kve, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, cache.ErrCacheMiss
		}
		return nil, err
	}
	return kve.Value(), nil
}

func (s *NatsStore) Put(ctx context.Context, key string, data []byte, _ time.Duration) error {
	_, err := s.kv.Put(ctx, key, data)
	return err
}
