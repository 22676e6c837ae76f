package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mpapenbr/pitstop-service-go/log"
	"github.com/mpapenbr/pitstop-service-go/pkg/utils/cache"
)

type (
	FileStore struct {
		dir string
		ttl time.Duration
		now func() time.Time
		log *log.Logger
	}
	fileEntry struct {
		Expires time.Time `json:"expires"`
		Data    []byte    `json:"data"`
	}
)

// NewFileStore stores entries below dir. The directory is created if missing.
func NewFileStore(dir string, ttl time.Duration) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create cache dir %s: %w", dir, err)
	}
	return &FileStore{
		dir: dir,
		ttl: ttl,
		now: time.Now,
		log: log.Default().Named("provider.cache.file"),
	}, nil
}

func (f *FileStore) path(key string) string {
	sub := key
	if len(sub) > 2 {
		sub = key[:2]
	}
	return filepath.Join(f.dir, sub, key+".json")
}

func (f *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := os.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, cache.ErrCacheMiss
		}
		return nil, err
	}
	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		f.log.Warn("corrupt cache entry", log.String("key", key), log.ErrorField(err))
		return nil, cache.ErrCacheMiss
	}
	if !entry.Expires.IsZero() && entry.Expires.Before(f.now()) {
		return nil, cache.ErrCacheMiss
	}
	return entry.Data, nil
}

func (f *FileStore) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = f.ttl
	}
	entry := fileEntry{Data: data}
	if ttl > 0 {
		entry.Expires = f.now().Add(ttl)
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	target := f.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	// each writer gets its own temp file, the rename replaces the entry atomically
	tmp, err := os.CreateTemp(filepath.Dir(target), "*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}
