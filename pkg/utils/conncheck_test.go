package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFromDBURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "postgresql://user:pw@dbhost:5433/pitstop", "dbhost:5433"},
		{"default port", "postgresql://user:pw@dbhost/pitstop", "dbhost:5432"},
		{"no credentials", "postgres://dbhost:6000/pitstop?sslmode=disable", "dbhost:6000"},
		{"no postgres url", "mysql://dbhost/x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromDBURL(tt.url))
		})
	}
}

func TestExtractFromNatsURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"with port", "nats://localhost:4223", "localhost:4223"},
		{"default port", "nats://natshost", "natshost:4222"},
		{"with token", "nats://token@natshost:4222", "natshost:4222"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractFromNatsURL(tt.url))
		})
	}
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, CacheKey("a", "b"), CacheKey("a", "b"))
	assert.NotEqual(t, CacheKey("ab"), CacheKey("a", "b"))
	assert.Len(t, CacheKey("x"), 64)
}
