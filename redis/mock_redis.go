package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharedcode/geostore/encoding"
)

type mockRedis struct {
	lookup map[string][]byte
}

// Returns a new Redis mock client, handy for tests that should not require a
// running Redis server.
func NewMockClient() Cache {
	return &mockRedis{
		lookup: make(map[string][]byte),
	}
}

func (m mockRedis) Ping(ctx context.Context) error {
	return nil
}

func (m mockRedis) KeyNotFound(err error) bool {
	return err == redis.Nil
}

func (m *mockRedis) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	m.lookup[key] = []byte(value)
	return nil
}

func (m *mockRedis) Get(ctx context.Context, key string) (bool, string, error) {
	ba, ok := m.lookup[key]
	if !ok {
		return false, "", nil
	}
	return true, string(ba), nil
}

func (m *mockRedis) SetStruct(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ba, err := encoding.DefaultMarshaler.Marshal(value)
	if err != nil {
		return err
	}
	m.lookup[key] = ba
	return nil
}

func (m *mockRedis) GetStruct(ctx context.Context, key string, target interface{}) (bool, error) {
	ba, ok := m.lookup[key]
	if !ok {
		return false, nil
	}
	if err := encoding.DefaultMarshaler.Unmarshal(ba, target); err != nil {
		return false, err
	}
	return true, nil
}

func (m *mockRedis) Delete(ctx context.Context, keys []string) (bool, error) {
	r := true
	for _, k := range keys {
		if _, ok := m.lookup[k]; !ok {
			r = false
			continue
		}
		delete(m.lookup, k)
	}
	return r, nil
}
