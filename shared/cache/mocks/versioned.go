package mocks

import (
	"context"
	"encoding/json"

	"go.uber.org/mock/gomock"

	"hotel/shared/cache"
)

const versionSuffix = ":version"

// Decode returns a Get stub that fills the destination from payload the way the redis cache
// decodes stored JSON.
func Decode(payload any) func(context.Context, string, any) error {
	return func(_ context.Context, _ string, value any) error {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}

		return json.Unmarshal(raw, value)
	}
}

// Entry is the stored shape of a read-through entry.
func Entry(version int64, data any) map[string]any {
	return map[string]any{"version": version, "data": data}
}

// ExpectVersion stubs the version read of key. Version zero reads as a missing key.
func (m *MockRedisCache) ExpectVersion(key string, version int64) *gomock.Call {
	call := m.EXPECT().Get(gomock.Any(), key+versionSuffix, gomock.Any())
	if version == 0 {
		return call.Return(cache.Nil)
	}

	return call.DoAndReturn(Decode(version))
}

// ExpectHit serves data for key at the current version.
func (m *MockRedisCache) ExpectHit(key string, data any) {
	m.ExpectVersion(key, 1)
	m.EXPECT().Get(gomock.Any(), key, gomock.Any()).DoAndReturn(Decode(Entry(1, data)))
}

// ExpectMiss makes key miss. When saved is true the loaded value must be written back.
func (m *MockRedisCache) ExpectMiss(key string, saved bool) {
	m.ExpectVersion(key, 0)
	m.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.Nil)

	if saved {
		m.EXPECT().Save(gomock.Any(), key, gomock.Any(), gomock.Any()).Return(nil)
	}
}

// ExpectInvalidate expects key to be retired with its version held for twice ttl.
func (m *MockRedisCache) ExpectInvalidate(key string, ttl int) {
	m.EXPECT().Bump(gomock.Any(), key+versionSuffix, 2*ttl).Return(int64(1), nil)
	m.EXPECT().Delete(gomock.Any(), key).Return(nil)
}
