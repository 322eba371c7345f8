package category

import (
	"context"
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// mockStore serves sorted sets, sets and hashes from memory.
type mockStore struct {
	zsets  map[string][]string
	sets   map[string][]string
	hashes map[string]map[string]string
	err    error
}

func (m *mockStore) ZRange(_ context.Context, key string, _, _ int64) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.zsets[key], nil
}

func (m *mockStore) ZRangeMulti(_ context.Context, keys []string, _, _ int64) ([][]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]string, len(keys))
	for i, key := range keys {
		out[i] = m.zsets[key]
	}
	return out, nil
}

func (m *mockStore) SMembers(_ context.Context, key string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sets[key], nil
}

func (m *mockStore) HMGetMulti(_ context.Context, keys []string, fields []string) ([]map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		row := make(map[string]string)
		for _, f := range fields {
			if v, ok := m.hashes[key][f]; ok {
				row[f] = v
			}
		}
		out[i] = row
	}
	return out, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{
		zsets: map[string][]string{
			"categories:cid": {"1", "2", "3", "4", "5"},
			"cid:1:children": {"2", "3"},
			"cid:2:children": {"4"},
			"cid:4:children": {"1"}, // cycle back to the root
		},
		sets: map[string][]string{
			"uid:7:categories:watched": {"5", "x", "2"},
		},
		hashes: map[string]map[string]string{
			"category:1": {"name": "General", "slug": "1/general"},
			"category:2": {"name": "Help"},
		},
	}
	return New(ms, keyspace.New("")), ms
}
