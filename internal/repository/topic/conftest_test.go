package topic

import (
	"context"
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// mockStore serves hashes and sets from memory.
type mockStore struct {
	hashes map[string]map[string]string
	sets   map[string][]string
	err    error
}

func (m *mockStore) HGetAllMulti(_ context.Context, keys []string) ([]map[string]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		row := make(map[string]string, len(m.hashes[key]))
		for k, v := range m.hashes[key] {
			row[k] = v
		}
		out[i] = row
	}
	return out, nil
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

func (m *mockStore) SMembersMulti(_ context.Context, keys []string) ([][]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([][]string, len(keys))
	for i, key := range keys {
		out[i] = m.sets[key]
	}
	return out, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{
		hashes: map[string]map[string]string{
			"topic:1": {"tid": "1", "cid": "3", "mainPid": "11", "title": "First", "postcount": "4"},
			"topic:2": {"cid": "3", "mainPid": "22", "title": "Second", "deleted": "1"},
			"topic:3": {"tid": "3", "cid": "5", "mainPid": "33", "title": "Third"},
		},
		sets: map[string][]string{
			"topic:1:tags": {"go", "redis"},
		},
	}
	return New(ms, keyspace.New("")), ms
}
