package post

import (
	"context"
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// mockStore serves HMGET from in-memory hashes.
type mockStore struct {
	hashes map[string]map[string]string
	err    error
	calls  int
}

func (m *mockStore) HMGetMulti(_ context.Context, keys []string, fields []string) ([]map[string]string, error) {
	m.calls++
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
	ms := &mockStore{hashes: map[string]map[string]string{
		"post:1":    {"pid": "1", "uid": "10", "tid": "100", "timestamp": "1000", "votes": "3", "content": "I have a cat"},
		"post:2":    {"pid": "2", "uid": "11", "tid": "200", "timestamp": "2000", "deleted": "1", "content": "dogs"},
		"post:3":    {"uid": "10", "tid": "200", "timestamp": "3000", "upvotes": "5", "downvotes": "2"},
		"topic:100": {"cid": "1"},
		"topic:200": {"cid": "2"},
	}}
	return New(ms, keyspace.New("")), ms
}
