package privilege

import (
	"context"
	"testing"

	"github.com/kailas-cloud/forumsearch/internal/repository/keyspace"
)

// mockStore serves sets and hashes from memory.
type mockStore struct {
	sets   map[string][]string
	hashes map[string]map[string]string
	err    error
}

func (m *mockStore) SIsMember(_ context.Context, key, member string) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, v := range m.sets[key] {
		if v == member {
			return true, nil
		}
	}
	return false, nil
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

// newTestRepo seeds three categories: 1 is public, 2 is members only and
// 3 is granted to uid 9 alone.
func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{
		sets: map[string][]string{
			"administrators":               {"1"},
			"cid:1:privileges:topics:read": {"guests", "registered-users"},
			"cid:2:privileges:topics:read": {"registered-users"},
			"cid:3:privileges:topics:read": {"9"},
			"cid:1:privileges:find":        {"guests"},
		},
		hashes: map[string]map[string]string{
			"post:11":   {"tid": "101"},
			"post:12":   {"tid": "102"},
			"post:13":   {"tid": "103"},
			"post:14":   {"tid": "101"},
			"post:15":   {"tid": "999"},
			"topic:101": {"cid": "1"},
			"topic:102": {"cid": "2"},
			"topic:103": {"cid": "3"},
		},
	}
	return New(ms, keyspace.New("")), ms
}
