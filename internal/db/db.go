package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	SetStore
	SortedSetStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore provides read access to hashes.
// Missing keys come back as empty maps, never as errors.
type HashStore interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HMGetMulti(ctx context.Context, keys []string, fields []string) ([]map[string]string, error)
}

// SetStore provides read access to sets.
type SetStore interface {
	SMembers(ctx context.Context, key string) ([]string, error)
	SMembersMulti(ctx context.Context, keys []string) ([][]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
}

// SortedSetStore provides read access to sorted sets.
type SortedSetStore interface {
	// ZRange returns members by ascending score rank, stop inclusive.
	ZRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	ZRangeMulti(ctx context.Context, keys []string, start, stop int64) ([][]string, error)
	// ZMScore returns one score per member; nil marks a missing member.
	ZMScore(ctx context.Context, key string, members []string) ([]*float64, error)
	ZRangeByLex(ctx context.Context, key, minLex, maxLex string, offset, count int64) ([]string, error)
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides full-text search over FT indexes.
type Searcher interface {
	SearchKeys(ctx context.Context, q *TextQuery) (*SearchResult, error)
}
