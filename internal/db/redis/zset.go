package redis

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/forumsearch/internal/db"
)

// ZRange returns members in ascending score order between ranks start and stop (inclusive).
func (s *Store) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	return s.zrange(ctx, s.zrangeCmd(key, start, stop))
}

// ZRangeMulti runs the same ascending rank range over several keys in one round-trip.
func (s *Store) ZRangeMulti(ctx context.Context, keys []string, start, stop int64) ([][]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	cmds := make([]rueidis.Completed, len(keys))
	for i, key := range keys {
		cmds[i] = s.zrangeCmd(key, start, stop)
	}

	results := s.client.DoMulti(ctx, cmds...)
	out := make([][]string, len(results))
	for i, res := range results {
		members, err := res.AsStrSlice()
		if err != nil {
			return nil, &db.Error{Op: db.OpZRange, Err: fmt.Errorf("key %s: %w", keys[i], err)}
		}
		out[i] = members
	}
	return out, nil
}

// ZMScore returns the score of each member, nil where the member is absent.
func (s *Store) ZMScore(ctx context.Context, key string, members []string) ([]*float64, error) {
	if len(members) == 0 {
		return nil, nil
	}

	cmd := s.b().Arbitrary("ZMSCORE").Keys(key).Args(members...).Build()
	values, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpZMScore, Err: err}
	}

	out := make([]*float64, len(members))
	for i := 0; i < len(values) && i < len(members); i++ {
		if values[i].IsNil() {
			continue
		}
		f, err := values[i].AsFloat64()
		if err != nil {
			return nil, &db.Error{Op: db.OpZMScore, Err: fmt.Errorf("member %s: %w", members[i], err)}
		}
		out[i] = &f
	}
	return out, nil
}

// ZRangeByLex returns members between lexical bounds, e.g. "[abc" and "(abd".
func (s *Store) ZRangeByLex(
	ctx context.Context, key, minLex, maxLex string, offset, count int64,
) ([]string, error) {
	cmd := s.b().Arbitrary("ZRANGE").Keys(key).Args(
		minLex, maxLex, "BYLEX",
		"LIMIT", strconv.FormatInt(offset, 10), strconv.FormatInt(count, 10),
	).Build()
	return s.zrange(ctx, cmd)
}

func (s *Store) zrangeCmd(key string, start, stop int64) rueidis.Completed {
	return s.b().Arbitrary("ZRANGE").Keys(key).
		Args(strconv.FormatInt(start, 10), strconv.FormatInt(stop, 10)).Build()
}

func (s *Store) zrange(ctx context.Context, cmd rueidis.Completed) ([]string, error) {
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRange, Err: err}
	}
	return members, nil
}
