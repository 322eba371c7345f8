package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/sortpath"
	"github.com/kailas-cloud/forumsearch/internal/logger"
	"github.com/kailas-cloud/forumsearch/internal/metrics"
)

// filterAndSort applies the reply, time and tag filters and the requested
// sort. Without any of them, and without filter hooks, pids come back
// untouched and nothing is hydrated.
func (s *Service) filterAndSort(ctx context.Context, q *query.Query, pids []int64) ([]int64, error) {
	if !q.NeedsFiltering() && !s.hooks.filtersPosts() {
		metrics.SearchFastPathTotal.Inc()
		return pids, nil
	}

	pids, err := s.hooks.runPreFilterSort(ctx, q, pids)
	if err != nil {
		return nil, err
	}

	posts, err := s.matchedPosts(ctx, q, pids)
	if err != nil {
		return nil, err
	}
	posts = filterByReplies(posts, q.Replies(), q.RepliesFilter())
	posts = filterByTime(posts, q.TimeRange(), q.TimeFilter(), s.opts.Now().UnixMilli())
	posts = filterByTags(posts, q.HasTags())
	sortPosts(posts, q.SortBy(), q.SortDirection())

	if posts, err = s.hooks.runFilterSort(ctx, q, pids, posts); err != nil {
		return nil, err
	}

	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		if p != nil {
			out = append(out, p.Pid)
		}
	}
	logger.FromContext(ctx).Debug("Filtered search candidates",
		zap.Int("candidates", len(pids)),
		zap.Int("kept", len(out)),
		zap.String("sort_by", q.SortBy().String()),
	)
	return out, nil
}

// matchedPosts hydrates pids, dropping deleted posts and posts whose topic
// is missing or deleted. Topics always carry their tags; authors and
// categories are loaded only when the sort path reads them.
func (s *Service) matchedPosts(ctx context.Context, q *query.Query, pids []int64) ([]*post.Post, error) {
	all, err := s.posts.Posts(ctx, pids)
	if err != nil {
		return nil, fmt.Errorf("hydrate posts: %w", err)
	}
	live := make([]*post.Post, 0, len(all))
	for _, p := range all {
		if p != nil && !p.Deleted {
			live = append(live, p)
		}
	}
	if len(live) == 0 {
		return nil, nil
	}

	uids := make([]int64, 0, len(live))
	tids := make([]int64, 0, len(live))
	for _, p := range live {
		uids = append(uids, p.UID)
		tids = append(tids, p.Tid)
	}
	uids, tids = uniqueIDs(uids), uniqueIDs(tids)

	var (
		usernames map[int64]string
		topics    map[int64]*post.Topic
	)
	g, gctx := errgroup.WithContext(ctx)
	if q.SortBy().Targets(sortpath.TargetUser) {
		g.Go(func() error {
			var err error
			usernames, err = s.loadUsernames(gctx, uids)
			return err
		})
	}
	g.Go(func() error {
		var err error
		topics, err = s.loadTopics(gctx, q.SortBy(), tids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := live[:0]
	for _, p := range live {
		t := topics[p.Tid]
		if t == nil || t.Deleted {
			continue
		}
		p.Topic = t
		p.Category = t.Category
		if usernames != nil {
			p.User = &post.User{UID: p.UID, Username: usernames[p.UID]}
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Service) loadUsernames(ctx context.Context, uids []int64) (map[int64]string, error) {
	names, err := s.users.Usernames(ctx, uids)
	if err != nil {
		return nil, fmt.Errorf("load usernames: %w", err)
	}
	out := make(map[int64]string, len(uids))
	for i, uid := range uids {
		if i < len(names) {
			out[uid] = names[i]
		}
	}
	return out, nil
}

// loadTopics reads topics with their tags and, for category sort paths, the
// sorted category field.
func (s *Service) loadTopics(ctx context.Context, path sortpath.Path, tids []int64) (map[int64]*post.Topic, error) {
	var (
		topics []*post.Topic
		tags   [][]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if topics, err = s.topics.Topics(gctx, tids); err != nil {
			return fmt.Errorf("load topics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tags, err = s.topics.Tags(gctx, tids); err != nil {
			return fmt.Errorf("load topic tags: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[int64]*post.Topic, len(tids))
	var cids []int64
	for i, tid := range tids {
		if i >= len(topics) || topics[i] == nil {
			continue
		}
		t := topics[i]
		if i < len(tags) {
			t.Tags = tags[i]
		}
		out[tid] = t
		cids = append(cids, t.Cid)
	}

	if !path.Targets(sortpath.TargetCategory) {
		return out, nil
	}
	cids = uniqueIDs(cids)
	rows, err := s.categories.Fields(ctx, cids, []string{path.Field()})
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	byCid := make(map[int64]*post.Category, len(cids))
	for i, cid := range cids {
		if i < len(rows) {
			byCid[cid] = post.NewCategory(cid, rows[i])
		}
	}
	for _, t := range out {
		t.Category = byCid[t.Cid]
	}
	return out, nil
}

func filterByReplies(posts []*post.Post, replies int, mode query.RepliesFilter) []*post.Post {
	if replies <= 0 {
		return posts
	}
	n := int64(replies)
	return keep(posts, func(p *post.Post) bool {
		if mode == query.AtLeast {
			return p.Topic.PostCount >= n
		}
		return p.Topic.PostCount <= n
	})
}

func filterByTime(posts []*post.Post, seconds int, mode query.TimeFilter, nowMillis int64) []*post.Post {
	if seconds <= 0 {
		return posts
	}
	cutoff := nowMillis - int64(seconds)*1000
	return keep(posts, func(p *post.Post) bool {
		if mode == query.Newer {
			return p.Timestamp >= cutoff
		}
		return p.Timestamp <= cutoff
	})
}

func filterByTags(posts []*post.Post, tags []string) []*post.Post {
	if len(tags) == 0 {
		return posts
	}
	return keep(posts, func(p *post.Post) bool {
		return len(p.Topic.Tags) > 0 && p.Topic.HasTags(tags)
	})
}

// keep filters posts in place, preserving order.
func keep(posts []*post.Post, fn func(*post.Post) bool) []*post.Post {
	out := posts[:0]
	for _, p := range posts {
		if fn(p) {
			out = append(out, p)
		}
	}
	return out
}
