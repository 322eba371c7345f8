package search

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/forumsearch/internal/domain"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
)

// scope is the resolved category and author restriction of a content search.
// A restricted side without ids matches nothing.
type scope struct {
	cids           []int64
	uids           []int64
	cidsRestricted bool
	uidsRestricted bool
}

func (s scope) matchesNothing() bool {
	return (s.cidsRestricted && len(s.cids) == 0) || (s.uidsRestricted && len(s.uids) == 0)
}

// resolveScope resolves categories and authors concurrently.
func (s *Service) resolveScope(ctx context.Context, q *query.Query) (scope, error) {
	var sc scope
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cids, restricted, err := s.resolveCids(gctx, q)
		sc.cids, sc.cidsRestricted = cids, restricted
		return err
	})
	g.Go(func() error {
		if len(q.PostedBy()) == 0 {
			return nil
		}
		uids, err := s.users.UidsByUsernames(gctx, q.PostedBy())
		if err != nil {
			return fmt.Errorf("resolve authors: %w", err)
		}
		sc.uids, sc.uidsRestricted = uids, true
		return nil
	})
	if err := g.Wait(); err != nil {
		return scope{}, err
	}
	return sc, nil
}

// resolveCids expands the category scope. "all" yields every readable
// category and overrides the rest; otherwise watched categories, readable
// children and explicit ids are merged.
func (s *Service) resolveCids(ctx context.Context, q *query.Query) ([]int64, bool, error) {
	cs := q.Categories()
	if cs.IsEmpty() {
		return nil, false, nil
	}

	if cs.All {
		all, err := s.categories.AllCids(ctx)
		if err != nil {
			return nil, true, fmt.Errorf("list categories: %w", err)
		}
		cids, err := s.auth.FilterCids(ctx, domain.PrivilegeRead, all, q.UID())
		if err != nil {
			return nil, true, fmt.Errorf("filter readable categories: %w", err)
		}
		return cids, true, nil
	}

	var watched, children []int64
	g, gctx := errgroup.WithContext(ctx)
	if cs.Watched {
		g.Go(func() error {
			var err error
			if watched, err = s.categories.Watched(gctx, q.UID()); err != nil {
				return fmt.Errorf("watched categories: %w", err)
			}
			return nil
		})
	}
	if q.SearchChildren() && len(cs.Cids) > 0 {
		g.Go(func() error {
			var err error
			children, err = s.findableChildren(gctx, cs.Cids, q.UID())
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, true, err
	}

	return uniqueIDs(watched, children, cs.Cids), true, nil
}

// findableChildren returns the descendants of cids the requester may find.
func (s *Service) findableChildren(ctx context.Context, cids []int64, uid int64) ([]int64, error) {
	perCid := make([][]int64, len(cids))
	g, gctx := errgroup.WithContext(ctx)
	for i, cid := range cids {
		g.Go(func() error {
			children, err := s.categories.Children(gctx, cid)
			if err != nil {
				return fmt.Errorf("children of category %d: %w", cid, err)
			}
			perCid[i] = children
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	children := uniqueIDs(perCid...)
	if len(children) == 0 {
		return nil, nil
	}
	found, err := s.auth.FilterCids(ctx, domain.PrivilegeFind, children, uid)
	if err != nil {
		return nil, fmt.Errorf("filter findable categories: %w", err)
	}
	return found, nil
}

// uniqueIDs concatenates lists keeping the first occurrence of each positive id.
func uniqueIDs(lists ...[]int64) []int64 {
	n := 0
	for _, l := range lists {
		n += len(l)
	}
	seen := make(map[int64]struct{}, n)
	out := make([]int64, 0, n)
	for _, l := range lists {
		for _, id := range l {
			if id <= 0 {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
