package search

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/kailas-cloud/forumsearch/internal/domain/post"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/query"
	"github.com/kailas-cloud/forumsearch/internal/domain/search/sortpath"
)

// sortPosts orders posts by the value path resolves to. Descending puts the
// larger value first. Depth-2 paths are skipped when the first post has no
// value; deeper paths are never sorted. The sort is stable.
func sortPosts(posts []*post.Post, path sortpath.Path, dir query.Direction) {
	if len(posts) == 0 || path.IsRelevance() || path.Depth() > 2 {
		return
	}
	if path.Depth() == 2 {
		if v, ok := posts[0].Resolve(path); !ok || isFalsy(v) {
			return
		}
	}

	values := make(map[*post.Post]string, len(posts))
	all := make([]string, 0, len(posts))
	for _, p := range posts {
		v, _ := p.Resolve(path)
		values[p] = v
		all = append(all, v)
	}
	compare := comparatorFor(all)
	m := dir.Multiplier()
	slices.SortStableFunc(posts, func(a, b *post.Post) int {
		return m * compare(values[b], values[a])
	})
}

// comparatorFor compares numerically when every value is a number and
// lexically otherwise, so one sort never mixes the two orders.
func comparatorFor(values []string) func(a, b string) int {
	nums := make(map[string]float64, len(values))
	for _, v := range values {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return strings.Compare
		}
		nums[v] = f
	}
	return func(a, b string) int {
		return cmp.Compare(nums[a], nums[b])
	}
}

func isFalsy(v string) bool {
	return v == "" || v == "0"
}
