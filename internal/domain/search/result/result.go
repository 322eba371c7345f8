package result

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/forumsearch/internal/domain/directory"
	"github.com/kailas-cloud/forumsearch/internal/domain/post"
)

// Page is one page of search hits. Only the slice matching the searched
// domain is populated.
type Page struct {
	Posts      []post.Summary       `json:"posts,omitempty"`
	Users      []directory.User     `json:"users,omitempty"`
	Categories []directory.Category `json:"categories,omitempty"`
	Tags       []directory.Tag      `json:"tags,omitempty"`
	MatchCount int                  `json:"matchCount"`
	PageCount  int                  `json:"pageCount"`
	Time       string               `json:"time"`
	// Extra carries fields contributed by result hooks.
	Extra map[string]any `json:"-"`
}

// IDs is the raw-id response: direct post hits and topics whose main post hit,
// both in candidate order.
type IDs struct {
	Pids []int64 `json:"pids"`
	Tids []int64 `json:"tids"`
}

// Response is either a Page or, in raw-id mode, IDs.
type Response struct {
	Page *Page
	IDs  *IDs
}

// PageCount returns max(1, ceil(matchCount/perPage)).
func PageCount(matchCount, perPage int) int {
	if perPage <= 0 || matchCount <= 0 {
		return 1
	}
	return max(1, (matchCount+perPage-1)/perPage)
}

// Bounds returns the [start, end) slice of a 1-based page, clipped to n.
// Page 0 selects everything; pages past the last one select nothing.
func Bounds(page, perPage, n int) (start, end int) {
	if page <= 0 {
		return 0, n
	}
	if perPage <= 0 || page-1 >= (n+perPage-1)/perPage {
		return n, n
	}
	start = (page-1)*perPage
	end = min(start+perPage, n)
	return start, end
}

// FormatElapsed renders a duration as seconds with two decimals.
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("%.2f", d.Seconds())
}

// SetExtra stores a hook-contributed field.
func (p *Page) SetExtra(key string, value any) {
	if p.Extra == nil {
		p.Extra = make(map[string]any)
	}
	p.Extra[key] = value
}

// Hits is an ordered id list produced by an index backend, best match first.
type Hits interface {
	IDs() []int64
}

// IDList is the plain form of Hits.
type IDList []int64

// IDs implements Hits.
func (l IDList) IDs() []int64 { return l }
