package query

import (
	"strings"

	"github.com/kailas-cloud/forumsearch/internal/domain/search/mode"
)

// IndexRequest is what an index backend receives: the text and the resolved
// scope. Empty Cids or Uids place no restriction.
type IndexRequest struct {
	Text      string
	MatchMode mode.Mode
	Cids      []int64
	Uids      []int64
}

// Terms splits the text into whitespace separated tokens.
func (r IndexRequest) Terms() []string {
	return strings.Fields(r.Text)
}
