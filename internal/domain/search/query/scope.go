package query

import (
	"strconv"
	"strings"
)

// Category scope markers accepted alongside numeric ids.
const (
	ScopeAll     = "all"
	ScopeWatched = "watched"
)

// CategoryScope is the parsed category restriction of a query.
type CategoryScope struct {
	All     bool
	Watched bool
	Cids    []int64
}

// IsEmpty reports whether the scope places no category constraint.
func (s CategoryScope) IsEmpty() bool {
	return !s.All && !s.Watched && len(s.Cids) == 0
}

// ParseCategoryScope parses raw category entries. Zero, negative and
// non-numeric ids are dropped, duplicates collapse to the first occurrence.
func ParseCategoryScope(raw []string) CategoryScope {
	var s CategoryScope
	seen := make(map[int64]struct{}, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		switch entry {
		case ScopeAll:
			s.All = true
			continue
		case ScopeWatched:
			s.Watched = true
			continue
		}
		cid, err := strconv.ParseInt(entry, 10, 64)
		if err != nil || cid <= 0 {
			continue
		}
		if _, dup := seen[cid]; dup {
			continue
		}
		seen[cid] = struct{}{}
		s.Cids = append(s.Cids, cid)
	}
	return s
}
