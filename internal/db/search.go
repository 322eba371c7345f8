package db

// TagFilter restricts a TAG field to any of the given values.
type TagFilter struct {
	Field  string
	Values []string
}

// TextQuery is the input for a keys-only full-text search.
type TextQuery struct {
	IndexName string
	// Field limits term matching to one TEXT field; empty searches all.
	Field string
	Terms []string
	// MatchAny joins terms with OR instead of AND.
	MatchAny bool
	Tags     []TagFilter
	Limit    int
}

// SearchResult is the output of a keys-only search, in relevance order.
type SearchResult struct {
	Total int
	Keys  []string
}
