// Package sortpath parses attribute paths such as "timestamp" or "topic.postcount"
// used to order hydrated posts.
package sortpath

import "strings"

// Relevance keeps the backend order.
const Relevance = "relevance"

// Target is the record a depth-2 path reads from.
type Target string

// Path targets.
const (
	TargetPost     Target = ""
	TargetUser     Target = "user"
	TargetTopic    Target = "topic"
	TargetCategory Target = "category"
)

// Path is a parsed sort attribute path.
type Path struct {
	raw      string
	segments []string
}

// Parse splits a dotted path. Empty input means relevance.
func Parse(s string) Path {
	s = strings.TrimSpace(s)
	if s == "" || s == Relevance {
		return Path{raw: Relevance}
	}
	return Path{raw: s, segments: strings.Split(s, ".")}
}

// String returns the path as given.
func (p Path) String() string {
	if p.raw == "" {
		return Relevance
	}
	return p.raw
}

// IsRelevance reports whether no explicit sort was requested.
func (p Path) IsRelevance() bool { return len(p.segments) == 0 }

// Depth returns the number of path segments.
func (p Path) Depth() int { return len(p.segments) }

// Target returns the record a depth-2 path reads from, TargetPost otherwise.
func (p Path) Target() Target {
	if len(p.segments) != 2 {
		return TargetPost
	}
	return Target(p.segments[0])
}

// Field returns the last path segment.
func (p Path) Field() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Targets reports whether the path reads from t.
func (p Path) Targets(t Target) bool {
	return len(p.segments) == 2 && Target(p.segments[0]) == t
}
