package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/forumsearch/internal/db"
)

// SearchKeys runs a full-text FT.SEARCH returning matching keys in relevance order.
func (s *Store) SearchKeys(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	args := []string{
		q.IndexName, buildQuery(q),
		"NOCONTENT",
		"LIMIT", "0", strconv.Itoa(q.Limit),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isRedisErr(err, unknownIndexMarkers...) {
			return nil, &db.Error{Op: db.OpSearch, Err: db.ErrIndexNotFound}
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseKeysResult(raw)
}

// --- Result parsing ---

// parseKeysResult parses a NOCONTENT reply: [total, key1, key2, ...].
func parseKeysResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	keys := make([]string, 0, len(raw)-1)
	for _, m := range raw[1:] {
		key, err := m.ToString()
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}

	return &db.SearchResult{Total: int(total), Keys: keys}, nil
}

// --- Query building ---

// buildQuery renders tag filters followed by the term group.
// Without terms and filters it matches everything.
func buildQuery(q *db.TextQuery) string {
	var parts []string

	for _, tf := range q.Tags {
		if len(tf.Values) == 0 {
			continue
		}
		parts = append(parts, buildTagFilter(tf))
	}

	if terms := buildTermGroup(q.Terms, q.MatchAny); terms != "" {
		if q.Field != "" {
			terms = "@" + q.Field + ":" + terms
		}
		parts = append(parts, terms)
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func buildTermGroup(terms []string, matchAny bool) string {
	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			escaped = append(escaped, escapeQuery(t))
		}
	}
	if len(escaped) == 0 {
		return ""
	}
	sep := " "
	if matchAny {
		sep = " | "
	}
	return "(" + strings.Join(escaped, sep) + ")"
}

func buildTagFilter(tf db.TagFilter) string {
	values := make([]string, len(tf.Values))
	for i, v := range tf.Values {
		values[i] = tagEscaper.Replace(v)
	}
	return fmt.Sprintf("@%s:{%s}", tf.Field, strings.Join(values, " | "))
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
