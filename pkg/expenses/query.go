package expenses

import (
	"net/url"
	"strconv"
	"strings"
)

// String returns a pointer to v, for optional string parameters.
func String(v string) *string { return &v }

// Int returns a pointer to v, for optional integer parameters.
func Int(v int) *int { return &v }

// query builds a query string that keeps parameters in insertion order.
// Optional strings are skipped when nil or empty; optional ints only when nil.
type query struct {
	pairs []string
}

func (q *query) set(key, value string) *query {
	q.pairs = append(q.pairs, key+"="+escapeQueryValue(value))
	return q
}

func (q *query) optString(key string, value *string) *query {
	if value == nil || *value == "" {
		return q
	}
	return q.set(key, *value)
}

func (q *query) optInt(key string, value *int) *query {
	if value == nil {
		return q
	}
	return q.set(key, strconv.Itoa(*value))
}

func (q *query) encode() string {
	return strings.Join(q.pairs, "&")
}

// withQuery appends the encoded query to path, if any.
func withQuery(path string, q *query) string {
	if q == nil || len(q.pairs) == 0 {
		return path
	}
	return path + "?" + q.encode()
}

// escapeQueryValue percent-encodes everything outside the RFC 3986 query
// character set, minus the separators this builder relies on. ':' '@' '/' and
// ',' stay literal so tags like "source:bank-statement" and emails travel unchanged.
func escapeQueryValue(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		if isQuerySafe(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&0x0f])
	}
	return b.String()
}

const upperHex = "0123456789ABCDEF"

func isQuerySafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '.', '_', '~', ':', '@', '/', ',':
		return true
	}
	return false
}

func segment(v string) string {
	return url.PathEscape(v)
}
