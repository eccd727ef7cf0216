package lhttp

import (
	"net/url"
	"sort"
	"strings"
)

const upperhex = "0123456789ABCDEF"

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

// EscapeQueryComponent percent-encodes every byte outside the RFC 3986 unreserved set.
// Unlike url.QueryEscape a space becomes %20, never '+'.
func EscapeQueryComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

// EncodeQuery renders values as "k1=v1&k2=v2" sorted by key, escaping both sides with
// EscapeQueryComponent.
func EncodeQuery(values url.Values) string {
	if len(values) == 0 {
		return ""
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		key := EscapeQueryComponent(k)
		for _, v := range values[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(EscapeQueryComponent(v))
		}
	}
	return b.String()
}
