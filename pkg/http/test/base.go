package lhttptest

import (
	"net/http"
	"net/textproto"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// ErrorCodeGenerator draws statuses the transport reports as failures.
func ErrorCodeGenerator() *rapid.Generator[int] {
	return rapid.OneOf(rapid.IntRange(400, 418), rapid.IntRange(500, 511))
}

// HeadersGenerator draws custom headers the transport forwards unchanged.
func HeadersGenerator() *rapid.Generator[http.Header] {
	return rapid.Map(
		rapid.MapOf(
			rapid.Map(
				rapid.StringMatching(`X-[A-Za-z][A-Za-z0-9]{0,14}`),
				func(s string) string {
					return textproto.CanonicalMIMEHeaderKey(s)
				},
			),
			rapid.SliceOfN(rapid.StringMatching(`[a-zA-Z0-9._-]{1,20}`), 1, 3),
		),
		func(v map[string][]string) http.Header { return v })
}

func CheckHeaders(t assert.TestingT, ref, other http.Header) {
	for k, vals := range ref {
		otherVals := other.Values(k)
		assert.Subsetf(t, vals, otherVals, "values don't match for key %s", k)
		assert.Subsetf(t, otherVals, vals, "values don't match for key %s", k)
	}
}
