package pagination

import (
	"net/url"
	"strings"
)

// BuildLinkHeader renders an RFC 8288 Link header with "next" and "prev" relations.
// Empty cursors are omitted; query is copied, never modified.
func BuildLinkHeader(basePath string, query url.Values, next, prev string) string {
	var links []string
	for _, rel := range []struct{ name, cursor string }{{"next", next}, {"prev", prev}} {
		if rel.cursor == "" {
			continue
		}
		q := cloneValues(query)
		q.Set("cursor", rel.cursor)
		links = append(links, "<"+basePath+"?"+q.Encode()+`>; rel="`+rel.name+`"`)
	}
	return strings.Join(links, ", ")
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
