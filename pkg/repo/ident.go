package repo

import (
	"fmt"
	"sort"
	"strings"
)

// safeIdent keeps only characters valid in a Cypher/SQL identifier. Field
// names reach query text by interpolation, so everything else is dropped.
func safeIdent(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// filterClauses renders equality constraints in key order so generated
// queries are stable. render receives the identifier and the parameter
// index; values are returned in the same order.
func filterClauses(filter map[string]any, render func(field string, i int) string) ([]string, []any, error) {
	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	clauses := make([]string, 0, len(keys))
	values := make([]any, 0, len(keys))
	for i, k := range keys {
		field := safeIdent(k)
		if field == "" || field != k {
			return nil, nil, fmt.Errorf("repo: invalid filter field %q", k)
		}
		clauses = append(clauses, render(field, i))
		values = append(values, filter[k])
	}
	return clauses, values, nil
}
