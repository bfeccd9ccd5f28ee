// Package definition recovers individual column and index clauses from
// the raw text of a SHOW CREATE TABLE result. It exists for servers
// that lack a native rename verb: the original clause is extracted and
// re-emitted under a new name.
//
// Matching is line-anchored and case-sensitive on the identifier,
// tolerant of optional backtick quoting. The assumed one-clause-per-line
// layout is what current servers produce; if that shape ever changes the
// extractor fails loudly rather than guessing.
package definition

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Raw is the opaque table definition text returned by introspection.
// Only this package inspects its contents.
type Raw string

// ErrNotFound is wrapped by extraction failures. Callers that need the
// table identity attach it themselves.
var ErrNotFound = errors.New("clause not found in table definition")

// ExtractColumn returns the definition clause of a column, i.e.
// everything on its line after the column name, minus any trailing
// comma. For "`id` int(11) NOT NULL AUTO_INCREMENT," it returns
// "int(11) NOT NULL AUTO_INCREMENT".
func ExtractColumn(raw Raw, column string) (string, error) {
	re, err := regexp.Compile(`(?m)^\s*` + "`?" + regexp.QuoteMeta(column) + "`?" + `\s+(.*?),?\s*$`)
	if err != nil {
		return "", err
	}
	m := re.FindStringSubmatch(string(raw))
	if m == nil {
		return "", fmt.Errorf("column %q: %w", column, ErrNotFound)
	}
	return strings.TrimSpace(m[1]), nil
}

// ExtractIndex returns the key-type prefix ("KEY", "UNIQUE KEY", ...)
// and the remainder of an index clause, minus any trailing comma. For
// "UNIQUE KEY `ux_email` (`email`) USING BTREE," it returns
// ("UNIQUE KEY", "(`email`) USING BTREE").
func ExtractIndex(raw Raw, index string) (prefix string, clause string, err error) {
	re, rerr := regexp.Compile(`(?m)^\s*((?:UNIQUE\s+|FULLTEXT\s+|SPATIAL\s+)?KEY)\s+` + "`?" + regexp.QuoteMeta(index) + "`?" + `\s*(.*?),?\s*$`)
	if rerr != nil {
		return "", "", rerr
	}
	m := re.FindStringSubmatch(string(raw))
	if m == nil {
		return "", "", fmt.Errorf("index %q: %w", index, ErrNotFound)
	}
	return normalizeSpace(m[1]), strings.TrimSpace(m[2]), nil
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
