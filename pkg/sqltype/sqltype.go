// Package sqltype classifies MySQL column type declarations. Decisions
// about auto-increment eligibility, default-value support and timestamp
// precision all start from the parsed base type.
package sqltype

import (
	"regexp"
	"strings"
)

// typeRegex captures an alphanumeric base token and an optional
// parenthesized parameter, e.g. "datetime(6)" or "decimal(10,2)".
var typeRegex = regexp.MustCompile(`^\s*([a-zA-Z0-9]+)\s*(?:\(\s*([0-9]+(?:\s*,\s*[0-9]+)?)\s*\))?`)

// Parse splits a type declaration into a lowercase base name and an
// optional length/precision parameter. A declaration the regex cannot
// match is treated as opaque: the base name is empty and callers fall
// back to using the full string as-is.
func Parse(typeString string) (base string, param string) {
	m := typeRegex.FindStringSubmatch(typeString)
	if m == nil {
		return "", ""
	}
	return strings.ToLower(m[1]), strings.ReplaceAll(m[2], " ", "")
}

// noDefaultTypes are the base types MySQL forbids DEFAULT clauses on.
var noDefaultTypes = map[string]struct{}{
	"tinyblob":           {},
	"blob":               {},
	"mediumblob":         {},
	"longblob":           {},
	"tinytext":           {},
	"text":               {},
	"mediumtext":         {},
	"longtext":           {},
	"json":               {},
	"geometry":           {},
	"point":              {},
	"linestring":         {},
	"polygon":            {},
	"multipoint":         {},
	"multilinestring":    {},
	"multipolygon":       {},
	"geometrycollection": {},
}

// SupportsDefault reports whether a column of the given declared type
// may carry a DEFAULT clause.
func SupportsDefault(typeString string) bool {
	base, _ := Parse(typeString)
	if base == "" {
		// Opaque type: assume defaults work, the server will complain
		// if they don't.
		return true
	}
	_, forbidden := noDefaultTypes[base]
	return !forbidden
}

var integerTypes = map[string]struct{}{
	"tinyint":   {},
	"smallint":  {},
	"mediumint": {},
	"int":       {},
	"integer":   {},
	"bigint":    {},
}

// IsInteger reports whether the declared type belongs to the integer
// family. Only these are eligible for physical AUTO_INCREMENT.
func IsInteger(typeString string) bool {
	base, _ := Parse(typeString)
	_, ok := integerTypes[base]
	return ok
}

// IsDateTime reports whether the declared type is datetime or timestamp.
// Identity semantics on these columns are emulated with a
// CURRENT_TIMESTAMP default rather than AUTO_INCREMENT.
func IsDateTime(typeString string) bool {
	base, _ := Parse(typeString)
	return base == "datetime" || base == "timestamp"
}
