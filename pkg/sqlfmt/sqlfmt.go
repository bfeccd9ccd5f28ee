// Package sqlfmt renders identifiers and literal values as MySQL SQL text.
package sqlfmt

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// StatementTerminator ends every statement within a command.
	StatementTerminator = ";"
	// MaxIdentifierLength is the MySQL limit for index and constraint names.
	// Longer names are truncated, not rejected.
	MaxIdentifierLength = 64
)

// QuoteIdentifier backtick-quotes an identifier, doubling any embedded
// backticks.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QuoteQualified quotes a table name with an optional schema qualifier.
func QuoteQualified(schema, name string) string {
	if schema == "" {
		return QuoteIdentifier(name)
	}
	return QuoteIdentifier(schema) + "." + QuoteIdentifier(name)
}

// TruncateIdentifier shortens a name to MaxIdentifierLength characters.
// The limit is a character count, so multibyte names are cut on rune
// boundaries, never mid-sequence. Truncating an already-truncated name
// returns the same string.
func TruncateIdentifier(name string) string {
	if utf8.RuneCountInString(name) <= MaxIdentifierLength {
		return name
	}
	runes := []rune(name)
	return string(runes[:MaxIdentifierLength])
}

// EscapeString escapes a string for inclusion in a single-quoted MySQL
// string literal. This covers the characters the server treats specially
// under NO_BACKSLASH_ESCAPES being off, which is what we standardize on.
// All special characters are single bytes, so iteration is by byte and
// input that is not valid UTF-8 passes through untouched.
func EscapeString(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case 0:
			sb.WriteString(`\0`)
		case '\'':
			sb.WriteString(`\'`)
		case '"':
			sb.WriteString(`\"`)
		case '\b':
			sb.WriteString(`\b`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0x1a:
			sb.WriteString(`\Z`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// QuoteString returns a single-quoted, escaped MySQL string literal.
func QuoteString(s string) string {
	return "'" + EscapeString(s) + "'"
}

// Literal renders a Go value as a MySQL literal. []byte becomes a hex
// literal, time.Time a DATETIME(6) literal in UTC, nil is NULL.
func Literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case string:
		return QuoteString(v)
	case []byte:
		if len(v) == 0 {
			return "''"
		}
		return "0x" + hex.EncodeToString(v)
	case int:
		return strconv.Itoa(v)
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return "'" + v.UTC().Format("2006-01-02 15:04:05.000000") + "'"
	default:
		return QuoteString(fmt.Sprintf("%v", v))
	}
}
