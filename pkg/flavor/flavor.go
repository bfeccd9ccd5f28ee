// Package flavor derives an immutable capability set from a MySQL server
// version string. Generation consults these flags instead of a live
// connection, so the same operations can be rendered for any target
// version.
package flavor

import (
	"strings"

	gomysql "github.com/go-mysql-org/go-mysql/mysql"
)

// Capabilities describes which DDL syntax the target server supports.
// The zero value claims nothing, which always falls back to the
// emulation paths. Flags are read-only during generation.
type Capabilities struct {
	Version string

	// RenameIndex: ALTER TABLE ... RENAME INDEX (5.7+). Without it a
	// rename is reconstructed as DROP INDEX + ADD from the raw table
	// definition.
	RenameIndex bool

	// RenameColumn: ALTER TABLE ... RENAME COLUMN (8.0+). Without it a
	// rename becomes CHANGE with the extracted original clause.
	RenameColumn bool

	// SubSecondTimestamps: fractional seconds on datetime/timestamp
	// (5.6.4+). Governs whether CURRENT_TIMESTAMP defaults carry a
	// precision argument.
	SubSecondTimestamps bool

	// DefaultExpression: arbitrary expressions in DEFAULT clauses
	// (8.0.13+).
	DefaultExpression bool
}

// New builds the capability set for a server version string as reported
// by SELECT version(), e.g. "8.0.33" or "5.7.44-log".
func New(serverVersion string) Capabilities {
	v := normalize(serverVersion)
	return Capabilities{
		Version:             serverVersion,
		RenameIndex:         atLeast(v, "5.7.0"),
		RenameColumn:        atLeast(v, "8.0.0"),
		SubSecondTimestamps: atLeast(v, "5.6.4"),
		DefaultExpression:   atLeast(v, "8.0.13"),
	}
}

// normalize strips build/suffix decorations like "-log" or "-0ubuntu0.22".
func normalize(version string) string {
	if idx := strings.IndexAny(version, "-+ "); idx >= 0 {
		return version[:idx]
	}
	return version
}

func atLeast(version, cutoff string) bool {
	cmp, err := gomysql.CompareServerVersions(version, cutoff)
	if err != nil {
		return false // can't tell, assume not supported
	}
	return cmp >= 0
}
