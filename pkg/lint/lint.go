// Package lint parse-validates generated DDL before it is applied or
// written out. It is a wrapper around the parser, plus special handling
// for the stored-procedure envelopes the generator emits.
package lint

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"github.com/cresho/mygrate/pkg/sqlgen"
)

// Issue is one statement the linter could not accept.
type Issue struct {
	Command   int // 1-based index into the command list
	Statement int // 1-based index within the command
	SQL       string
	Err       error
}

func (i Issue) String() string {
	return fmt.Sprintf("command %d statement %d: %v", i.Command, i.Statement, i.Err)
}

// Commands checks every statement of the list and returns all issues
// found. An empty result means the list is clean.
func Commands(commands sqlgen.CommandList) []Issue {
	var issues []Issue
	for ci, command := range commands {
		for si, stmt := range command.Statements {
			if err := Statement(stmt); err != nil {
				issues = append(issues, Issue{
					Command:   ci + 1,
					Statement: si + 1,
					SQL:       stmt,
					Err:       err,
				})
			}
		}
	}
	return issues
}

// Statement validates a single statement. Procedure envelopes are not
// parsed (the parser does not speak CREATE PROCEDURE); they are checked
// by shape instead.
func Statement(stmt string) error {
	if isProcedureEnvelope(stmt) {
		return checkProcedureEnvelope(stmt)
	}
	p := parser.New()
	if _, _, err := p.Parse(stmt, "", ""); err != nil {
		return err
	}
	return nil
}

func isProcedureEnvelope(stmt string) bool {
	upper := strings.ToUpper(strings.TrimSpace(stmt))
	return strings.HasPrefix(upper, "DROP PROCEDURE") ||
		strings.HasPrefix(upper, "CREATE PROCEDURE") ||
		strings.HasPrefix(upper, "CALL ")
}

func checkProcedureEnvelope(stmt string) error {
	upper := strings.ToUpper(strings.TrimSpace(stmt))
	switch {
	case strings.HasPrefix(upper, "CALL "):
		if !strings.HasSuffix(upper, ")") || !strings.Contains(upper, "(") {
			return fmt.Errorf("malformed CALL statement")
		}
	case strings.Contains(upper, "CREATE PROCEDURE"):
		if !strings.HasSuffix(upper, "END") {
			return fmt.Errorf("procedure body does not end in END")
		}
	}
	return nil
}
