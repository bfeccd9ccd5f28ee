package sqlgen

import (
	"strings"

	"github.com/cresho/mygrate/pkg/sqlfmt"
)

// Command is one independently-sent unit of SQL text: an ordered
// sequence of statements that share a round trip. Batched commands
// (CREATE/DROP DATABASE) must be executed in their own batch.
type Command struct {
	Statements []string
	Batched    bool
}

// SQL joins the statements, each terminated, into the text sent to the
// server.
func (c Command) SQL() string {
	var sb strings.Builder
	for i, stmt := range c.Statements {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(stmt)
		sb.WriteString(sqlfmt.StatementTerminator)
	}
	return sb.String()
}

// CommandList is the ordered output of a generation run.
type CommandList []Command

// SQL renders the whole list as one script, commands separated by a
// blank line.
func (cl CommandList) SQL() string {
	parts := make([]string, 0, len(cl))
	for _, c := range cl {
		parts = append(parts, c.SQL())
	}
	return strings.Join(parts, "\n\n")
}

// Statements flattens the list, mostly for tests and linting.
func (cl CommandList) Statements() []string {
	var out []string
	for _, c := range cl {
		out = append(out, c.Statements...)
	}
	return out
}

// builder accumulates statements and cuts command boundaries. One
// boundary is cut per completed operation, or per sub-step that needs
// its own round trip.
type builder struct {
	commands CommandList
	pending  []string
}

func (b *builder) stmt(s string) {
	b.pending = append(b.pending, s)
}

func (b *builder) endCommand() {
	b.endCommandBatched(false)
}

func (b *builder) endCommandBatched(batched bool) {
	if len(b.pending) == 0 {
		return
	}
	b.commands = append(b.commands, Command{Statements: b.pending, Batched: batched})
	b.pending = nil
}

func (b *builder) finish() CommandList {
	b.endCommand()
	return b.commands
}
