package sqlgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cresho/mygrate/pkg/definition"
	"github.com/cresho/mygrate/pkg/flavor"
	"github.com/cresho/mygrate/pkg/introspect"
	"github.com/cresho/mygrate/pkg/sqlfmt"
	"github.com/cresho/mygrate/pkg/sqltype"
)

// Generator renders operations into a CommandList. It is stateless text
// transformation: safe for concurrent use over independent inputs. The
// only I/O is the lazy raw-definition fetch for renames lacking a
// native verb.
type Generator struct {
	caps    flavor.Capabilities
	fetcher introspect.Fetcher
}

// New returns a Generator for the given capability set. fetcher may be
// nil for offline generation; rename operations that need introspection
// then fail with a SchemaIntrospectionError.
func New(caps flavor.Capabilities, fetcher introspect.Fetcher) *Generator {
	return &Generator{caps: caps, fetcher: fetcher}
}

// Generate renders the operations strictly in order. On error no partial
// command list is returned.
func (g *Generator) Generate(ctx context.Context, ops []Operation) (CommandList, error) {
	b := &builder{}
	for _, op := range ops {
		if err := g.generate(ctx, op, b); err != nil {
			return nil, err
		}
	}
	return b.finish(), nil
}

func (g *Generator) generate(ctx context.Context, op Operation, b *builder) error {
	switch op := op.(type) {
	case CreateTable:
		return g.createTable(op, b)
	case DropTable:
		b.stmt("DROP TABLE " + sqlfmt.QuoteQualified(op.Schema, op.Name))
		b.endCommand()
	case RenameTable:
		b.stmt(fmt.Sprintf("ALTER TABLE %s RENAME %s",
			sqlfmt.QuoteQualified(op.Schema, op.Name), sqlfmt.QuoteQualified(op.Schema, op.NewName)))
		b.endCommand()
	case AddColumn:
		def, err := g.columnDefinition(&op.Column)
		if err != nil {
			return err
		}
		b.stmt(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", sqlfmt.QuoteQualified(op.Schema, op.Table), def))
		b.endCommand()
	case DropColumn:
		b.stmt(fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s",
			sqlfmt.QuoteQualified(op.Schema, op.Table), sqlfmt.QuoteIdentifier(op.Name)))
		b.endCommand()
	case AlterColumn:
		return g.alterColumn(op, b)
	case RenameColumn:
		return g.renameColumn(ctx, op, b)
	case CreateIndex:
		g.createIndex(op, b)
	case DropIndex:
		b.stmt(fmt.Sprintf("ALTER TABLE %s DROP INDEX %s",
			sqlfmt.QuoteQualified(op.Schema, op.Table), sqlfmt.QuoteIdentifier(op.Name)))
		b.endCommand()
	case RenameIndex:
		return g.renameIndex(ctx, op, b)
	case AddPrimaryKey:
		g.addPrimaryKey(op, b)
	case DropPrimaryKey:
		appendStripAutoIncrement(b, op.Schema, op.Table)
		b.stmt(fmt.Sprintf("ALTER TABLE %s DROP PRIMARY KEY", sqlfmt.QuoteQualified(op.Schema, op.Table)))
		b.endCommand()
	case AddUniqueConstraint:
		b.stmt(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)",
			sqlfmt.QuoteQualified(op.Schema, op.Table),
			sqlfmt.QuoteIdentifier(sqlfmt.TruncateIdentifier(op.Name)),
			quoteColumns(op.Columns)))
		b.endCommand()
	case DropUniqueConstraint:
		b.stmt(fmt.Sprintf("ALTER TABLE %s DROP INDEX %s",
			sqlfmt.QuoteQualified(op.Schema, op.Table), sqlfmt.QuoteIdentifier(op.Name)))
		b.endCommand()
	case AddForeignKey:
		b.stmt(fmt.Sprintf("ALTER TABLE %s ADD %s",
			sqlfmt.QuoteQualified(op.Schema, op.Table), foreignKeyClause(op.ForeignKey)))
		b.endCommand()
	case DropForeignKey:
		b.stmt(fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s",
			sqlfmt.QuoteQualified(op.Schema, op.Table), sqlfmt.QuoteIdentifier(op.Name)))
		b.endCommand()
	case EnsureSchema:
		b.stmt("CREATE DATABASE IF NOT EXISTS " + sqlfmt.QuoteIdentifier(op.Name))
		b.endCommandBatched(true)
	case CreateDatabase:
		b.stmt("CREATE DATABASE " + sqlfmt.QuoteIdentifier(op.Name))
		b.endCommandBatched(true)
	case DropDatabase:
		b.stmt("DROP DATABASE " + sqlfmt.QuoteIdentifier(op.Name))
		b.endCommandBatched(true)
	case CreateSequence:
		return &UnsupportedOperationError{Operation: op.Kind()}
	case RenameSequence:
		return &UnsupportedOperationError{Operation: op.Kind()}
	case RawSQL:
		b.stmt(strings.TrimSuffix(strings.TrimSpace(op.SQL), sqlfmt.StatementTerminator))
		b.endCommand()
	default:
		return &UnsupportedOperationError{Operation: op.Kind()}
	}
	return nil
}

func (g *Generator) createTable(op CreateTable, b *builder) error {
	var lines []string
	for i := range op.Columns {
		def, err := g.columnDefinition(&op.Columns[i])
		if err != nil {
			return err
		}
		lines = append(lines, "    "+def)
	}
	if len(op.PrimaryKey) > 0 {
		lines = append(lines, "    PRIMARY KEY ("+quoteColumns(op.PrimaryKey)+")")
	}
	for _, idx := range op.Indexes {
		lines = append(lines, "    "+indexClause(idx))
	}
	for _, fk := range op.ForeignKeys {
		lines = append(lines, "    "+foreignKeyClause(fk))
	}

	var tail []string
	if op.Engine != "" {
		tail = append(tail, "ENGINE="+op.Engine)
	}
	if op.Charset != "" {
		tail = append(tail, "DEFAULT CHARSET="+op.Charset)
	}
	if op.Collation != "" {
		tail = append(tail, "COLLATE="+op.Collation)
	}
	if op.Comment != "" {
		tail = append(tail, "COMMENT="+sqlfmt.QuoteString(op.Comment))
	}
	options := ""
	if len(tail) > 0 {
		options = " " + strings.Join(tail, " ")
	}

	b.stmt(fmt.Sprintf("CREATE TABLE %s (\n%s\n)%s",
		sqlfmt.QuoteQualified(op.Schema, op.Name), strings.Join(lines, ",\n"), options))
	b.endCommand()
	return nil
}

// alterColumn emits up to three ordered statements: drop the old default
// if the old type can have one, MODIFY to the new definition, then set
// the new default. Requesting a default on a type that forbids it is a
// hard error, checked before any output.
func (g *Generator) alterColumn(op AlterColumn, b *builder) error {
	if op.Column.HasDefault() && !sqltype.SupportsDefault(op.Column.Type) {
		return &IllegalDefaultValueError{Column: op.Column.Name, Type: op.Column.Type}
	}
	table := sqlfmt.QuoteQualified(op.Schema, op.Table)
	column := sqlfmt.QuoteIdentifier(op.Column.Name)

	// Unknown old state counts as supporting defaults: DROP DEFAULT on
	// a column without one is a no-op on the server.
	oldSupportsDefault := op.OldColumn == nil || sqltype.SupportsDefault(op.OldColumn.Type)
	if oldSupportsDefault {
		b.stmt(fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", table, column))
	}

	bare := op.Column
	bare.DefaultValue = nil
	bare.DefaultSQL = ""
	def, err := g.columnDefinition(&bare)
	if err != nil {
		return err
	}
	b.stmt(fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s", table, def))

	if op.Column.HasDefault() {
		b.stmt(fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s",
			table, column, g.defaultExpression(&op.Column)))
	}
	b.endCommand()
	return nil
}

func (g *Generator) renameColumn(ctx context.Context, op RenameColumn, b *builder) error {
	table := sqlfmt.QuoteQualified(op.Schema, op.Table)
	if g.caps.RenameColumn {
		b.stmt(fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s",
			table, sqlfmt.QuoteIdentifier(op.Name), sqlfmt.QuoteIdentifier(op.NewName)))
		b.endCommand()
		return nil
	}
	// No native verb: recover the original clause and re-emit it under
	// the new name with CHANGE.
	raw, err := g.fetchRaw(ctx, op.Schema, op.Table)
	if err != nil {
		return err
	}
	clause, err := definition.ExtractColumn(raw, op.Name)
	if err != nil {
		if errors.Is(err, definition.ErrNotFound) {
			return &DefinitionNotFoundError{Schema: op.Schema, Table: op.Table, ObjectKind: "column", Object: op.Name}
		}
		return err
	}
	b.stmt(fmt.Sprintf("ALTER TABLE %s CHANGE %s %s %s",
		table, sqlfmt.QuoteIdentifier(op.Name), sqlfmt.QuoteIdentifier(op.NewName), clause))
	b.endCommand()
	return nil
}

func (g *Generator) renameIndex(ctx context.Context, op RenameIndex, b *builder) error {
	table := sqlfmt.QuoteQualified(op.Schema, op.Table)
	if g.caps.RenameIndex {
		b.stmt(fmt.Sprintf("ALTER TABLE %s RENAME INDEX %s TO %s",
			table, sqlfmt.QuoteIdentifier(op.Name), sqlfmt.QuoteIdentifier(op.NewName)))
		b.endCommand()
		return nil
	}
	// Reconstruct as DROP + ADD from the raw definition. Two commands:
	// the ADD depends on the DROP having been applied.
	raw, err := g.fetchRaw(ctx, op.Schema, op.Table)
	if err != nil {
		return err
	}
	prefix, clause, err := definition.ExtractIndex(raw, op.Name)
	if err != nil {
		if errors.Is(err, definition.ErrNotFound) {
			return &DefinitionNotFoundError{Schema: op.Schema, Table: op.Table, ObjectKind: "index", Object: op.Name}
		}
		return err
	}
	b.stmt(fmt.Sprintf("ALTER TABLE %s DROP INDEX %s", table, sqlfmt.QuoteIdentifier(op.Name)))
	b.endCommand()
	b.stmt(fmt.Sprintf("ALTER TABLE %s ADD %s %s %s", table, prefix, sqlfmt.QuoteIdentifier(op.NewName), clause))
	b.endCommand()
	return nil
}

func (g *Generator) createIndex(op CreateIndex, b *builder) {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	switch {
	case op.Unique:
		sb.WriteString("UNIQUE ")
	case op.Fulltext:
		sb.WriteString("FULLTEXT ")
	case op.Spatial:
		sb.WriteString("SPATIAL ")
	}
	sb.WriteString("INDEX ")
	// Names beyond the MySQL limit are truncated, not rejected; name
	// collisions after truncation are the caller's responsibility.
	sb.WriteString(sqlfmt.QuoteIdentifier(sqlfmt.TruncateIdentifier(op.Name)))
	sb.WriteString(" ON ")
	sb.WriteString(sqlfmt.QuoteQualified(op.Schema, op.Table))
	if op.Method != "" {
		sb.WriteString(" USING ")
		sb.WriteString(strings.ToUpper(op.Method))
	}
	sb.WriteString(" (")
	sb.WriteString(quoteColumns(op.Columns))
	sb.WriteString(")")
	b.stmt(sb.String())
	b.endCommand()
}

func (g *Generator) addPrimaryKey(op AddPrimaryKey, b *builder) {
	table := sqlfmt.QuoteQualified(op.Schema, op.Table)
	if op.Name != "" {
		b.stmt(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)",
			table, sqlfmt.QuoteIdentifier(sqlfmt.TruncateIdentifier(op.Name)), quoteColumns(op.Columns)))
	} else {
		b.stmt(fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s)", table, quoteColumns(op.Columns)))
	}
	if len(op.Columns) == 1 {
		appendRestoreAutoIncrement(b, op.Schema, op.Table, op.Columns[0])
	}
	b.endCommand()
}

// columnDefinition renders "name type ..." for CREATE TABLE, ADD COLUMN
// and MODIFY COLUMN positions.
func (g *Generator) columnDefinition(col *Column) (string, error) {
	if col.HasDefault() && !sqltype.SupportsDefault(col.Type) {
		return "", &IllegalDefaultValueError{Column: col.Name, Type: col.Type}
	}
	parts := []string{sqlfmt.QuoteIdentifier(col.Name), col.Type}

	strategy := col.Strategy()
	if strategy == GenerationComputed {
		storage := "VIRTUAL"
		if col.Stored {
			storage = "STORED"
		}
		parts = append(parts, fmt.Sprintf("AS (%s) %s", col.ComputedSQL, storage))
		if !col.Nullable {
			parts = append(parts, "NOT NULL")
		}
		return strings.Join(parts, " "), nil
	}

	if col.Nullable {
		parts = append(parts, "NULL")
	} else {
		parts = append(parts, "NOT NULL")
	}

	if strategy == GenerationIdentity {
		switch {
		case sqltype.IsInteger(col.Type):
			parts = append(parts, "AUTO_INCREMENT")
		case sqltype.IsDateTime(col.Type):
			// No physical auto-increment for temporal types: identity
			// becomes a generated-on-insert timestamp.
			if !col.HasDefault() {
				now := g.currentTimestamp(col.Type)
				parts = append(parts, "DEFAULT "+now)
				if col.OnAddOrUpdate {
					parts = append(parts, "ON UPDATE "+now)
				}
			}
		}
	}

	if col.HasDefault() {
		parts = append(parts, "DEFAULT "+g.defaultExpression(col))
	}
	if col.Comment != "" {
		parts = append(parts, "COMMENT "+sqlfmt.QuoteString(col.Comment))
	}
	return strings.Join(parts, " "), nil
}

// currentTimestamp renders CURRENT_TIMESTAMP with the column's declared
// precision, if the server can express fractional seconds.
func (g *Generator) currentTimestamp(typeString string) string {
	if g.caps.SubSecondTimestamps {
		if _, param := sqltype.Parse(typeString); param != "" {
			return "CURRENT_TIMESTAMP(" + param + ")"
		}
	}
	return "CURRENT_TIMESTAMP"
}

// defaultExpression renders the DEFAULT operand. Expression defaults
// need parentheses on servers that accept them (8.0.13+); literals and
// CURRENT_TIMESTAMP must stay bare on every version.
func (g *Generator) defaultExpression(col *Column) string {
	if col.DefaultSQL == "" {
		return sqlfmt.Literal(col.DefaultValue)
	}
	sql := strings.TrimSpace(col.DefaultSQL)
	if g.caps.DefaultExpression && isDefaultExpression(sql) && !strings.HasPrefix(sql, "(") {
		return "(" + sql + ")"
	}
	return sql
}

func isDefaultExpression(sql string) bool {
	if strings.HasPrefix(strings.ToUpper(sql), "CURRENT_TIMESTAMP") {
		return false
	}
	return strings.ContainsAny(sql, "()+-*/ ")
}

func (g *Generator) fetchRaw(ctx context.Context, schema, table string) (definition.Raw, error) {
	if g.fetcher == nil {
		return "", &SchemaIntrospectionError{Schema: schema, Table: table, Err: introspect.ErrNoDefinition}
	}
	raw, err := g.fetcher.FetchRawDefinition(ctx, schema, table)
	if err != nil {
		if errors.Is(err, introspect.ErrNoDefinition) {
			return "", &SchemaIntrospectionError{Schema: schema, Table: table, Err: err}
		}
		return "", err
	}
	if raw == "" {
		return "", &SchemaIntrospectionError{Schema: schema, Table: table, Err: introspect.ErrNoDefinition}
	}
	return raw, nil
}

func indexClause(idx Index) string {
	var sb strings.Builder
	switch {
	case idx.Unique:
		sb.WriteString("UNIQUE KEY ")
	case idx.Fulltext:
		sb.WriteString("FULLTEXT KEY ")
	case idx.Spatial:
		sb.WriteString("SPATIAL KEY ")
	default:
		sb.WriteString("KEY ")
	}
	sb.WriteString(sqlfmt.QuoteIdentifier(sqlfmt.TruncateIdentifier(idx.Name)))
	sb.WriteString(" (")
	sb.WriteString(quoteColumns(idx.Columns))
	sb.WriteString(")")
	if idx.Method != "" {
		sb.WriteString(" USING ")
		sb.WriteString(strings.ToUpper(idx.Method))
	}
	return sb.String()
}

func foreignKeyClause(fk ForeignKey) string {
	var sb strings.Builder
	if fk.Name != "" {
		sb.WriteString("CONSTRAINT ")
		sb.WriteString(sqlfmt.QuoteIdentifier(sqlfmt.TruncateIdentifier(fk.Name)))
		sb.WriteString(" ")
	}
	sb.WriteString("FOREIGN KEY (")
	sb.WriteString(quoteColumns(fk.Columns))
	sb.WriteString(") REFERENCES ")
	sb.WriteString(sqlfmt.QuoteQualified(fk.ReferencedSchema, fk.ReferencedTable))
	sb.WriteString(" (")
	sb.WriteString(quoteColumns(fk.ReferencedColumns))
	sb.WriteString(")")
	if action := referentialAction(fk.OnDelete); action != "" {
		sb.WriteString(" ON DELETE ")
		sb.WriteString(action)
	}
	if action := referentialAction(fk.OnUpdate); action != "" {
		sb.WriteString(" ON UPDATE ")
		sb.WriteString(action)
	}
	return sb.String()
}

// referentialAction renders a non-default action. RESTRICT is spelled
// out literally; NO ACTION is the server default and is omitted.
func referentialAction(a ReferentialAction) string {
	switch a {
	case Restrict:
		return "RESTRICT"
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	case SetDefault:
		return "SET DEFAULT"
	default:
		return ""
	}
}

func quoteColumns(cols []string) string {
	quoted := make([]string, 0, len(cols))
	for _, c := range cols {
		quoted = append(quoted, sqlfmt.QuoteIdentifier(c))
	}
	return strings.Join(quoted, ", ")
}
