// Package sqlgen translates abstract schema-migration operations into
// MySQL DDL command text. Operations are rendered strictly in the order
// supplied by the caller; later operations may depend on earlier ones
// having been applied, so no reordering or batching happens across
// operation boundaries.
package sqlgen

// Operation is one abstract migration step. Each implementation carries
// the data for exactly one kind of schema change.
type Operation interface {
	// Kind returns a stable snake_case name for the operation, used in
	// plan files and error messages.
	Kind() string
}

// ReferentialAction is a foreign-key ON DELETE / ON UPDATE action.
type ReferentialAction string

const (
	NoAction   ReferentialAction = "" // MySQL default, never rendered
	Restrict   ReferentialAction = "restrict"
	Cascade    ReferentialAction = "cascade"
	SetNull    ReferentialAction = "set_null"
	SetDefault ReferentialAction = "set_default"
)

// ForeignKey describes a referential constraint.
type ForeignKey struct {
	Name              string            `yaml:"name"`
	Columns           []string          `yaml:"columns"`
	ReferencedSchema  string            `yaml:"referenced_schema,omitempty"`
	ReferencedTable   string            `yaml:"referenced_table"`
	ReferencedColumns []string          `yaml:"referenced_columns"`
	OnDelete          ReferentialAction `yaml:"on_delete,omitempty"`
	OnUpdate          ReferentialAction `yaml:"on_update,omitempty"`
}

// Index describes a secondary index.
type Index struct {
	Name     string   `yaml:"name"`
	Columns  []string `yaml:"columns"`
	Unique   bool     `yaml:"unique,omitempty"`
	Fulltext bool     `yaml:"fulltext,omitempty"`
	Spatial  bool     `yaml:"spatial,omitempty"`
	Method   string   `yaml:"method,omitempty"` // BTREE or HASH
}

type CreateTable struct {
	Schema      string       `yaml:"schema,omitempty"`
	Name        string       `yaml:"name"`
	Columns     []Column     `yaml:"columns"`
	PrimaryKey  []string     `yaml:"primary_key,omitempty"`
	Indexes     []Index      `yaml:"indexes,omitempty"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys,omitempty"`
	Engine      string       `yaml:"engine,omitempty"`
	Charset     string       `yaml:"charset,omitempty"`
	Collation   string       `yaml:"collation,omitempty"`
	Comment     string       `yaml:"comment,omitempty"`
}

func (CreateTable) Kind() string { return "create_table" }

type DropTable struct {
	Schema string `yaml:"schema,omitempty"`
	Name   string `yaml:"name"`
}

func (DropTable) Kind() string { return "drop_table" }

type RenameTable struct {
	Schema  string `yaml:"schema,omitempty"`
	Name    string `yaml:"name"`
	NewName string `yaml:"new_name"`
}

func (RenameTable) Kind() string { return "rename_table" }

type AddColumn struct {
	Schema string `yaml:"schema,omitempty"`
	Table  string `yaml:"table"`
	Column Column `yaml:"column"`
}

func (AddColumn) Kind() string { return "add_column" }

type DropColumn struct {
	Schema string `yaml:"schema,omitempty"`
	Table  string `yaml:"table"`
	Name   string `yaml:"name"`
}

func (DropColumn) Kind() string { return "drop_column" }

// AlterColumn changes an existing column's definition. OldColumn is the
// column as it exists before the change; it gates whether a DROP
// DEFAULT statement is needed ahead of the MODIFY.
type AlterColumn struct {
	Schema    string  `yaml:"schema,omitempty"`
	Table     string  `yaml:"table"`
	Column    Column  `yaml:"column"`
	OldColumn *Column `yaml:"old_column,omitempty"`
}

func (AlterColumn) Kind() string { return "alter_column" }

type RenameColumn struct {
	Schema  string `yaml:"schema,omitempty"`
	Table   string `yaml:"table"`
	Name    string `yaml:"name"`
	NewName string `yaml:"new_name"`
}

func (RenameColumn) Kind() string { return "rename_column" }

type CreateIndex struct {
	Schema string `yaml:"schema,omitempty"`
	Table  string `yaml:"table"`
	Index  `yaml:",inline"`
}

func (CreateIndex) Kind() string { return "create_index" }

type DropIndex struct {
	Schema string `yaml:"schema,omitempty"`
	Table  string `yaml:"table"`
	Name   string `yaml:"name"`
}

func (DropIndex) Kind() string { return "drop_index" }

type RenameIndex struct {
	Schema  string `yaml:"schema,omitempty"`
	Table   string `yaml:"table"`
	Name    string `yaml:"name"`
	NewName string `yaml:"new_name"`
}

func (RenameIndex) Kind() string { return "rename_index" }

type AddPrimaryKey struct {
	Schema  string   `yaml:"schema,omitempty"`
	Table   string   `yaml:"table"`
	Name    string   `yaml:"name,omitempty"`
	Columns []string `yaml:"columns"`
}

func (AddPrimaryKey) Kind() string { return "add_primary_key" }

type DropPrimaryKey struct {
	Schema string `yaml:"schema,omitempty"`
	Table  string `yaml:"table"`
}

func (DropPrimaryKey) Kind() string { return "drop_primary_key" }

type AddUniqueConstraint struct {
	Schema  string   `yaml:"schema,omitempty"`
	Table   string   `yaml:"table"`
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

func (AddUniqueConstraint) Kind() string { return "add_unique_constraint" }

type DropUniqueConstraint struct {
	Schema string `yaml:"schema,omitempty"`
	Table  string `yaml:"table"`
	Name   string `yaml:"name"`
}

func (DropUniqueConstraint) Kind() string { return "drop_unique_constraint" }

type AddForeignKey struct {
	Schema     string `yaml:"schema,omitempty"`
	Table      string `yaml:"table"`
	ForeignKey `yaml:",inline"`
}

func (AddForeignKey) Kind() string { return "add_foreign_key" }

type DropForeignKey struct {
	Schema string `yaml:"schema,omitempty"`
	Table  string `yaml:"table"`
	Name   string `yaml:"name"`
}

func (DropForeignKey) Kind() string { return "drop_foreign_key" }

// EnsureSchema creates a database if it does not already exist.
type EnsureSchema struct {
	Name string `yaml:"name"`
}

func (EnsureSchema) Kind() string { return "ensure_schema" }

type CreateDatabase struct {
	Name string `yaml:"name"`
}

func (CreateDatabase) Kind() string { return "create_database" }

type DropDatabase struct {
	Name string `yaml:"name"`
}

func (DropDatabase) Kind() string { return "drop_database" }

// CreateSequence is accepted into the model so callers get a precise
// error: MySQL has no sequence primitive.
type CreateSequence struct {
	Schema string `yaml:"schema,omitempty"`
	Name   string `yaml:"name"`
}

func (CreateSequence) Kind() string { return "create_sequence" }

type RenameSequence struct {
	Schema  string `yaml:"schema,omitempty"`
	Name    string `yaml:"name"`
	NewName string `yaml:"new_name"`
}

func (RenameSequence) Kind() string { return "rename_sequence" }

// RawSQL passes a statement through untouched.
type RawSQL struct {
	SQL string `yaml:"sql"`
}

func (RawSQL) Kind() string { return "raw_sql" }
