// Package plan reads migration plans. A plan is a YAML document holding
// a list of operations, each a single-key map from the operation kind
// to its fields, in the order they must apply.
package plan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cresho/mygrate/pkg/sqlgen"
)

// decodeOp decodes a node into a concrete operation value. Operations
// travel by value throughout the generator, so the pointer only exists
// for the duration of the decode.
func decodeOp[T sqlgen.Operation](node *yaml.Node) (sqlgen.Operation, error) {
	var op T
	if err := decodeStrict(node, &op); err != nil {
		return nil, err
	}
	return op, nil
}

var kinds = map[string]func(*yaml.Node) (sqlgen.Operation, error){
	"create_table":           decodeOp[sqlgen.CreateTable],
	"drop_table":             decodeOp[sqlgen.DropTable],
	"rename_table":           decodeOp[sqlgen.RenameTable],
	"add_column":             decodeOp[sqlgen.AddColumn],
	"drop_column":            decodeOp[sqlgen.DropColumn],
	"alter_column":           decodeOp[sqlgen.AlterColumn],
	"rename_column":          decodeOp[sqlgen.RenameColumn],
	"create_index":           decodeOp[sqlgen.CreateIndex],
	"drop_index":             decodeOp[sqlgen.DropIndex],
	"rename_index":           decodeOp[sqlgen.RenameIndex],
	"add_primary_key":        decodeOp[sqlgen.AddPrimaryKey],
	"drop_primary_key":       decodeOp[sqlgen.DropPrimaryKey],
	"add_unique_constraint":  decodeOp[sqlgen.AddUniqueConstraint],
	"drop_unique_constraint": decodeOp[sqlgen.DropUniqueConstraint],
	"add_foreign_key":        decodeOp[sqlgen.AddForeignKey],
	"drop_foreign_key":       decodeOp[sqlgen.DropForeignKey],
	"ensure_schema":          decodeOp[sqlgen.EnsureSchema],
	"create_database":        decodeOp[sqlgen.CreateDatabase],
	"drop_database":          decodeOp[sqlgen.DropDatabase],
	"create_sequence":        decodeOp[sqlgen.CreateSequence],
	"rename_sequence":        decodeOp[sqlgen.RenameSequence],
	"raw_sql":                decodeOp[sqlgen.RawSQL],
}

// Decode reads one plan document. Unknown operation kinds and unknown
// fields are errors, not warnings: a misspelled field silently dropped
// would change the generated DDL.
func Decode(r io.Reader) ([]sqlgen.Operation, error) {
	var doc []map[string]yaml.Node
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	ops := make([]sqlgen.Operation, 0, len(doc))
	for i, entry := range doc {
		if len(entry) != 1 {
			return nil, fmt.Errorf("plan entry %d: want exactly one operation key, got %d", i+1, len(entry))
		}
		for kind, node := range entry {
			decode, ok := kinds[kind]
			if !ok {
				return nil, fmt.Errorf("plan entry %d: unknown operation %q", i+1, kind)
			}
			op, err := decode(&node)
			if err != nil {
				return nil, fmt.Errorf("plan entry %d (%s): %w", i+1, kind, err)
			}
			ops = append(ops, op)
		}
	}
	return ops, nil
}

// decodeStrict re-runs the node through a KnownFields decoder, which
// yaml.Node.Decode does not support directly.
func decodeStrict(node *yaml.Node, out any) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// Load reads a plan file from disk.
func Load(path string) ([]sqlgen.Operation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ops, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ops, nil
}
