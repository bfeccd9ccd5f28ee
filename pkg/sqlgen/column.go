package sqlgen

// GenerationStrategy is the policy governing whether a column's value is
// engine-generated.
type GenerationStrategy string

const (
	// GenerationUnset means no explicit strategy was declared and it is
	// resolved from the on-add / on-add-or-update semantics or the
	// legacy auto_increment flag.
	GenerationUnset    GenerationStrategy = ""
	GenerationNone     GenerationStrategy = "none"
	GenerationIdentity GenerationStrategy = "identity"
	GenerationComputed GenerationStrategy = "computed"
)

// Column describes one column of a table. Type is the declared MySQL
// type string, e.g. "varchar(255)" or "datetime(6)".
type Column struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable,omitempty"`

	// DefaultValue is rendered as a typed literal; DefaultSQL is an
	// expression emitted verbatim. At most one should be set.
	DefaultValue any    `yaml:"default_value,omitempty"`
	DefaultSQL   string `yaml:"default_sql,omitempty"`

	// Generation is the explicitly declared strategy. When unset, the
	// strategy is resolved from the fields below.
	Generation    GenerationStrategy `yaml:"generation,omitempty"`
	OnAdd         bool               `yaml:"on_add,omitempty"`
	OnAddOrUpdate bool               `yaml:"on_add_or_update,omitempty"`
	AutoIncrement bool               `yaml:"auto_increment,omitempty"`

	// ComputedSQL makes this a generated column; Stored selects STORED
	// over the VIRTUAL default.
	ComputedSQL string `yaml:"computed_sql,omitempty"`
	Stored      bool   `yaml:"stored,omitempty"`

	Comment string `yaml:"comment,omitempty"`
}

// Strategy resolves the effective value-generation strategy. An explicit
// declaration wins; otherwise a computed expression implies computed,
// on-add or on-add-or-update semantics imply identity, and finally the
// legacy auto_increment flag is honored.
func (c *Column) Strategy() GenerationStrategy {
	if c.Generation != GenerationUnset {
		return c.Generation
	}
	if c.ComputedSQL != "" {
		return GenerationComputed
	}
	if c.OnAdd || c.OnAddOrUpdate {
		return GenerationIdentity
	}
	if c.AutoIncrement {
		return GenerationIdentity
	}
	return GenerationNone
}

// HasDefault reports whether any default was requested.
func (c *Column) HasDefault() bool {
	return c.DefaultValue != nil || c.DefaultSQL != ""
}
