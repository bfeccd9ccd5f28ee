package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cresho/mygrate/pkg/flavor"
)

func TestStrategyResolution(t *testing.T) {
	// Explicit declaration wins over everything.
	c := Column{Generation: GenerationNone, AutoIncrement: true, OnAdd: true}
	assert.Equal(t, GenerationNone, c.Strategy())

	// A computed expression implies computed.
	c = Column{ComputedSQL: "a + b"}
	assert.Equal(t, GenerationComputed, c.Strategy())

	// On-add semantics imply identity.
	c = Column{OnAdd: true}
	assert.Equal(t, GenerationIdentity, c.Strategy())
	c = Column{OnAddOrUpdate: true}
	assert.Equal(t, GenerationIdentity, c.Strategy())

	// Legacy flag is honored last.
	c = Column{AutoIncrement: true}
	assert.Equal(t, GenerationIdentity, c.Strategy())

	c = Column{}
	assert.Equal(t, GenerationNone, c.Strategy())
}

func renderColumn(t *testing.T, caps flavor.Capabilities, col Column) string {
	t.Helper()
	def, err := New(caps, nil).columnDefinition(&col)
	require.NoError(t, err)
	return def
}

func TestColumnDefinitionIdentity(t *testing.T) {
	// Integer identity is physical AUTO_INCREMENT.
	def := renderColumn(t, mysql80, Column{Name: "id", Type: "bigint", AutoIncrement: true})
	assert.Equal(t, "`id` bigint NOT NULL AUTO_INCREMENT", def)

	// Temporal identity becomes a CURRENT_TIMESTAMP default instead.
	def = renderColumn(t, mysql80, Column{Name: "created", Type: "datetime(6)", OnAdd: true})
	assert.Equal(t, "`created` datetime(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)", def)

	// On-add-or-update also maintains the value on UPDATE.
	def = renderColumn(t, mysql80, Column{Name: "updated", Type: "datetime(6)", OnAddOrUpdate: true})
	assert.Equal(t, "`updated` datetime(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)", def)

	// Servers without sub-second precision drop the precision argument.
	def = renderColumn(t, mysql56, Column{Name: "created", Type: "datetime(6)", OnAdd: true})
	assert.Equal(t, "`created` datetime(6) NOT NULL DEFAULT CURRENT_TIMESTAMP", def)

	// Identity on a type that is neither integer nor temporal renders
	// no generation clause at all.
	def = renderColumn(t, mysql80, Column{Name: "code", Type: "varchar(36)", AutoIncrement: true})
	assert.Equal(t, "`code` varchar(36) NOT NULL", def)
}

func TestColumnDefinitionDefaults(t *testing.T) {
	def := renderColumn(t, mysql80, Column{Name: "n", Type: "int", DefaultValue: 0})
	assert.Equal(t, "`n` int NOT NULL DEFAULT 0", def)

	def = renderColumn(t, mysql80, Column{Name: "s", Type: "varchar(10)", Nullable: true, DefaultValue: "a'b"})
	assert.Equal(t, "`s` varchar(10) NULL DEFAULT 'a\\'b'", def)

	def = renderColumn(t, mysql80, Column{Name: "ts", Type: "timestamp", DefaultSQL: "CURRENT_TIMESTAMP"})
	assert.Equal(t, "`ts` timestamp NOT NULL DEFAULT CURRENT_TIMESTAMP", def)

	// Expression defaults get parenthesized where the server accepts
	// them, and are passed through untouched elsewhere.
	def = renderColumn(t, mysql80, Column{Name: "u", Type: "char(36)", DefaultSQL: "uuid()"})
	assert.Equal(t, "`u` char(36) NOT NULL DEFAULT (uuid())", def)
	def = renderColumn(t, mysql56, Column{Name: "u", Type: "char(36)", DefaultSQL: "uuid()"})
	assert.Equal(t, "`u` char(36) NOT NULL DEFAULT uuid()", def)
}

func TestColumnDefinitionComputed(t *testing.T) {
	def := renderColumn(t, mysql80, Column{Name: "total", Type: "decimal(10,2)", ComputedSQL: "price * qty", Nullable: true})
	assert.Equal(t, "`total` decimal(10,2) AS (price * qty) VIRTUAL", def)

	def = renderColumn(t, mysql80, Column{Name: "total", Type: "decimal(10,2)", ComputedSQL: "price * qty", Stored: true})
	assert.Equal(t, "`total` decimal(10,2) AS (price * qty) STORED NOT NULL", def)
}

func TestColumnDefinitionIllegalDefault(t *testing.T) {
	_, err := New(mysql80, nil).columnDefinition(&Column{Name: "doc", Type: "json", DefaultValue: "{}"})
	var illegal *IllegalDefaultValueError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, "json", illegal.Type)
	assert.Equal(t, "doc", illegal.Column)
}

func TestColumnComment(t *testing.T) {
	def := renderColumn(t, mysql80, Column{Name: "c", Type: "int", Comment: "user's count"})
	assert.Equal(t, "`c` int NOT NULL COMMENT 'user\\'s count'", def)
}
