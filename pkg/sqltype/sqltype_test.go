package sqltype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	base, param := Parse("datetime(6)")
	assert.Equal(t, "datetime", base)
	assert.Equal(t, "6", param)

	base, param = Parse("varchar(255)")
	assert.Equal(t, "varchar", base)
	assert.Equal(t, "255", param)

	base, param = Parse("decimal(10, 2)")
	assert.Equal(t, "decimal", base)
	assert.Equal(t, "10,2", param)

	base, param = Parse("TEXT")
	assert.Equal(t, "text", base)
	assert.Empty(t, param)

	base, param = Parse("int unsigned")
	assert.Equal(t, "int", base)
	assert.Empty(t, param)

	// Opaque declarations fall through with an empty base.
	base, param = Parse("???")
	assert.Empty(t, base)
	assert.Empty(t, param)
}

func TestSupportsDefault(t *testing.T) {
	assert.True(t, SupportsDefault("int"))
	assert.True(t, SupportsDefault("varchar(100)"))
	assert.True(t, SupportsDefault("datetime(6)"))
	assert.False(t, SupportsDefault("text"))
	assert.False(t, SupportsDefault("TEXT"))
	assert.False(t, SupportsDefault("longblob"))
	assert.False(t, SupportsDefault("json"))
	assert.False(t, SupportsDefault("geometry"))
	// Unknown types get the benefit of the doubt.
	assert.True(t, SupportsDefault("???"))
}

func TestIsInteger(t *testing.T) {
	assert.True(t, IsInteger("int"))
	assert.True(t, IsInteger("bigint"))
	assert.True(t, IsInteger("INT(11)"))
	assert.True(t, IsInteger("tinyint(1)"))
	assert.False(t, IsInteger("varchar(10)"))
	assert.False(t, IsInteger("decimal(10,2)"))
	assert.False(t, IsInteger("datetime"))
}

func TestIsDateTime(t *testing.T) {
	assert.True(t, IsDateTime("datetime"))
	assert.True(t, IsDateTime("datetime(6)"))
	assert.True(t, IsDateTime("TIMESTAMP(6)"))
	assert.False(t, IsDateTime("date"))
	assert.False(t, IsDateTime("time"))
	assert.False(t, IsDateTime("int"))
}
