package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandSQL(t *testing.T) {
	c := Command{Statements: []string{"A", "B"}}
	assert.Equal(t, "A;\nB;", c.SQL())

	c = Command{Statements: []string{"A"}}
	assert.Equal(t, "A;", c.SQL())
}

func TestCommandListSQL(t *testing.T) {
	cl := CommandList{
		{Statements: []string{"A", "B"}},
		{Statements: []string{"C"}, Batched: true},
	}
	assert.Equal(t, "A;\nB;\n\nC;", cl.SQL())
	assert.Equal(t, []string{"A", "B", "C"}, cl.Statements())
}

func TestBuilderBoundaries(t *testing.T) {
	b := &builder{}
	b.stmt("A")
	b.stmt("B")
	b.endCommand()
	b.stmt("C")
	b.endCommandBatched(true)
	// An empty boundary cuts nothing.
	b.endCommand()
	list := b.finish()
	assert.Len(t, list, 2)
	assert.False(t, list[0].Batched)
	assert.True(t, list[1].Batched)
}

func TestBuilderFinishFlushesPending(t *testing.T) {
	b := &builder{}
	b.stmt("A")
	list := b.finish()
	assert.Len(t, list, 1)
	assert.Equal(t, []string{"A"}, list[0].Statements)
}
