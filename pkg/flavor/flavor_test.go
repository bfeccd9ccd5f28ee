package flavor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	caps := New("5.6.2")
	assert.False(t, caps.RenameIndex)
	assert.False(t, caps.RenameColumn)
	assert.False(t, caps.SubSecondTimestamps)
	assert.False(t, caps.DefaultExpression)

	caps = New("5.6.4")
	assert.True(t, caps.SubSecondTimestamps)
	assert.False(t, caps.RenameIndex)

	caps = New("5.7.10")
	assert.True(t, caps.RenameIndex)
	assert.False(t, caps.RenameColumn)

	caps = New("8.0.1")
	assert.True(t, caps.RenameIndex)
	assert.True(t, caps.RenameColumn)
	assert.False(t, caps.DefaultExpression)

	caps = New("8.0.33")
	assert.True(t, caps.DefaultExpression)
}

func TestNewWithSuffix(t *testing.T) {
	caps := New("5.7.44-log")
	assert.True(t, caps.RenameIndex)
	assert.False(t, caps.RenameColumn)
	assert.Equal(t, "5.7.44-log", caps.Version)

	caps = New("8.0.33-0ubuntu0.22.04.2")
	assert.True(t, caps.RenameColumn)
}

func TestNewUnparseable(t *testing.T) {
	// An unparseable version claims no capabilities.
	caps := New("mariadb")
	assert.False(t, caps.RenameIndex)
	assert.False(t, caps.SubSecondTimestamps)
}
