package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetIsStable(t *testing.T) {
	assert.Equal(t, Get(), Get())
}

func TestString(t *testing.T) {
	i := Info{Version: "v1.2.3", Commit: "0123456789abcdef", GoVer: "go1.24.0"}
	assert.Equal(t, "v1.2.3 (0123456789ab, go1.24.0)", i.String())

	i.Modified = true
	assert.Equal(t, "v1.2.3 (0123456789ab-dirty, go1.24.0)", i.String())

	short := Info{Version: "dev", Commit: "unknown", GoVer: "go1.24.0"}
	assert.Equal(t, "dev (unknown, go1.24.0)", short.String())
}
