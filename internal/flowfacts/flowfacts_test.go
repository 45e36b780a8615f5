package flowfacts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
edges:
  - from: "0x0100"
    to: "0x0100"
    max_iterations: 10
  - from: "0x0200"
    to: "0x0204"
    max_iterations: 0
`

func TestLoadAndLookup(t *testing.T) {
	tbl, err := Load(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, int64(10), tbl.MaxIterations(0x0100, 0x0100))
	assert.Equal(t, int64(0), tbl.MaxIterations(0x0200, 0x0204))
	assert.Equal(t, Unknown, tbl.MaxIterations(0xDEAD, 0xBEEF))
}

func TestLoadEmpty(t *testing.T) {
	tbl, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}
