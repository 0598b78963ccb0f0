package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	page, err := Index("geodesy")
	require.NoError(t, err)

	out := string(page)
	assert.Contains(t, out, "<title>geodesy</title>")
	assert.Contains(t, out, "/api/distance")
	assert.Contains(t, out, "<svg")
	assert.NotContains(t, out, "{{")
	assert.NotContains(t, out, "\n  ")
}
