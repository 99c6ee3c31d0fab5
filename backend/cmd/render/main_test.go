package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPassages(t *testing.T) {
	passages, err := loadPassages(strings.NewReader(`[
		{"reference": "Jn 1:1", "text": "In the beginning was the Word"},
		null
	]`))
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "Jn 1:1", passages[0].Reference)
	assert.Nil(t, passages[1])

	_, err = loadPassages(strings.NewReader(`{"reference": "x"}`))
	assert.Error(t, err)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "custom.html", outputPath("custom.html", "love", "html"))
	assert.Equal(t, "-", outputPath("-", "love", "json"))
	assert.Equal(t, "holy-spirit-graph.json", outputPath("", "Holy  Spirit", "json"))
	assert.Equal(t, "scripture-graph.html", outputPath("", "", "html"))
}
