package io

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/stackdiagram/pkg/render/dot"
)

func TestExamplesBuild(t *testing.T) {
	paths, err := FindManifests(filepath.Join("..", "..", "examples"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			m, err := Load(path)
			require.NoError(t, err)
			d, err := Build(m)
			require.NoError(t, err)
			assert.NotEmpty(t, d.Nodes())
			assert.NotEmpty(t, d.Edges())

			text, err := dot.ToDOT(d)
			require.NoError(t, err)
			assert.Contains(t, text, "digraph")
		})
	}
}
