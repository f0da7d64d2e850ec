package words

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse(strings.NewReader("Moon  bread\nlight\n\n it's 42 moon\n"))
	require.NoError(t, err)

	assert.Equal(t, 3, v.Len())
	assert.True(t, v.Has("moon"))
	assert.True(t, v.Has("MOON"))
	assert.True(t, v.Has("bread"))
	assert.False(t, v.Has("it's"))
	assert.False(t, v.Has("42"))
}

func TestZeroVocabulary(t *testing.T) {
	var v Vocabulary
	assert.Equal(t, 0, v.Len())
	assert.False(t, v.Has("moon"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("a b c"), 0o644))

	v, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestEmbedded(t *testing.T) {
	v, err := Load("")
	require.NoError(t, err)
	assert.Greater(t, v.Len(), 100)
	for _, w := range []string{"moon", "bread", "light", "the", "it"} {
		assert.True(t, v.Has(w), w)
	}
}

func TestExtract(t *testing.T) {
	assert.Equal(t,
		[]string{"you", "mix", "wheat", "salt", "and", "yeast", "to", "make", "it"},
		Extract("You mix wheat, salt, and yeast to make it."))
	assert.Equal(t, []string{"it", "s"}, Extract("it's"))
	assert.Empty(t, Extract(" ... 12 "))
}
