package download

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSinkWritesFile(t *testing.T) {
	dir := t.TempDir()
	sink := NewDirSink(dir)

	require.NoError(t, sink.Download("a,b\n1,2\n", "stocks_20240601_093015.csv"))

	data, err := os.ReadFile(filepath.Join(dir, "stocks_20240601_093015.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

func TestDirSinkCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "exports")
	sink := NewDirSink(dir)

	require.NoError(t, sink.Download("x", "out.csv"))

	_, err := os.Stat(filepath.Join(dir, "out.csv"))
	assert.NoError(t, err)
}
