package workspace

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, ws *Workspace, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(ws.Path(name), []byte("x"), 0o644))
}

func TestGlobPatterns(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	touch(t, ws, "a.avro")
	touch(t, ws, "a.avro.json")
	touch(t, ws, "bavro")
	touch(t, ws, "unrelated.txt")

	tests := []struct {
		pattern string
		want    []string
	}{
		{PatternRaw, []string{"a.avro", "bavro"}},
		{PatternAvro, []string{"a.avro"}},
		{PatternJSON, []string{"a.avro.json"}},
	}

	for _, tt := range tests {
		got, err := ws.Glob(tt.pattern)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "pattern %s", tt.pattern)
	}
}

func TestCleanRemovesGeneratedFiles(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	touch(t, ws, "run.real.avro")
	touch(t, ws, "run.fake.avro")
	touch(t, ws, "run.real.avro.json")
	touch(t, ws, "keep.txt")

	require.NoError(t, ws.Clean())

	entries, err := os.ReadDir(ws.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "keep.txt", entries[0].Name())
}

func TestCleanSparesBareJSONSuffix(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	touch(t, ws, "xavro.json")
	touch(t, ws, "x.avro.json")
	touch(t, ws, "xavro")

	require.NoError(t, ws.Clean())

	_, err = os.Stat(ws.Path("xavro.json"))
	assert.NoError(t, err, "deletion glob must not match a bare avro.json suffix")
	_, err = os.Stat(ws.Path("x.avro.json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(ws.Path("xavro"))
	assert.True(t, os.IsNotExist(err))
}

func TestCleanEmptyDirIsNotAnError(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, ws.Clean())
}

func TestCleanIsIdempotent(t *testing.T) {
	ws, err := New(t.TempDir())
	require.NoError(t, err)

	touch(t, ws, "run.fake.avro")
	require.NoError(t, ws.Clean())
	require.NoError(t, ws.Clean())
}
