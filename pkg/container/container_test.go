package container

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisrosset/avro-playground/pkg/record"
)

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.avro")

	gen := record.NewGenerator(1, record.WithRepeatRange(1, 4))
	records := gen.Records(16)

	err := WriteFile(path, record.Schema, records)
	require.NoError(t, err)

	got, err := Records(path)
	require.NoError(t, err)
	require.Len(t, got, len(records))

	for i, rec := range got {
		assert.Equal(t, records[i].Name, rec["name"])
		assert.EqualValues(t, *records[i].FavoriteNumber, rec["favorite_number"])
		assert.Equal(t, *records[i].FavoriteColor, rec["favorite_color"])
	}
}

func TestAppendWriterReadableByStandardDecoder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "appended.avro")

	gen := record.NewGenerator(7, record.WithRepeatRange(1, 50))
	records := gen.Records(32)

	w, err := NewAppendWriter(path, record.Schema)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Append(rec))
	}
	require.NoError(t, w.Close())

	got, err := Records(path)
	require.NoError(t, err)
	require.Len(t, got, len(records))

	for i, rec := range got {
		assert.Equal(t, records[i].Name, rec["name"])
	}
}

func TestAppendWriterHeaderEndsWithSyncMarker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.avro")

	w, err := NewAppendWriter(path, record.Schema)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), len(SyncMarker))
	assert.Equal(t, SyncMarker[:], data[len(data)-len(SyncMarker):])
}

func TestAppendWriterBlockFraming(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "framed.avro")

	w, err := NewAppendWriter(path, record.Schema)
	require.NoError(t, err)
	headerLen := fileSize(t, path)

	number := 3
	color := "red"
	rec := record.User{Name: "Chris", FavoriteNumber: &number, FavoriteColor: &color}
	require.NoError(t, w.Append(rec))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	block := data[headerLen:]

	// count = 1
	assert.Equal(t, byte(0x02), block[0])
	// declared size matches the bytes between the size varint and the
	// trailing sync marker
	payload := block[1 : len(block)-len(SyncMarker)]
	size := payload[0]
	assert.Equal(t, int(size), 2*(len(payload)-1))
	assert.Equal(t, SyncMarker[:], block[len(block)-len(SyncMarker):])
}

func TestWriteJSONOneObjectPerLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.avro")

	gen := record.NewGenerator(42, record.WithRepeatRange(1, 2))
	records := gen.Records(8)
	require.NoError(t, WriteFile(path, record.Schema, records))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(path, &buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(records))
	for i, line := range lines {
		assert.Contains(t, line, `"name"`, "line %d", i)
	}
}

func TestRecordsMissingFile(t *testing.T) {
	_, err := Records(filepath.Join(t.TempDir(), "absent.avro"))
	assert.Error(t, err)
}

func fileSize(t *testing.T, path string) int64 {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.Size()
}
