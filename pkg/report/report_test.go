package report

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisrosset/avro-playground/pkg/workspace"
)

func newWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()
	ws, err := workspace.New(t.TempDir())
	require.NoError(t, err)
	return ws
}

func write(t *testing.T, ws *workspace.Workspace, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(ws.Path(name), []byte(content), 0o644))
}

func TestDigestMatchesDirectHash(t *testing.T) {
	ws := newWorkspace(t)
	write(t, ws, "data.avro", "hello avro")

	got, err := Digest(ws.Path("data.avro"))
	require.NoError(t, err)

	want := sha256.Sum256([]byte("hello avro"))
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestDigestEmptyFile(t *testing.T) {
	ws := newWorkspace(t)
	write(t, ws, "empty.avro", "")

	got, err := Digest(ws.Path("empty.avro"))
	require.NoError(t, err)

	want := sha256.Sum256(nil)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	ws := newWorkspace(t)
	write(t, ws, "a.avro", "content-a")
	write(t, ws, "b.avro", "content-b")
	write(t, ws, "c.avro", "content-a")

	fa, err := Fingerprint(ws.Path("a.avro"))
	require.NoError(t, err)
	fb, err := Fingerprint(ws.Path("b.avro"))
	require.NoError(t, err)
	fc, err := Fingerprint(ws.Path("c.avro"))
	require.NoError(t, err)

	assert.NotEqual(t, fa, fb)
	assert.Equal(t, fa, fc)
}

func TestSumsOneLinePerMatch(t *testing.T) {
	ws := newWorkspace(t)
	write(t, ws, "a.avro", "aaa")
	write(t, ws, "b.avro", "bbb")
	write(t, ws, "skip.txt", "nope")

	var out, errw bytes.Buffer
	err := New(ws).Sums(&out, &errw, workspace.PatternRaw)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "  a.avro"), "got %q", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "  b.avro"), "got %q", lines[1])
	assert.Empty(t, errw.String())

	// 64 hex chars, two spaces, name
	assert.Len(t, lines[0], 64+2+len("a.avro"))
}

func TestSumsNoMatches(t *testing.T) {
	ws := newWorkspace(t)

	var out, errw bytes.Buffer
	err := New(ws).Sums(&out, &errw, workspace.PatternRaw)

	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Empty(t, out.String())
	assert.Equal(t, "*avro: no such file or directory\n", errw.String())
}

func TestSizesListsMatches(t *testing.T) {
	ws := newWorkspace(t)
	write(t, ws, "data.avro", "0123456789")

	var out, errw bytes.Buffer
	err := New(ws).Sizes(&out, &errw, workspace.PatternRaw)
	require.NoError(t, err)

	line := strings.TrimRight(out.String(), "\n")
	assert.Contains(t, line, "10")
	assert.True(t, strings.HasSuffix(line, "data.avro"), "got %q", line)
}

func TestSizesNoMatches(t *testing.T) {
	ws := newWorkspace(t)

	var out, errw bytes.Buffer
	err := New(ws).Sizes(&out, &errw, workspace.PatternJSON)

	assert.ErrorIs(t, err, ErrNoMatch)
	assert.Equal(t, "*avro.json: no such file or directory\n", errw.String())
}
