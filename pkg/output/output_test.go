package output

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/geodetic-tools/pkg/geoerr"
)

func zipBytes(t *testing.T) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("result.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("1,2,3\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestWriteResultOverwrites(t *testing.T) {
	dir := t.TempDir()
	p, err := WriteResult(dir, "batch_gpsh_output.csv", []byte("first"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "batch_gpsh_output.csv"), p)

	_, err = WriteResult(dir, "batch_gpsh_output.csv", []byte("second"))
	require.NoError(t, err)
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "second", string(b))
}

func TestWriteResultMissingDir(t *testing.T) {
	_, err := WriteResult(filepath.Join(t.TempDir(), "nope"), "x.csv", []byte("x"))
	var fe *geoerr.FileSystemError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "write", fe.Op)
}

func TestMove(t *testing.T) {
	src := t.TempDir()
	p, err := WriteResult(src, "out.txt", []byte("data"))
	require.NoError(t, err)

	dst := filepath.Join(t.TempDir(), "downloads")
	moved, err := Move(p, dst)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dst, "out.txt"), moved)
	assert.NoFileExists(t, p)
	b, err := os.ReadFile(moved)
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
}

func TestMoveWithoutDirIsNoop(t *testing.T) {
	p, err := Move("/some/where.txt", "")
	require.NoError(t, err)
	assert.Equal(t, "/some/where.txt", p)
}

func TestVerifyZip(t *testing.T) {
	assert.NoError(t, VerifyZip("ok.zip", zipBytes(t)))

	err := VerifyZip("bad.zip", []byte("not a zip"))
	var fe *geoerr.FileSystemError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "bad.zip", fe.Path)
	assert.Equal(t, geoerr.ExitFileSystem, geoerr.ExitCode(err))
}

func TestIsZip(t *testing.T) {
	assert.True(t, IsZip("batch_trx_output.ZIP"))
	assert.False(t, IsZip("batch_trx_output.csv"))
}

func TestWarnfWithoutColor(t *testing.T) {
	colorEnabled = false
	defer func() { colorEnabled = true }()
	assert.Equal(t, "Warning: epoch set to 2010", Warnf("epoch set to %d", 2010))
	assert.Equal(t, "second line", ShortError(errors.New("first line\nsecond line\n")))
}
