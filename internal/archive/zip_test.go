package archive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZipUnzipRoundTrip(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.ini"), []byte("[device]\nid=1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.ini"), []byte("[device]\nid=2\n"), 0o644))
	// Subdirectories are not part of the flat scratch layout.
	require.NoError(t, os.Mkdir(filepath.Join(src, "sub"), 0o755))

	data, err := Zip(src)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	archivePath := filepath.Join(t.TempDir(), "out.zip")
	require.NoError(t, os.WriteFile(archivePath, data, 0o644))

	dest := t.TempDir()
	extracted, err := Unzip(archivePath, dest)
	require.NoError(t, err)
	require.Len(t, extracted, 2)

	content, err := os.ReadFile(filepath.Join(dest, "a.ini"))
	require.NoError(t, err)
	assert.Equal(t, "[device]\nid=1\n", string(content))
}

func TestZipFiles(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(file, []byte("x=1\n"), 0o644))

	archivePath := filepath.Join(dir, "one.zip")
	require.NoError(t, ZipFiles(archivePath, file))

	dest := t.TempDir()
	extracted, err := Unzip(archivePath, dest)
	require.NoError(t, err)
	require.Len(t, extracted, 1)
	assert.Equal(t, filepath.Join(dest, "config.ini"), extracted[0])
}

func TestUnzipMissingArchive(t *testing.T) {
	_, err := Unzip(filepath.Join(t.TempDir(), "missing.zip"), t.TempDir())
	assert.Error(t, err)
}
