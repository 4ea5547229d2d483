package nk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates empty files with the given names in a fresh temp dir.
func writeFiles(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), nil, 0o644))
	}
	return dir
}

func TestResolve_TemperatureSpecificWins(t *testing.T) {
	dir := writeFiles(t, "MAT_100K.lnk", "MAT.lnk")

	in, err := Resolve(dir, "MAT", 100)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MAT_100K.lnk"), in.Path)
	assert.False(t, in.Builtin)
	assert.False(t, in.Approximate)
}

func TestResolve_ExactMatchWithoutTemperature(t *testing.T) {
	dir := writeFiles(t, "MAT_100K.lnk", "MAT.lnk")

	// No temperature requested: plain exact match wins.
	in, err := Resolve(dir, "MAT", 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MAT.lnk"), in.Path)
}

func TestResolve_ExactFallbackWhenTempFileMissing(t *testing.T) {
	dir := writeFiles(t, "MAT.lnk")

	in, err := Resolve(dir, "MAT", 200)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MAT.lnk"), in.Path)
	assert.False(t, in.Approximate)
}

func TestResolve_SubstringMatch(t *testing.T) {
	dir := writeFiles(t, "prefix_e40r_suffix.LNK")

	in, err := Resolve(dir, "E40R", 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "prefix_e40r_suffix.LNK"), in.Path)
	assert.False(t, in.Builtin)
	assert.False(t, in.Approximate)
}

func TestResolve_SubstringMatchFlagsTemperatureMismatch(t *testing.T) {
	dir := writeFiles(t, "E40R_extra.lnk")

	in, err := Resolve(dir, "E40R", 100)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "E40R_extra.lnk"), in.Path)
	assert.True(t, in.Approximate, "substring match under a temperature request must be flagged")
}

func TestResolve_BuiltinFallthrough(t *testing.T) {
	dir := writeFiles(t, "other.lnk", "notes.txt")

	in, err := Resolve(dir, "pyr-mg70", 100)
	require.NoError(t, err)
	assert.True(t, in.Builtin)
	assert.Equal(t, "pyr-mg70", in.Path)
}

func TestResolve_IgnoresNonLnkFiles(t *testing.T) {
	dir := writeFiles(t, "E40R.txt", "E40R.lnk.bak")

	in, err := Resolve(dir, "E40R", 0)
	require.NoError(t, err)
	assert.True(t, in.Builtin)
}

func TestResolve_DirNotFound(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing"), "E40R", 100)
	assert.ErrorIs(t, err, ErrDirNotFound)
}

func TestResolve_DirectoryEntriesSkipped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "E40R.lnk"), 0o755))

	// A directory named like a .lnk file must not be selected.
	in, err := Resolve(dir, "E40R", 0)
	require.NoError(t, err)
	assert.True(t, in.Builtin)
}
