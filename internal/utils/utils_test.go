package utils

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.FatalLevel)
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{}, CreateRankList(0))
	assert.Equal(t, []uint16{}, CreateRankList(-3))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))

	long := CreateRankList(math.MaxUint16 + 10)
	assert.Equal(t, uint16(math.MaxUint16), long[len(long)-1])
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 0, ClampInt(-1, 0, 10))
	assert.Equal(t, 10, ClampInt(11, 0, 10))
	assert.Equal(t, 4, ClampInt(4, 0, 10))
}

func TestTOMLRoundTrip(t *testing.T) {
	type section struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}
	type doc struct {
		Main section `toml:"main"`
	}

	path := filepath.Join(t.TempDir(), "doc.toml")
	require.NoError(t, SaveTOMLFile(doc{Main: section{Name: "x", Count: 3}}, path))
	assert.True(t, FileExists(path))

	var got doc
	require.NoError(t, LoadTOMLFile(path, &got))
	assert.Equal(t, "x", got.Main.Name)
	assert.Equal(t, 3, got.Main.Count)

	raw, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	main, ok := ExtractSection(raw, "main")
	require.True(t, ok)

	n, ok := ExtractInt64(main, "count")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	s, ok := ExtractString(main, "name")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = ExtractBool(main, "name")
	assert.False(t, ok, "wrong type is not extracted")
	_, ok = ExtractSection(raw, "missing")
	assert.False(t, ok)
}

func TestParseTOMLWithRecovery_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[main\nname = "), 0644))
	_, err := ParseTOMLWithRecovery(path)
	assert.Error(t, err)

	_, err = ParseTOMLWithRecovery(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	result := CheckDirStatus(dir)
	require.NoError(t, result.Error)
	assert.True(t, result.Exists)
	assert.True(t, result.Writable)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary write file is removed")
}

func TestGetAbsolutePath(t *testing.T) {
	assert.Equal(t, "unknown", GetAbsolutePath(""))
	assert.Equal(t, "/etc/x.toml", GetAbsolutePath("/etc/x.toml"))
	assert.True(t, filepath.IsAbs(GetAbsolutePath("rel.toml")))
}
