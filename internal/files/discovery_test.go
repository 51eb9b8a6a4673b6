package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0644))
	}
}

func names(files []FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Name
	}
	return out
}

func TestIsTableFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"data.csv", true},
		{"DATA.CSV", true},
		{"book.xlsx", true},
		{"macro.xlsm", true},
		{"old.xls", false},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTableFile(tt.name))
		})
	}
}

func TestFindTables(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "b.csv", "a.xlsx", "a_cleaned.csv", "~$a.xlsx", "notes.txt", "sub/c.csv")

	discovery := NewDiscovery(dir)
	found, err := discovery.FindTables(".")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.xlsx", "b.csv"}, names(found))
	assert.Equal(t, filepath.Join(dir, "a.xlsx"), found[0].Path)
	assert.Positive(t, found[0].Size)

	_, err = discovery.FindTables("missing")
	assert.Error(t, err)
}

func TestFindByPattern(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "jan.csv", "feb.csv", "feb_cleaned.csv", "mar.xlsx")

	found, err := NewDiscovery(dir).FindByPattern("*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"feb.csv", "jan.csv"}, names(found))

	_, err = NewDiscovery(dir).FindByPattern("[")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "in/a.csv", "in/b.xlsx", "loose.csv", "other/c.csv")

	discovery := NewDiscovery(dir)
	found, err := discovery.Resolve("in", "loose.csv", "in/*.csv", "other/*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.xlsx", "loose.csv", "c.csv"}, names(found), "duplicates keep first occurrence")

	_, err = discovery.Resolve("nope.csv")
	assert.Error(t, err)
}
