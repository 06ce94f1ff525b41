package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndPath(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	name, err := store.Save("SchoolData.csv", []byte("a,b,c"))
	require.NoError(t, err)
	assert.Equal(t, "SchoolData.csv", name)

	path := store.Path("SchoolData.csv")
	assert.Equal(t, filepath.Join(dir, "SchoolData.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b,c"), data)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	path := store.Path("../../etc/passwd")
	assert.Equal(t, filepath.Join(dir, "etc", "passwd"), path)
}
