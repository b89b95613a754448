package familytree

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "family_store.json"))
}

func TestStoreLoadMissingFile(t *testing.T) {
	store := tempStore(t)

	g, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 1, g.NextID())
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	store := tempStore(t)
	a := testPerson(1, "Alice", "Smith")
	b := testPerson(2, "Ben", "Jones")
	a.Spouse = []int{2}
	b.Spouse = []int{1}
	g := FromPeople([]*Person{a, b})

	require.NoError(t, store.Save(g))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Len())
	assert.Equal(t, "Alice", loaded.Get(1).FirstName)
	assert.Equal(t, []int{2}, loaded.Get(1).Spouse)
	assert.Equal(t, 3, loaded.NextID())
}

func TestStoreSaveWritesJSONArray(t *testing.T) {
	store := tempStore(t)
	g := FromPeople([]*Person{testPerson(1, "Alice", "Smith")})
	require.NoError(t, store.Save(g))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var people []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &people))
	require.Len(t, people, 1)
	assert.Equal(t, "Alice", people[0]["first_name"])
}

func TestStoreSaveLeavesNoTempFiles(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save(FromPeople([]*Person{testPerson(1, "Alice", "Smith")})))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(store.Path()), entries[0].Name())
}

func TestStoreLoadCorruptDocument(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0644))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestStoreBackup(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save(FromPeople([]*Person{testPerson(1, "Alice", "Smith")})))

	backupPath, err := store.Backup()
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)
	assert.Contains(t, filepath.Base(backupPath), "family_store_backup_")
	assert.True(t, strings.HasSuffix(backupPath, ".json"))

	original, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	copied, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, original, copied)
}

func TestStoreBackupWithoutDocument(t *testing.T) {
	store := tempStore(t)

	backupPath, err := store.Backup()
	require.NoError(t, err)
	assert.Empty(t, backupPath)
}
