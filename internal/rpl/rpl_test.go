package rpl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, "games/alien.sc8.rpl", DefaultPath("games/alien.sc8"))
}

func TestStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.sc8.rpl")
	store := New(path)
	assert.Equal(t, path, store.Path())

	data, err := store.Load()
	assert.NoError(t, err)
	assert.Equal(t, make([]byte, Size), data)

	flags := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	assert.NoError(t, store.Save(flags))

	data, err = store.Load()
	assert.NoError(t, err)
	assert.Equal(t, flags, data)
}

func TestStoreLoadShortFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.rpl")
	assert.NoError(t, os.WriteFile(path, []byte{0xAA, 0xBB}, 0600))

	data, err := New(path).Load()
	assert.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0xBB, 0, 0, 0, 0, 0, 0}, data)
}

func TestStoreSaveError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "game.rpl")
	err := New(path).Save(make([]byte, Size))
	assert.ErrorContains(t, err, "writing flag file")
}
