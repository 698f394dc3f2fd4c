package storage_test

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-merit/internal/storage"
)

func TestFSStore_PutGet(t *testing.T) {
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	key, err := bs.Put("datasets/2025.json", strings.NewReader(`{"version":"2025"}`))
	require.NoError(t, err)
	assert.Equal(t, "datasets/2025.json", key)

	rc, err := bs.Get(key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":"2025"}`, string(b))
}

func TestFSStore_StaysInBase(t *testing.T) {
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	key, err := bs.Put("../escape.json", strings.NewReader("{}"))
	require.NoError(t, err)
	assert.Equal(t, "escape.json", key, "keys are rooted at the base directory")

	_, err = bs.Get("")
	assert.Error(t, err)
}

func TestFSStore_List(t *testing.T) {
	bs, err := storage.NewFSStore(t.TempDir())
	require.NoError(t, err)

	keys, err := bs.List("datasets")
	require.NoError(t, err)
	assert.Empty(t, keys)

	for _, k := range []string{"datasets/b.json", "datasets/a.json", "other/c.json"} {
		_, err := bs.Put(k, strings.NewReader("{}"))
		require.NoError(t, err)
	}
	keys, err = bs.List("datasets")
	require.NoError(t, err)
	assert.Equal(t, []string{"datasets/a.json", "datasets/b.json"}, keys)

	all, err := bs.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
