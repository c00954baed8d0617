package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "uploads"), "uploads")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "tutors/a.png", strings.NewReader("png")))

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "tutors", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "/uploads/tutors/a.png", store.URL("tutors/a.png"))

	require.NoError(t, store.Delete(ctx, "tutors/a.png"))
	require.NoError(t, store.Delete(ctx, "tutors/a.png"))

	_, err = os.Stat(filepath.Join(dir, "uploads", "tutors", "a.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "uploads"), "/uploads/")
	require.NoError(t, err)

	require.NoError(t, store.Save(context.Background(), "../../escape.txt", strings.NewReader("x")))

	_, err = os.Stat(filepath.Join(dir, "uploads", "escape.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, store.Save(context.Background(), "/", strings.NewReader("x")))
}
