package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir, "/uploads/")
	require.NoError(t, err)

	ref, err := s.Save(context.Background(), "abc", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/abc.png", ref)

	data, err := os.ReadFile(filepath.Join(dir, "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	require.NoError(t, s.Delete(context.Background(), ref))
	_, err = os.Stat(filepath.Join(dir, "abc.png"))
	assert.True(t, os.IsNotExist(err))

	// deleting twice is fine
	assert.NoError(t, s.Delete(context.Background(), ref))
}

func TestLocalStoreRejectsPathIds(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "../escape", []byte("x"), "image/png")
	assert.Error(t, err)
}

func TestLocalStoreJpegExtension(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	ref, err := s.Save(context.Background(), "j", []byte("x"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/j.jpg", ref)
}
