package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/docsense/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalStore_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "uploads")

	_, err := storage.NewLocalStore(base)
	require.NoError(t, err)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSave_WritesFileNamedAfterJob(t *testing.T) {
	base := t.TempDir()
	store, err := storage.NewLocalStore(base)
	require.NoError(t, err)

	jobID := uuid.New()
	path, err := store.Save(jobID, ".txt", strings.NewReader("document body"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, jobID.String()+".txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "document body", string(data))
}

func TestSave_OverwritesExisting(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	jobID := uuid.New()
	_, err = store.Save(jobID, ".txt", strings.NewReader("first"))
	require.NoError(t, err)
	path, err := store.Save(jobID, ".txt", strings.NewReader("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}
