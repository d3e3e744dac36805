package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_indexes.sql", "001_init.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	names, err := listMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_indexes.sql"}, names)
}

func TestListMigrations_RepositoryMigrations(t *testing.T) {
	names, err := listMigrations("../../migrations")
	require.NoError(t, err)
	assert.Contains(t, names, "001_jobs_workers.sql")
}

func TestListMigrations_MissingDir(t *testing.T) {
	_, err := listMigrations(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
