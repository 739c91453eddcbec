package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationFilesOrdersSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_b.sql", "001_a.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o700))

	files, err := MigrationFiles(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"001_a.sql", "002_b.sql"}, files)
}

func TestMigrationFilesMissingDir(t *testing.T) {
	_, err := MigrationFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestRepositoryMigrationsPresent(t *testing.T) {
	files, err := MigrationFiles(filepath.Join("..", "..", "migrations"))
	require.NoError(t, err)
	require.Equal(t, []string{"001_create_agents.sql", "002_create_agent_status_history.sql"}, files)
}
