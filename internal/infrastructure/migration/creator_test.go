package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("creates an up and down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "add loans table")

		require.NoError(t, err)
		assert.FileExists(t, mf.UpPath)
		assert.FileExists(t, mf.DownPath)
		assert.Contains(t, filepath.Base(mf.UpPath), "add_loans_table.up.sql")
		assert.Contains(t, filepath.Base(mf.DownPath), "add_loans_table.down.sql")
	})

	t.Run("creates the directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "migrations")

		_, err := CreateMigration(dir, "init")

		require.NoError(t, err)
		_, err = os.Stat(dir)
		assert.NoError(t, err)
	})
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "AddUsers", "addusers"},
		{"spaces become underscores", "add users table", "add_users_table"},
		{"collapses runs of separators", "add -- users", "add_users"},
		{"drops special characters", "add!users?", "addusers"},
		{"trims trailing separator", "add users ", "add_users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestListMigrations(t *testing.T) {
	t.Run("missing directory yields empty list", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(t.TempDir(), "nope"))

		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("lists only up migrations once", func(t *testing.T) {
		dir := t.TempDir()
		for _, name := range []string{
			"001_init.up.sql", "001_init.down.sql",
			"002_add_loans.up.sql", "002_add_loans.down.sql",
			"notes.txt",
		} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
		}

		migrations, err := ListMigrations(dir)

		require.NoError(t, err)
		assert.Equal(t, []string{"001_init", "002_add_loans"}, migrations)
	})
}
