package accounts_test

import (
	"io/fs"
	"strings"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsCoverEveryTable(t *testing.T) {
	migrations := accounts.GetMigrationsFS()

	var up []byte
	err := fs.WalkDir(migrations, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".up.sql") {
			up, err = fs.ReadFile(migrations, path)
			return err
		}
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, up)

	schema := string(up)
	for _, table := range []string{
		"users",
		"user_types",
		"users_user_types",
		"donations",
		"verification_tokens",
		"password_reset_tokens",
	} {
		assert.Contains(t, schema, table)
	}
}
