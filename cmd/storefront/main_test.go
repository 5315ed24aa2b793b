package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"serve", "migrate", "populate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	populate, _, err := root.Find([]string{"populate"})
	require.NoError(t, err)
	assert.NotNil(t, populate.Flags().Lookup("file"))
}

func TestMigrateMemoryStore(t *testing.T) {
	t.Setenv("STOREFRONT_DATABASE.DRIVER", "memory")
	t.Setenv("STOREFRONT_AUTH.SECRET_KEY", "cli-secret")

	root := newRootCommand()
	root.SetArgs([]string{"migrate"})
	assert.NoError(t, root.Execute())
}

func TestPopulate(t *testing.T) {
	t.Setenv("STOREFRONT_DATABASE.DRIVER", "memory")
	t.Setenv("STOREFRONT_AUTH.SECRET_KEY", "cli-secret")

	root := newRootCommand()
	root.SetArgs([]string{"populate"})
	require.NoError(t, root.Execute())

	bad := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"name":"no price"}]`), 0o600))

	root = newRootCommand()
	root.SetArgs([]string{"populate", "--file", bad})
	assert.Error(t, root.Execute())

	root = newRootCommand()
	root.SetArgs([]string{"populate", "--file", filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, root.Execute())
}
