package jest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields zero config", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFileName))
		require.NoError(t, err)
		assert.Nil(t, cfg.Command)
		assert.Empty(t, cfg.Root)
	})

	t.Run("reads yaml fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ConfigFileName)
		content := "jestCommand: npx jest\nroot: /srv/app\nexclude:\n  - fixtures\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "npx jest", cfg.Command.Command())
		assert.Equal(t, "/srv/app", cfg.Root)
		assert.Equal(t, []string{"fixtures"}, cfg.Exclude)
	})

	t.Run("malformed yaml is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ConfigFileName)
		require.NoError(t, os.WriteFile(path, []byte(":\n\t- broken"), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})

	t.Run("environment overrides the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ConfigFileName)
		require.NoError(t, os.WriteFile(path, []byte("jestCommand: npx jest\n"), 0o644))
		t.Setenv(CommandEnv, "yarn jest")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "yarn jest", cfg.Command.Command())
	})
}
