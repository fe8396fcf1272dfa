package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	exportErr "github.com/workspace-migration/exportclient/internal/error"
)

func TestLoad(t *testing.T) {
	t.Run("should read environment with defaults", func(t *testing.T) {
		// given
		t.Setenv("APP_CLIENT_TOKEN", "dapi-token")
		t.Setenv("APP_CLIENT_URL", "https://workspace.cloud.example.com/")

		// when
		cfg, err := Load("APP")

		// then
		require.NoError(t, err)
		assert.Equal(t, "dapi-token", cfg.Client.Token)
		assert.Equal(t, "https://workspace.cloud.example.com/", cfg.Client.URL)
		assert.Equal(t, "logs/", cfg.Client.ExportDir)
		assert.True(t, cfg.Client.VerifySSL)
		assert.True(t, cfg.Client.IsAWS)
		assert.False(t, cfg.Client.Verbose)
		assert.False(t, cfg.Client.SkipFailed)
		assert.False(t, cfg.Migration.Enabled())
	})

	t.Run("should overlay config file", func(t *testing.T) {
		// given
		filename := filepath.Join(t.TempDir(), "migration.yaml")
		require.NoError(t, os.WriteFile(filename, []byte(`
client:
  url: https://target.cloud.example.com
  verify_ssl: false
migration:
  old_account_id: "111122223333"
  new_account_id: "444455556666"
`), 0644))
		t.Setenv("APP_CLIENT_TOKEN", "dapi-token")
		t.Setenv("APP_CONFIG_FILE", filename)

		// when
		cfg, err := Load("APP")

		// then
		require.NoError(t, err)
		assert.Equal(t, "dapi-token", cfg.Client.Token)
		assert.Equal(t, "https://target.cloud.example.com", cfg.Client.URL)
		assert.False(t, cfg.Client.VerifySSL)
		assert.Equal(t, "logs/", cfg.Client.ExportDir)
		assert.True(t, cfg.Migration.Enabled())
		assert.Equal(t, "111122223333", cfg.Migration.OldAccountID)
	})

	t.Run("should fail without url", func(t *testing.T) {
		// given
		t.Setenv("APP_CLIENT_TOKEN", "dapi-token")

		// when
		_, err := Load("APP")

		// then
		assert.EqualError(t, err, "workspace url must be set")
	})
}

func TestReadFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		// when
		err := ReadFile(filepath.Join(t.TempDir(), "nope.yaml"), &Config{})

		// then
		assert.ErrorContains(t, err, "while reading")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		// given
		filename := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(filename, []byte("client: [\n"), 0644))

		// when
		err := ReadFile(filename, &Config{})

		// then
		assert.ErrorContains(t, err, "while unmarshalling")
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		var cfg Config
		cfg.Client.URL = "https://workspace.cloud.example.com"
		cfg.Client.Token = "dapi-token"
		cfg.Client.ExportDir = "logs/"
		return cfg
	}

	for tn, tc := range map[string]struct {
		modify      func(*Config)
		expectedErr string
	}{
		"valid":            {modify: func(*Config) {}},
		"no token":         {modify: func(c *Config) { c.Client.Token = "" }, expectedErr: "token must be set"},
		"no export dir":    {modify: func(c *Config) { c.Client.ExportDir = "" }, expectedErr: "export dir must be set"},
		"only old account": {modify: func(c *Config) { c.Migration.OldAccountID = "1" }, expectedErr: "new account id must be set together with old account id"},
		"only new account": {modify: func(c *Config) { c.Migration.NewAccountID = "2" }, expectedErr: "old account id must be set together with new account id"},
		"both accounts":    {modify: func(c *Config) { c.Migration.OldAccountID, c.Migration.NewAccountID = "1", "2" }},
	} {
		t.Run(tn, func(t *testing.T) {
			// given
			cfg := valid()
			tc.modify(&cfg)

			// when
			err := cfg.Validate()

			// then
			if tc.expectedErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.expectedErr)
				assert.True(t, exportErr.IsConfigError(err))
			}
		})
	}
}
