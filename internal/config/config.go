package config

import (
	"fmt"
	"os"

	"github.com/vrischmann/envconfig"
	"github.com/workspace-migration/exportclient/internal/dbclient"
	exportErr "github.com/workspace-migration/exportclient/internal/error"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Client     dbclient.Config `yaml:"client"`
	Migration  Migration       `yaml:"migration"`
	ConfigFile string          `envconfig:"optional" yaml:"-"`
}

// Migration holds the account ids for rewriting an AWS export. Both are
// needed for the rewrite to run.
type Migration struct {
	OldAccountID string `envconfig:"optional" yaml:"old_account_id"`
	NewAccountID string `envconfig:"optional" yaml:"new_account_id"`
}

func (m Migration) Enabled() bool {
	return m.OldAccountID != "" && m.NewAccountID != ""
}

// Load reads the configuration from environment variables with the given
// prefix and, when ConfigFile is set, overlays the YAML file on top.
func Load(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.InitWithPrefix(&cfg, prefix); err != nil {
		return Config{}, fmt.Errorf("while reading %s environment: %w", prefix, err)
	}
	if cfg.ConfigFile != "" {
		if err := ReadFile(cfg.ConfigFile, &cfg); err != nil {
			return Config{}, err
		}
	}
	return cfg, cfg.Validate()
}

// ReadFile overlays values present in the YAML file on cfg.
func ReadFile(filename string, cfg *Config) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("while reading %s config file: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("while unmarshalling %s config file: %w", filename, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch {
	case c.Client.URL == "":
		return exportErr.NewConfigError("workspace url must be set")
	case c.Client.Token == "":
		return exportErr.NewConfigError("token must be set")
	case c.Client.ExportDir == "":
		return exportErr.NewConfigError("export dir must be set")
	case c.Migration.OldAccountID != "" && c.Migration.NewAccountID == "":
		return exportErr.NewConfigError("new account id must be set together with old account id")
	case c.Migration.NewAccountID != "" && c.Migration.OldAccountID == "":
		return exportErr.NewConfigError("old account id must be set together with new account id")
	}
	return nil
}
