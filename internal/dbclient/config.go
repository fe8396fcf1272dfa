package dbclient

type Config struct {
	Token      string `envconfig:"optional" yaml:"token"`
	URL        string `envconfig:"optional" yaml:"url"`
	ExportDir  string `envconfig:"default=logs/" yaml:"export_dir"`
	IsAWS      bool   `envconfig:"default=true" yaml:"is_aws"`
	SkipFailed bool   `envconfig:"default=false" yaml:"skip_failed"`
	Verbose    bool   `envconfig:"default=false" yaml:"verbose"`
	VerifySSL  bool   `envconfig:"default=true" yaml:"verify_ssl"`
}
