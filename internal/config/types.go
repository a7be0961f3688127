package config

// Environment variables read for the cluster connection.
const (
	EnvHost     = "QUMULO_HOST"
	EnvPort     = "QUMULO_PORT"
	EnvUsername = "QUMULO_USERNAME"
	EnvPassword = "QUMULO_PASSWORD"
)

// Defaults.
const (
	DefaultProviderSource = "qumulo.com/terraform-intern/qumulo"
	DefaultConfigFile     = "qumulo-import.yaml"
	DefaultEnvFile        = ".env"
)

// Config is the full configuration of a run.
type Config struct {
	Cluster   ClusterConfig   `mapstructure:"cluster" yaml:"cluster"`
	Features  []string        `mapstructure:"features" yaml:"features"`
	Terraform TerraformConfig `mapstructure:"terraform" yaml:"terraform"`
	Upload    UploadConfig    `mapstructure:"upload" yaml:"upload"`
}

// ClusterConfig holds the management API connection settings.
type ClusterConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	// InsecureSkipVerify defaults to true; clusters ship self-signed certificates.
	InsecureSkipVerify *bool `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// SkipTLSVerify reports the effective InsecureSkipVerify value.
func (c ClusterConfig) SkipTLSVerify() bool {
	return c.InsecureSkipVerify == nil || *c.InsecureSkipVerify
}

// TerraformConfig controls the generated configuration and the terraform binary.
type TerraformConfig struct {
	ProviderSource string `mapstructure:"provider_source" yaml:"provider_source"`

	// Binary is the terraform executable. Empty means look it up on PATH.
	Binary string `mapstructure:"binary" yaml:"binary"`
}

// UploadConfig describes where run artifacts are copied after an import.
type UploadConfig struct {
	// URL is s3://bucket[/prefix]. Empty disables the upload.
	URL       string `mapstructure:"url" yaml:"url"`
	Endpoint  string `mapstructure:"endpoint" yaml:"endpoint"`
	Region    string `mapstructure:"region" yaml:"region"`
	PathStyle bool   `mapstructure:"path_style" yaml:"path_style"`
}
