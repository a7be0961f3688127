package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadOptions selects the files Load reads.
type LoadOptions struct {
	// ConfigFile is the YAML file to read. When empty, DefaultConfigFile
	// is read if it exists.
	ConfigFile string

	// EnvFile is the dotenv file to read. Missing files are ignored.
	EnvFile string
}

// Load builds the run configuration from the dotenv file, the YAML file and
// the environment. It does not validate; call Validate before connecting.
func Load(opts LoadOptions) (*Config, error) {
	if err := LoadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}

	cfg := &Config{}
	path, required := opts.ConfigFile, true
	if path == "" {
		path, required = DefaultConfigFile, false
	}

	if _, err := os.Stat(path); err == nil || required {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.applyDefaults()
	return cfg, nil
}

// LoadDotEnv sets variables from a dotenv file without overriding ones
// already present in the environment.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overrides cluster settings with non-empty environment values.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	for env, field := range map[string]*string{
		EnvHost:     &c.Cluster.Host,
		EnvPort:     &c.Cluster.Port,
		EnvUsername: &c.Cluster.Username,
		EnvPassword: &c.Cluster.Password,
	} {
		if v, ok := lookup(env); ok && v != "" {
			*field = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Terraform.ProviderSource == "" {
		c.Terraform.ProviderSource = DefaultProviderSource
	}
}
