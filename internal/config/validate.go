package config

import (
	"fmt"
	"net/url"
	"strconv"
)

// MissingSettingError reports a required cluster setting that is not set.
type MissingSettingError struct {
	EnvVar string
	What   string
}

func (e *MissingSettingError) Error() string {
	return fmt.Sprintf("%s not configured, please set %s environment variable", e.What, e.EnvVar)
}

// Validate checks the cluster settings in the order host, port, username,
// password and returns a *MissingSettingError for the first one missing.
func (c *Config) Validate() error {
	required := []struct {
		value string
		err   MissingSettingError
	}{
		{c.Cluster.Host, MissingSettingError{EnvVar: EnvHost, What: "Cluster host"}},
		{c.Cluster.Port, MissingSettingError{EnvVar: EnvPort, What: "Cluster port"}},
		{c.Cluster.Username, MissingSettingError{EnvVar: EnvUsername, What: "Username"}},
		{c.Cluster.Password, MissingSettingError{EnvVar: EnvPassword, What: "Password"}},
	}
	for _, r := range required {
		if r.value == "" {
			err := r.err
			return &err
		}
	}

	if port, err := strconv.Atoi(c.Cluster.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid cluster port %q: must be a number between 1 and 65535", c.Cluster.Port)
	}

	if err := c.validateUpload(); err != nil {
		return fmt.Errorf("upload validation failed: %w", err)
	}

	return nil
}

func (c *Config) validateUpload() error {
	if c.Upload.URL == "" {
		return nil
	}
	u, err := url.Parse(c.Upload.URL)
	if err != nil {
		return fmt.Errorf("invalid upload url %q: %w", c.Upload.URL, err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return fmt.Errorf("invalid upload url %q: must be s3://bucket[/prefix]", c.Upload.URL)
	}
	return nil
}
