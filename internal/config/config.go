// Package config loads Opsboard configuration from file, environment,
// and command-line flags.
package config

import (
	"fmt"
	"strings"
)

// Config is the resolved server configuration.
type Config struct {
	// Port the HTTP server listens on.
	Port int `koanf:"port"`

	// UIPrefix is the namespace the console bundle is served under.
	UIPrefix string `koanf:"ui_prefix"`

	// APIPrefix is the route namespace that must never receive SPA
	// fallback.
	APIPrefix string `koanf:"api_prefix"`

	// UIDir overrides the on-disk bundle location in dev builds.
	UIDir string `koanf:"ui_dir"`

	// DatabaseURL is the Postgres connection string for the admin user
	// store. Empty disables the database-backed API routes.
	DatabaseURL string `koanf:"database_url"`

	// UploadsDir is where the local object store keeps uploaded files.
	UploadsDir string `koanf:"uploads_dir"`

	// SessionSecret signs the admin session cookie.
	SessionSecret string `koanf:"session_secret"`

	// AdminToken is the shared secret exchanged for a session. Empty
	// disables the session gate (local development).
	AdminToken string `koanf:"admin_token"`

	// ProxyAllowHosts is the set of hosts the image proxy may fetch
	// from.
	ProxyAllowHosts []string `koanf:"proxy_allow_hosts"`

	Verbose bool `koanf:"verbose"`
}

// Validate checks the configuration for contradictions that would
// otherwise surface as confusing routing behavior.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	for name, p := range map[string]string{"ui_prefix": c.UIPrefix, "api_prefix": c.APIPrefix} {
		if !strings.HasPrefix(p, "/") || p == "/" {
			return fmt.Errorf("%s must be a non-root path starting with /, got %q", name, p)
		}
		if strings.HasSuffix(p, "/") {
			return fmt.Errorf("%s must not end with /, got %q", name, p)
		}
	}
	if c.UIPrefix == c.APIPrefix {
		return fmt.Errorf("ui_prefix and api_prefix must differ, both are %q", c.UIPrefix)
	}
	return nil
}
