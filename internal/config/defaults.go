package config

// Default configuration values.
const (
	DefaultPort       = 8330
	DefaultUIPrefix   = "/admin"
	DefaultAPIPrefix  = "/api"
	DefaultUploadsDir = "uploads"
)

// Config file names searched in the working directory.
const (
	ConfigFileName    = "opsboard.yaml"
	ConfigFileNameAlt = "opsboard.yml"
)
