package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// sampleConfigTemplate is the annotated configuration file written by
// `coverkeep init`. The %s placeholder receives a generated JWT secret.
const sampleConfigTemplate = `# CoverKeep Configuration File
#
# All settings can be overridden with environment variables using the
# COVERKEEP_ prefix and underscores for nested keys, e.g.:
#   COVERKEEP_LOGGING_LEVEL=DEBUG
#   COVERKEEP_API_PORT=9090

logging:
  # Minimum log level: DEBUG, INFO, WARN, ERROR
  level: INFO
  # Output format: text or json
  format: text
  # Destination: stdout, stderr, or a file path
  output: stdout

# Graceful shutdown timeout (default: 30s)
# shutdown_timeout: 30s

database:
  # sqlite (single node) or postgres
  type: sqlite
  sqlite:
    # Defaults to $XDG_CONFIG_HOME/coverkeep/coverkeep.db when empty
    path: ""
  # postgres:
  #   host: localhost
  #   port: 5432
  #   database: coverkeep
  #   user: coverkeep
  #   password: ""
  #   ssl_mode: disable

media:
  # S3-compatible bucket for warranty receipt and product images
  bucket: ""
  region: us-east-1
  # Base URL under which uploaded objects are publicly reachable
  public_base_url: ""
  # Custom endpoint for MinIO / LocalStack (leave empty for AWS)
  endpoint: ""
  force_path_style: false
  # Largest accepted upload (supports human-readable sizes)
  max_file_size: 10Mi

api:
  port: 8080
  jwt:
    # Development secret generated by 'coverkeep init'.
    # For production, set COVERKEEP_API_SECRET instead.
    secret: "%s"
    # access_token_duration: 15m
    # refresh_token_duration: 168h

telemetry:
  # OpenTelemetry tracing (exports to an OTLP gRPC collector)
  enabled: false
  endpoint: localhost:4317
  insecure: true
  sample_rate: 1.0

metrics:
  # Prometheus metrics served on /metrics when enabled
  enabled: false
`

// InitConfig creates a sample configuration file at the default location.
// Returns the path of the created file.
func InitConfig(force bool) (string, error) {
	configPath := GetDefaultConfigPath()
	if err := InitConfigToPath(configPath, force); err != nil {
		return "", err
	}
	return configPath, nil
}

// InitConfigToPath creates a sample configuration file at the given path.
func InitConfigToPath(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	secret, err := generateRandomSecret()
	if err != nil {
		return fmt.Errorf("failed to generate JWT secret: %w", err)
	}

	content := fmt.Sprintf(sampleConfigTemplate, secret)

	// 0600: the file contains the generated JWT secret
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// generateRandomSecret returns a 64-character hex string (32 bytes of entropy),
// suitable as an HS256 signing key.
func generateRandomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
