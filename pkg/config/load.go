package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is the YAML file read when no --config flag is given.
const DefaultConfigPath = "trackerctl.yaml"

// DefaultEnvFile is the dotenv file read when no --env-file flag is given.
const DefaultEnvFile = ".env"

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigPath is the YAML file. Empty means DefaultConfigPath.
	ConfigPath string

	// ConfigRequired makes a missing ConfigPath an error.
	// A missing default file is silently skipped.
	ConfigRequired bool

	// EnvFile is the dotenv file. Empty means DefaultEnvFile.
	EnvFile string

	// EnvFileRequired makes a missing EnvFile an error.
	EnvFileRequired bool
}

// Load builds the process configuration.
//
// The loading sequence is:
// 1. Default values
// 2. YAML file (optional unless ConfigRequired)
// 3. Dotenv file (optional unless EnvFileRequired); it never replaces
// variables already present in the process environment
// 4. Environment variable overrides
// 5. Empty names, paths and ports fall back to their defaults
// 6. Validate
//
// Presence of tool-specific settings is checked separately by Require.
func Load(opts LoadOptions) (*Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := NewDefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !opts.ConfigRequired:
		// no file, defaults and environment only
	default:
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	if err := loadEnvFile(opts.EnvFile, opts.EnvFileRequired); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvFile exports the dotenv file into the process environment.
func loadEnvFile(path string, required bool) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Variable names match the ones the operator already keeps in .env.
func applyEnvOverrides(cfg *Config) {
	// SSH overrides
	envString("SSH_HOSTNAME", &cfg.SSH.Hostname)
	envInt("SSH_PORT", &cfg.SSH.Port)
	envString("SSH_USERNAME", &cfg.SSH.Username)
	envString("SSH_PASSWORD", &cfg.SSH.Password)
	envString("SSH_KEY_PATH", &cfg.SSH.KeyPath)
	envString("SSH_KEY_PASSPHRASE", &cfg.SSH.KeyPassphrase)
	envString("SSH_KNOWN_HOSTS", &cfg.SSH.KnownHostsPath)
	envBool("SSH_INSECURE_IGNORE_HOST_KEY", &cfg.SSH.InsecureIgnoreHostKey)
	envDuration("SSH_TIMEOUT", &cfg.SSH.Timeout)

	// FTP overrides
	envString("FTP_HOSTNAME", &cfg.FTP.Hostname)
	envInt("FTP_PORT", &cfg.FTP.Port)
	envString("FTP_USERNAME", &cfg.FTP.Username)
	envString("FTP_PASSWORD", &cfg.FTP.Password)
	envDuration("FTP_TIMEOUT", &cfg.FTP.Timeout)

	// Git overrides
	envString("GIT_REPO_PATH", &cfg.Git.RepoPath)
	envString("GIT_MAIN_BRANCH", &cfg.Git.MainBranch)
	envString("GIT_STABLE_BRANCH", &cfg.Git.StableBranch)
	envString("GIT_REMOTE", &cfg.Git.Remote)
	envString("GIT_AUTH_TYPE", &cfg.Git.Auth.Type)
	envString("GIT_TOKEN", &cfg.Git.Auth.Token)
	envString("GIT_SSH_KEY_PATH", &cfg.Git.Auth.SSHKeyPath)
	envString("GIT_SSH_KEY_PASSPHRASE", &cfg.Git.Auth.SSHKeyPassphrase)

	// Deploy overrides
	envString("GITHUB_URL", &cfg.Deploy.RepositoryURL)
	envString("DEPLOY_APP_DIR", &cfg.Deploy.AppDir)
	envString("DEPLOY_RESTART_COMMAND", &cfg.Deploy.RestartCommand)
	envDuration("DEPLOY_STATUS_DELAY", &cfg.Deploy.StatusDelay)

	// Tracker overrides
	envString("TRACKER_URL", &cfg.Tracker.URL)
	envDuration("HTTP_TIMEOUT", &cfg.Tracker.Timeout)

	// Local paths
	envString("NODE_LOGS_PATH", &cfg.Logs.NodeLogsPath)
	envString("PASSENGER_LOG_PATH", &cfg.Logs.PassengerLogPath)
	envString("LOGS_DIR", &cfg.Logs.LocalDir)
	envString("FTP_TMP_PATH", &cfg.Tmp.RemotePath)
	envString("TMP_DIR", &cfg.Tmp.LocalDir)

	// Export overrides
	envString("FIREBASE_CREDENTIALS", &cfg.Export.CredentialsFile)
	envString("FIREBASE_PROJECT_ID", &cfg.Export.ProjectID)
	envString("EXPORT_DIR", &cfg.Export.OutputDir)

	// Telemetry overrides
	envString("TRACKERCTL_LOG_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("TRACKERCTL_LOG_FORMAT", &cfg.Telemetry.Logging.Format)
	envString("TRACKERCTL_METRICS_FILE", &cfg.Telemetry.Metrics.TextfilePath)
	envBool("TRACKERCTL_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("TRACKERCTL_TRACING_SAMPLER", &cfg.Telemetry.Tracing.Sampler)
	envBool("OTEL_EXPORTER_OTLP_INSECURE", &cfg.Telemetry.Tracing.Insecure)
	if val := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); val != "" {
		cfg.Telemetry.Tracing.Endpoint = val
		cfg.Telemetry.Tracing.Enabled = true
	}
}

func envString(name string, dst *string) {
	if val := os.Getenv(name); val != "" {
		*dst = val
	}
}

// Unparseable numbers and durations are stored as -1 so Validate reports them.
func envInt(name string, dst *int) {
	if val := os.Getenv(name); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			i = -1
		}
		*dst = i
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(name); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			d = -1
		}
		*dst = d
	}
}
