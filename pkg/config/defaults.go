package config

import "time"

// Default values for configuration fields.
const (
	// SSH defaults
	DefaultSSHPort    = 22
	DefaultSSHTimeout = 30 * time.Second

	// FTP defaults
	DefaultFTPPort    = 21
	DefaultFTPTimeout = 30 * time.Second

	// Git defaults
	DefaultGitRepoPath     = "."
	DefaultGitMainBranch   = "main"
	DefaultGitStableBranch = "stable"
	DefaultGitRemote       = "origin"
	DefaultGitAuthType     = "none"

	// Deploy defaults
	DefaultDeployAppDir         = "results_tracker"
	DefaultDeployRestartCommand = "nodecli restart"
	DefaultDeployStatusDelay    = 5 * time.Second

	// Local output directories
	DefaultLogsDir   = "logs"
	DefaultTmpDir    = "tmp"
	DefaultExportDir = "exported"

	// Export defaults
	DefaultCredentialsFile = "../firebase-service-account.json"

	// Telemetry defaults
	DefaultLogLevel         = "warn"
	DefaultLogFormat        = "text"
	DefaultMetricsNamespace = "trackerctl"
	DefaultTracingSampler   = "always"
	DefaultTracingTimeout   = 10 * time.Second
	DefaultServiceName      = "trackerctl"
)

// NewDefaultConfig returns a configuration with every default applied.
// Load decodes the YAML file over it, so durations and ratios the file
// or environment set to zero stay zero.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	cfg.SSH.Timeout = DefaultSSHTimeout
	cfg.FTP.Timeout = DefaultFTPTimeout
	cfg.Deploy.StatusDelay = DefaultDeployStatusDelay
	cfg.Telemetry.Logging.RedactSecrets = true
	cfg.Telemetry.Tracing.SampleRatio = 1.0
	cfg.Telemetry.Tracing.Timeout = DefaultTracingTimeout
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills empty names, paths and ports with their defaults.
// Fields that are already set are left unchanged. Durations and ratios
// are not touched because zero is a valid setting for them.
func ApplyDefaults(cfg *Config) {
	applySSHDefaults(&cfg.SSH)
	applyFTPDefaults(&cfg.FTP)
	applyGitDefaults(&cfg.Git)
	applyDeployDefaults(&cfg.Deploy)

	if cfg.Logs.LocalDir == "" {
		cfg.Logs.LocalDir = DefaultLogsDir
	}
	if cfg.Tmp.LocalDir == "" {
		cfg.Tmp.LocalDir = DefaultTmpDir
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = DefaultExportDir
	}
	if cfg.Export.CredentialsFile == "" {
		cfg.Export.CredentialsFile = DefaultCredentialsFile
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applySSHDefaults(cfg *SSHConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultSSHPort
	}
}

func applyFTPDefaults(cfg *FTPConfig) {
	if cfg.Port == 0 {
		cfg.Port = DefaultFTPPort
	}
}

func applyGitDefaults(cfg *GitConfig) {
	if cfg.RepoPath == "" {
		cfg.RepoPath = DefaultGitRepoPath
	}
	if cfg.MainBranch == "" {
		cfg.MainBranch = DefaultGitMainBranch
	}
	if cfg.StableBranch == "" {
		cfg.StableBranch = DefaultGitStableBranch
	}
	if cfg.Remote == "" {
		cfg.Remote = DefaultGitRemote
	}
	if cfg.Auth.Type == "" {
		cfg.Auth.Type = DefaultGitAuthType
	}
}

func applyDeployDefaults(cfg *DeployConfig) {
	if cfg.AppDir == "" {
		cfg.AppDir = DefaultDeployAppDir
	}
	if cfg.RestartCommand == "" {
		cfg.RestartCommand = DefaultDeployRestartCommand
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultServiceName
	}
}
