package config

import "time"

// Config is the root configuration structure for trackerctl.
// It is built once at process start and passed explicitly to every tool.
type Config struct {
	// SSH contains the remote shell credentials for the application host.
	SSH SSHConfig `yaml:"ssh"`

	// FTP contains the file-transfer credentials for the application host.
	FTP FTPConfig `yaml:"ftp"`

	// Git contains the local repository settings used by the release step.
	Git GitConfig `yaml:"git"`

	// Deploy contains the remote update sequence settings.
	Deploy DeployConfig `yaml:"deploy"`

	// Tracker contains the status and request endpoint settings.
	Tracker TrackerConfig `yaml:"tracker"`

	// Logs contains the log fetcher paths.
	Logs LogsConfig `yaml:"logs"`

	// Tmp contains the temp-file fetcher paths.
	Tmp TmpConfig `yaml:"tmp"`

	// Export contains the document export settings.
	Export ExportConfig `yaml:"export"`

	// Telemetry contains logging and metrics settings.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// SSHConfig contains configuration for the remote shell connection.
type SSHConfig struct {
	// Hostname is the remote host, optionally with a port ("host" or "host:port").
	// Env: SSH_HOSTNAME
	Hostname string `yaml:"hostname"`

	// Port is used when Hostname carries no port.
	// Env: SSH_PORT. Default: 22
	Port int `yaml:"port"`

	// Username is the login user.
	// Env: SSH_USERNAME
	Username string `yaml:"username"`

	// Password enables password and keyboard-interactive authentication.
	// Env: SSH_PASSWORD
	Password string `yaml:"password"`

	// KeyPath enables public key authentication.
	// Env: SSH_KEY_PATH
	KeyPath string `yaml:"key_path"`

	// KeyPassphrase decrypts KeyPath when the key is encrypted.
	// Env: SSH_KEY_PASSPHRASE
	KeyPassphrase string `yaml:"key_passphrase"`

	// KnownHostsPath is the known_hosts file used to verify the host key.
	// Env: SSH_KNOWN_HOSTS. Default: ~/.ssh/known_hosts
	KnownHostsPath string `yaml:"known_hosts"`

	// InsecureIgnoreHostKey accepts any host key.
	// Env: SSH_INSECURE_IGNORE_HOST_KEY. Default: false
	InsecureIgnoreHostKey bool `yaml:"insecure_ignore_host_key"`

	// Timeout bounds the TCP dial and handshake. Zero means no timeout.
	// Env: SSH_TIMEOUT. Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// FTPConfig contains configuration for the file-transfer connection.
type FTPConfig struct {
	// Hostname is the FTP host, optionally with a port.
	// Env: FTP_HOSTNAME
	Hostname string `yaml:"hostname"`

	// Port is used when Hostname carries no port.
	// Env: FTP_PORT. Default: 21
	Port int `yaml:"port"`

	// Username is the login user.
	// Env: FTP_USERNAME
	Username string `yaml:"username"`

	// Password is the login password.
	// Env: FTP_PASSWORD
	Password string `yaml:"password"`

	// Timeout bounds the dial. Zero means no timeout.
	// Env: FTP_TIMEOUT. Default: 30s
	Timeout time.Duration `yaml:"timeout"`
}

// GitConfig contains configuration for the local release step.
type GitConfig struct {
	// RepoPath is the local working copy.
	// Env: GIT_REPO_PATH. Default: "."
	RepoPath string `yaml:"repo_path"`

	// MainBranch is the development branch.
	// Env: GIT_MAIN_BRANCH. Default: "main"
	MainBranch string `yaml:"main_branch"`

	// StableBranch is fast-forwarded to MainBranch and pushed.
	// Env: GIT_STABLE_BRANCH. Default: "stable"
	StableBranch string `yaml:"stable_branch"`

	// Remote is the push target.
	// Env: GIT_REMOTE. Default: "origin"
	Remote string `yaml:"remote"`

	// Auth configures push authentication.
	Auth GitAuthConfig `yaml:"auth"`
}

// GitAuthConfig contains Git authentication configuration.
type GitAuthConfig struct {
	// Type is the authentication type: "token", "ssh", or "none".
	// Env: GIT_AUTH_TYPE. Default: "none"
	Type string `yaml:"type"`

	// Token is the personal access token for HTTPS pushes.
	// Env: GIT_TOKEN
	Token string `yaml:"token"`

	// SSHKeyPath is the private key for SSH pushes.
	// Env: GIT_SSH_KEY_PATH
	SSHKeyPath string `yaml:"ssh_key_path"`

	// SSHKeyPassphrase decrypts SSHKeyPath.
	// Env: GIT_SSH_KEY_PASSPHRASE
	SSHKeyPassphrase string `yaml:"ssh_key_passphrase"`
}

// DeployConfig contains the remote update sequence settings.
type DeployConfig struct {
	// RepositoryURL is pulled on the remote host.
	// Env: GITHUB_URL
	RepositoryURL string `yaml:"repository_url"`

	// AppDir is the remote application directory.
	// Env: DEPLOY_APP_DIR. Default: "results_tracker"
	AppDir string `yaml:"app_dir"`

	// RestartCommand restarts the remote process.
	// Env: DEPLOY_RESTART_COMMAND. Default: "nodecli restart"
	RestartCommand string `yaml:"restart_command"`

	// StatusDelay is the wait between the remote session exit and the status check.
	// Zero checks immediately.
	// Env: DEPLOY_STATUS_DELAY. Default: 5s
	StatusDelay time.Duration `yaml:"status_delay"`
}

// TrackerConfig contains configuration for the tracker HTTP endpoints.
type TrackerConfig struct {
	// URL is the status endpoint and the base for request paths.
	// Env: TRACKER_URL
	URL string `yaml:"url"`

	// Timeout bounds each request. Zero leaves the client default (none).
	// Env: HTTP_TIMEOUT. Default: 0
	Timeout time.Duration `yaml:"timeout"`
}

// LogsConfig contains configuration for the log fetcher.
type LogsConfig struct {
	// NodeLogsPath is prefixed to "<date>.log" to build the remote node log path.
	// Env: NODE_LOGS_PATH
	NodeLogsPath string `yaml:"node_logs_path"`

	// PassengerLogPath is the source copied to passenger.log before the download.
	// Env: PASSENGER_LOG_PATH
	PassengerLogPath string `yaml:"passenger_log_path"`

	// LocalDir receives the downloaded logs.
	// Env: LOGS_DIR. Default: "logs"
	LocalDir string `yaml:"local_dir"`
}

// TmpConfig contains configuration for the temp-file fetcher.
type TmpConfig struct {
	// RemotePath is the remote directory to mirror.
	// Env: FTP_TMP_PATH
	RemotePath string `yaml:"remote_path"`

	// LocalDir receives the downloaded files.
	// Env: TMP_DIR. Default: "tmp"
	LocalDir string `yaml:"local_dir"`
}

// ExportConfig contains configuration for the document export tool.
type ExportConfig struct {
	// CredentialsFile is the service-account JSON file.
	// Env: FIREBASE_CREDENTIALS. Default: "../firebase-service-account.json"
	CredentialsFile string `yaml:"credentials_file"`

	// ProjectID overrides the project detected from the credentials.
	// Env: FIREBASE_PROJECT_ID
	ProjectID string `yaml:"project_id"`

	// OutputDir receives "<collection>.json".
	// Env: EXPORT_DIR. Default: "exported"
	OutputDir string `yaml:"output_dir"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures the diagnostic logger.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures run metrics.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configures span export.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains configuration for diagnostic logging.
type LoggingConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	// Env: TRACKERCTL_LOG_LEVEL. Default: "warn"
	Level string `yaml:"level"`

	// Format is "text" or "json".
	// Env: TRACKERCTL_LOG_FORMAT. Default: "text"
	Format string `yaml:"format"`

	// RedactSecrets masks password and token attributes.
	// Default: true
	RedactSecrets bool `yaml:"redact_secrets"`
}

// MetricsConfig contains configuration for run metrics.
type MetricsConfig struct {
	// Namespace prefixes every metric name.
	// Default: "trackerctl"
	Namespace string `yaml:"namespace"`

	// TextfilePath receives the metrics in text exposition format at exit.
	// Empty disables the export.
	// Env: TRACKERCTL_METRICS_FILE
	TextfilePath string `yaml:"textfile_path"`
}

// TracingConfig contains configuration for trace export.
type TracingConfig struct {
	// Enabled turns span export on. Setting an endpoint through the
	// environment enables it as well.
	// Env: TRACKERCTL_TRACING_ENABLED. Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector ("host:port").
	// Env: OTEL_EXPORTER_OTLP_ENDPOINT
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS towards the collector.
	// Env: OTEL_EXPORTER_OTLP_INSECURE. Default: false
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export call and the final flush.
	// Zero leaves exports unbounded and the flush at the default.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// Sampler is "always", "never" or "ratio".
	// Env: TRACKERCTL_TRACING_SAMPLER. Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the sampled fraction when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is the service.name resource attribute.
	// Default: "trackerctl"
	ServiceName string `yaml:"service_name"`
}
