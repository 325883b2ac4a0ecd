package config

import (
	"fmt"
	"strings"
)

// Tool identifies which operator tool a configuration is checked for.
type Tool string

const (
	ToolDeploy        Tool = "deploy"
	ToolLogsNode      Tool = "logs node"
	ToolLogsPassenger Tool = "logs passenger"
	ToolTmp           Tool = "tmp"
	ToolExport        Tool = "export"
	ToolRequest       Tool = "request"
)

// MissingError reports every required setting that is absent for a tool.
type MissingError struct {
	Tool Tool

	// Vars are the environment variable names, in check order.
	Vars []string
}

func (e *MissingError) Error() string {
	noun := "variable"
	if len(e.Vars) > 1 {
		noun = "variables"
	}
	return fmt.Sprintf("%s: missing required environment %s: %s", e.Tool, noun, strings.Join(e.Vars, ", "))
}

type requirement struct {
	env     string
	present func(*Config) bool
}

func has(get func(*Config) string) func(*Config) bool {
	return func(c *Config) bool { return strings.TrimSpace(get(c)) != "" }
}

var (
	reqSSH = []requirement{
		{"SSH_HOSTNAME", has(func(c *Config) string { return c.SSH.Hostname })},
		{"SSH_USERNAME", has(func(c *Config) string { return c.SSH.Username })},
		// a key file stands in for the password
		{"SSH_PASSWORD", func(c *Config) bool { return c.SSH.Password != "" || c.SSH.KeyPath != "" }},
	}
	reqFTP = []requirement{
		{"FTP_HOSTNAME", has(func(c *Config) string { return c.FTP.Hostname })},
		{"FTP_USERNAME", has(func(c *Config) string { return c.FTP.Username })},
		{"FTP_PASSWORD", func(c *Config) bool { return c.FTP.Password != "" }},
	}
	reqTracker = requirement{"TRACKER_URL", has(func(c *Config) string { return c.Tracker.URL })}
)

func requirementsFor(tool Tool) []requirement {
	var reqs []requirement
	switch tool {
	case ToolDeploy:
		reqs = append(reqs, reqSSH...)
		reqs = append(reqs, requirement{"GITHUB_URL", has(func(c *Config) string { return c.Deploy.RepositoryURL })})
		reqs = append(reqs, reqTracker)
	case ToolLogsNode:
		reqs = append(reqs, reqFTP...)
		reqs = append(reqs, requirement{"NODE_LOGS_PATH", has(func(c *Config) string { return c.Logs.NodeLogsPath })})
	case ToolLogsPassenger:
		reqs = append(reqs, reqFTP...)
		reqs = append(reqs, reqSSH...)
		reqs = append(reqs, requirement{"PASSENGER_LOG_PATH", has(func(c *Config) string { return c.Logs.PassengerLogPath })})
	case ToolTmp:
		reqs = append(reqs, reqFTP...)
		reqs = append(reqs, requirement{"FTP_TMP_PATH", has(func(c *Config) string { return c.Tmp.RemotePath })})
	case ToolExport:
		reqs = append(reqs, requirement{"FIREBASE_CREDENTIALS", has(func(c *Config) string { return c.Export.CredentialsFile })})
	case ToolRequest:
		reqs = append(reqs, reqTracker)
	}
	return reqs
}

// Require checks that every setting the tool needs is present.
// It returns a *MissingError naming all absent variables at once.
func (c *Config) Require(tool Tool) error {
	var missing []string
	for _, req := range requirementsFor(tool) {
		if !req.present(c) {
			missing = append(missing, req.env)
		}
	}
	if len(missing) > 0 {
		return &MissingError{Tool: tool, Vars: missing}
	}
	return nil
}
