// Package config provides configuration management for trackerctl.
//
// Configuration is a single value built once at process start and passed to
// every tool. Nothing in the tree reads the environment after Load returns.
//
// # Configuration Precedence
//
// Values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from the optional YAML file (trackerctl.yaml)
//  3. Values from the optional .env file, exported into the process
//     environment without replacing variables that are already set
//  4. Environment variables
//  5. Validation (fails fast if a value is malformed)
//
// # Environment Variables
//
// Variable names are the ones the maintainer already keeps in .env, for
// example SSH_HOSTNAME, FTP_PASSWORD, GITHUB_URL and TRACKER_URL. See
// applyEnvOverrides for the full list.
//
// # Presence Checks
//
// Each tool needs a different subset of settings. Require reports every
// missing variable for a tool in one error:
//
//	cfg, err := config.Load(config.LoadOptions{})
//	if err != nil {
//		return err
//	}
//	if err := cfg.Require(config.ToolDeploy); err != nil {
//		return err // deploy: missing required environment variables: SSH_HOSTNAME, TRACKER_URL
//	}
package config
