package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/telemetry/logging"
)

// CommandFailedError reports a remote command that exited non-zero.
type CommandFailedError struct {
	Command    string
	ExitStatus int
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("remote command %q exited with status %d", e.Command, e.ExitStatus)
}

// Client is one SSH connection to the application host.
type Client struct {
	client *ssh.Client
	addr   string
	logger *logging.Logger
}

// Dial connects and authenticates to the configured host. Password,
// keyboard-interactive and public key authentication are offered depending
// on which credentials are set.
func Dial(ctx context.Context, cfg *config.SSHConfig, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.Discard()
	}

	addr, err := address(cfg)
	if err != nil {
		return nil, err
	}

	clientConfig, err := clientConfig(cfg)
	if err != nil {
		return nil, err
	}

	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	// the handshake gets the same budget as the dial
	if cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(cfg.Timeout))
	}

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Time{})

	logger.Debug("ssh connected", "addr", addr, "user", cfg.Username)

	return &Client{
		client: ssh.NewClient(clientConn, chans, reqs),
		addr:   addr,
		logger: logger.With("component", "remote", "addr", addr),
	}, nil
}

// Addr returns the host:port the client is connected to.
func (c *Client) Addr() string {
	return c.addr
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Run executes one command in a fresh session, streaming its combined
// output to out. A non-zero exit returns a *CommandFailedError.
func (c *Client) Run(ctx context.Context, cmd string, out io.Writer) error {
	session, err := c.client.NewSession()
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	if out == nil {
		out = io.Discard
	}
	session.Stdout = out
	session.Stderr = out

	c.logger.Info("running remote command", "command", cmd)

	done := make(chan error, 1)
	go func() { done <- session.Run(cmd) }()

	select {
	case err = <-done:
	case <-ctx.Done():
		session.Close()
		return ctx.Err()
	}

	return commandError(cmd, err)
}

func commandError(cmd string, err error) error {
	if err == nil {
		return nil
	}

	var exitErr *ssh.ExitError
	if errors.As(err, &exitErr) {
		return &CommandFailedError{Command: cmd, ExitStatus: exitErr.ExitStatus()}
	}
	return fmt.Errorf("remote command %q: %w", cmd, err)
}

func address(cfg *config.SSHConfig) (string, error) {
	host := strings.TrimSpace(cfg.Hostname)
	if host == "" {
		return "", fmt.Errorf("ssh host is required")
	}

	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}

	port := cfg.Port
	if port == 0 {
		port = config.DefaultSSHPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}

func clientConfig(cfg *config.SSHConfig) (*ssh.ClientConfig, error) {
	if cfg.Username == "" {
		return nil, fmt.Errorf("ssh user is required")
	}

	auth, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}

	var hostKeyCallback ssh.HostKeyCallback
	if cfg.InsecureIgnoreHostKey {
		hostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		callback, err := knownHostsCallback(cfg.KnownHostsPath)
		if err != nil {
			return nil, err
		}
		hostKeyCallback = callback
	}

	return &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         cfg.Timeout,
	}, nil
}

func authMethods(cfg *config.SSHConfig) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if cfg.KeyPath != "" {
		signer, err := signer(cfg.KeyPath, cfg.KeyPassphrase)
		if err != nil {
			return nil, err
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if cfg.Password != "" {
		password := cfg.Password
		methods = append(methods,
			ssh.Password(password),
			// shared hosts often only enable keyboard-interactive
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = password
				}
				return answers, nil
			}),
		)
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("ssh password or key path is required")
	}
	return methods, nil
}

func signer(keyPath, passphrase string) (ssh.Signer, error) {
	privateKey, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ssh key: %w", err)
	}

	if passphrase != "" {
		s, err := ssh.ParsePrivateKeyWithPassphrase(privateKey, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ssh key: %w", err)
		}
		return s, nil
	}

	s, err := ssh.ParsePrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ssh key: %w", err)
	}
	return s, nil
}

func knownHostsCallback(path string) (ssh.HostKeyCallback, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("known hosts path not set and home dir unavailable")
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}

	callback, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts (set SSH_INSECURE_IGNORE_HOST_KEY to skip): %w", err)
	}
	return callback, nil
}
