package transfer

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"

	"github.com/jlaffaye/ftp"

	"results-tracker/trackerctl/pkg/config"
)

// Conn is the part of an FTP session the fetchers use.
type Conn interface {
	ChangeDir(path string) error
	NameList(path string) ([]string, error)
	Retr(path string) (io.ReadCloser, error)
	Quit() error
}

// ftpConn adapts *ftp.ServerConn to Conn.
type ftpConn struct {
	conn *ftp.ServerConn
}

func (c *ftpConn) ChangeDir(path string) error {
	return c.conn.ChangeDir(path)
}

func (c *ftpConn) NameList(path string) ([]string, error) {
	return c.conn.NameList(path)
}

func (c *ftpConn) Retr(path string) (io.ReadCloser, error) {
	return c.conn.Retr(path)
}

func (c *ftpConn) Quit() error {
	return c.conn.Quit()
}

// DialFTP connects and logs in to the configured FTP server.
func DialFTP(ctx context.Context, cfg *config.FTPConfig) (Conn, error) {
	addr, err := ftpAddress(cfg)
	if err != nil {
		return nil, err
	}

	opts := []ftp.DialOption{ftp.DialWithContext(ctx)}
	if cfg.Timeout > 0 {
		opts = append(opts, ftp.DialWithTimeout(cfg.Timeout))
	}

	conn, err := ftp.Dial(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}

	if err := conn.Login(cfg.Username, cfg.Password); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("ftp login as %s failed: %w", cfg.Username, err)
	}

	return &ftpConn{conn: conn}, nil
}

func ftpAddress(cfg *config.FTPConfig) (string, error) {
	host := strings.TrimSpace(cfg.Hostname)
	if host == "" {
		return "", fmt.Errorf("ftp host is required")
	}

	if _, _, err := net.SplitHostPort(host); err == nil {
		return host, nil
	}

	port := cfg.Port
	if port == 0 {
		port = config.DefaultFTPPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port)), nil
}
