package remote

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/ssh"
)

const (
	// markerCommand is appended to every command. The quotes split the
	// token so the terminal's echo of the typed line never matches.
	markerCommand = `echo __TRACKERCTL_DO""NE__ $?`
)

var markerPattern = regexp.MustCompile(`__TRACKERCTL_DONE__ (\d+)`)

// ErrShellClosed is returned when the remote shell ends while a command
// is still running.
var ErrShellClosed = errors.New("remote shell closed")

// Shell is an interactive login shell on the remote host. Commands run one
// at a time; Exec returns once the command's completion marker arrives.
// Everything the shell prints, including the terminal echo, is copied to
// the output writer as it arrives.
type Shell struct {
	stdin io.WriteCloser
	wait  func() error
	close func() error

	status chan int
	copied chan struct{}
	mu     sync.Mutex
	err    error
}

// Shell opens a session with a pseudo-terminal and starts the login shell,
// the way an operator's ssh session would.
func (c *Client) Shell(ctx context.Context, out io.Writer) (*Shell, error) {
	session, err := c.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 14400,
		ssh.TTY_OP_OSPEED: 14400,
	}
	// wide enough that the marker is never wrapped
	if err := session.RequestPty("xterm", 40, 250, modes); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to request pty: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to open stdin: %w", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to open stdout: %w", err)
	}

	if err := session.Shell(); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to start shell: %w", err)
	}

	c.logger.Info("remote shell started")

	return newShell(stdin, stdout, session.Wait, session.Close, out), nil
}

func newShell(stdin io.WriteCloser, stdout io.Reader, wait, closeFn func() error, out io.Writer) *Shell {
	if out == nil {
		out = io.Discard
	}

	s := &Shell{
		stdin:  stdin,
		wait:   wait,
		close:  closeFn,
		status: make(chan int, 1),
		copied: make(chan struct{}),
	}
	go s.copyOutput(stdout, out)
	return s
}

// copyOutput forwards shell output line by line and turns marker lines
// into exit statuses. It closes the status channel when output ends.
func (s *Shell) copyOutput(stdout io.Reader, out io.Writer) {
	defer close(s.copied)
	defer close(s.status)

	reader := bufio.NewReader(stdout)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			s.handleLine(line, out)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.setErr(err)
			}
			return
		}
	}
}

func (s *Shell) handleLine(line string, out io.Writer) {
	loc := markerPattern.FindStringSubmatchIndex(line)
	if loc == nil {
		io.WriteString(out, strings.ReplaceAll(line, "\r\n", "\n"))
		return
	}

	// output without a trailing newline ends up in front of the marker
	if prefix := line[:loc[0]]; strings.TrimSpace(prefix) != "" {
		io.WriteString(out, prefix+"\n")
	}

	code, err := strconv.Atoi(line[loc[2]:loc[3]])
	if err != nil {
		code = -1
	}
	s.status <- code
}

func (s *Shell) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

func (s *Shell) readErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Exec sends one command and blocks until it completes. A non-zero exit
// status returns a *CommandFailedError. If ctx ends first the shell is
// closed and ctx.Err() returned.
func (s *Shell) Exec(ctx context.Context, cmd string) error {
	if _, err := fmt.Fprintf(s.stdin, "%s; %s\n", cmd, markerCommand); err != nil {
		return fmt.Errorf("failed to send %q: %w", cmd, err)
	}

	select {
	case code, ok := <-s.status:
		if !ok {
			if err := s.readErr(); err != nil {
				return fmt.Errorf("%w while running %q: %v", ErrShellClosed, cmd, err)
			}
			return fmt.Errorf("%w while running %q", ErrShellClosed, cmd)
		}
		if code != 0 {
			return &CommandFailedError{Command: cmd, ExitStatus: code}
		}
		return nil
	case <-ctx.Done():
		s.Close()
		return ctx.Err()
	}
}

// Exit sends "exit" and waits for the session to end. The session's exit
// status is that of the last command the shell ran. A session that closes
// without reporting a status counts as finished.
func (s *Shell) Exit(ctx context.Context) error {
	if _, err := io.WriteString(s.stdin, "exit\n"); err != nil {
		return fmt.Errorf("failed to send exit: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		s.Close()
		return ctx.Err()
	}

	// let the last lines reach the output before returning
	select {
	case <-s.copied:
	case <-ctx.Done():
		return ctx.Err()
	}

	var missing *ssh.ExitMissingError
	if errors.As(err, &missing) {
		return nil
	}
	return commandError("exit", err)
}

// Close tears the session down without waiting.
func (s *Shell) Close() error {
	s.stdin.Close()
	err := s.close()
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
