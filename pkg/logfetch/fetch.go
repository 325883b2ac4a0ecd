package logfetch

import (
	"context"
	"fmt"
	"io"
)

// Runner executes one remote command, as remote.Client does.
type Runner interface {
	Run(ctx context.Context, cmd string, out io.Writer) error
}

// Downloader retrieves one file, as transfer.Client does.
type Downloader interface {
	Download(ctx context.Context, remotePath, localPath string) (int64, error)
}

// Session is an open file-transfer session.
type Session interface {
	Downloader
	Close() error
}

// Opener starts the file-transfer session for a download.
type Opener func(ctx context.Context) (Session, error)

// Fetch carries out plan: the pre-copy over runner when the plan has one,
// then opens the transfer session and downloads. The session is only opened
// once the pre-copy has succeeded. runner may be nil for plans without a
// pre-copy.
func Fetch(ctx context.Context, plan Plan, runner Runner, open Opener, out io.Writer) (int64, error) {
	if plan.PreCopy != "" {
		if runner == nil {
			return 0, fmt.Errorf("%s log needs a remote shell for %q", plan.Kind, plan.PreCopy)
		}
		if err := runner.Run(ctx, plan.PreCopy, out); err != nil {
			return 0, fmt.Errorf("failed to copy %s log into place: %w", plan.Kind, err)
		}
	}

	session, err := open(ctx)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	n, err := session.Download(ctx, plan.Remote, plan.Local)
	if err != nil {
		return 0, err
	}
	return n, nil
}
