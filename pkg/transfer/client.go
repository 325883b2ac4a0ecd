package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"results-tracker/trackerctl/pkg/cli"
	"results-tracker/trackerctl/pkg/telemetry/logging"
	"results-tracker/trackerctl/pkg/telemetry/metrics"
	"results-tracker/trackerctl/pkg/telemetry/tracing"
)

// Client downloads files over one FTP session.
type Client struct {
	conn    Conn
	logger  *logging.Logger
	metrics *metrics.Collector
}

// NewClient wraps an open session. logger and collector may be nil.
func NewClient(conn Conn, logger *logging.Logger, collector *metrics.Collector) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{
		conn:    conn,
		logger:  logger.With("component", "transfer"),
		metrics: collector,
	}
}

// Close ends the FTP session.
func (c *Client) Close() error {
	return c.conn.Quit()
}

// Download retrieves remotePath into localPath and returns the byte count.
// The data is written to a temporary file next to localPath and renamed
// into place, so localPath is either the complete file or untouched. An
// existing localPath is replaced.
func (c *Client) Download(ctx context.Context, remotePath, localPath string) (n int64, err error) {
	ctx, span := tracing.Start(ctx, "transfer.download",
		tracing.AttrRemotePath.String(remotePath),
		tracing.AttrLocalPath.String(localPath),
	)
	defer func() {
		span.SetAttributes(tracing.AttrBytes.Int64(n))
		tracing.End(span, err)
	}()

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dir := filepath.Dir(localPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	n, err = writeAtomic(localPath, func(w io.Writer) (int64, error) {
		resp, err := c.conn.Retr(remotePath)
		if err != nil {
			return 0, fmt.Errorf("failed to retrieve %s: %w", remotePath, err)
		}

		n, err := io.Copy(w, &ctxReader{ctx: ctx, r: resp})
		// closing reads the server's transfer status
		cerr := resp.Close()
		if err != nil {
			return n, fmt.Errorf("failed to download %s: %w", remotePath, err)
		}
		if cerr != nil {
			return n, fmt.Errorf("transfer of %s did not complete: %w", remotePath, cerr)
		}
		return n, nil
	})
	if err != nil {
		return 0, err
	}

	c.logger.DebugContext(ctx, "downloaded", "remote", remotePath, "local", localPath, "bytes", n)
	c.metrics.RecordDownload(n)

	return n, nil
}

// FetchOptions controls FetchAll output.
type FetchOptions struct {
	// Out receives one "Downloading <name>" line per file. Nil discards.
	Out io.Writer

	// Progress is advanced after every file. Nil disables it.
	Progress cli.ProgressReporter
}

// FetchAll changes to remoteDir and downloads every listed entry except
// "." and ".." into localDir, one at a time in listing order. Entries are
// reduced to their base name. It returns the local paths written.
func (c *Client) FetchAll(ctx context.Context, remoteDir, localDir string, opts FetchOptions) ([]string, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	if err := c.conn.ChangeDir(remoteDir); err != nil {
		return nil, fmt.Errorf("failed to change to %s: %w", remoteDir, err)
	}

	entries, err := c.conn.NameList("")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", remoteDir, err)
	}

	names := fileNames(entries)
	c.logger.InfoContext(ctx, "listed remote directory", "dir", remoteDir, "entries", len(names))

	if opts.Progress != nil {
		opts.Progress.Start(int64(len(names)))
	}

	var written []string
	for i, name := range names {
		if opts.Progress != nil {
			opts.Progress.Printf(out, "Downloading %s\n", name)
		} else {
			fmt.Fprintf(out, "Downloading %s\n", name)
		}

		local := filepath.Join(localDir, name)
		if _, err := c.Download(ctx, name, local); err != nil {
			if opts.Progress != nil {
				opts.Progress.Error(err)
			}
			return written, err
		}
		written = append(written, local)

		if opts.Progress != nil {
			opts.Progress.Update(int64(i + 1))
		}
	}

	if opts.Progress != nil {
		opts.Progress.Finish()
	}

	return written, nil
}

// fileNames drops the directory self and parent entries and reduces each
// entry to its base name. Some servers return NLST entries with the
// directory prefix.
func fileNames(entries []string) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := path.Base(filepath.ToSlash(entry))
		if name == "." || name == ".." || name == "/" || name == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// writeAtomic streams into a temporary sibling of dst and renames it over
// dst. Errors from write are returned as is.
func writeAtomic(dst string, write func(io.Writer) (int64, error)) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := write(tmp)
	if err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write %s: %w", dst, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("failed to move %s into place: %w", dst, err)
	}

	return n, nil
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
