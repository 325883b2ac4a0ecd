// Package logging provides structured diagnostic logging with secret redaction.
//
// The package wraps log/slog. Diagnostics go to stderr so that stdout stays
// reserved for the output an operator reads (remote command output, status
// bodies, download lines).
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:         "info",
//	    Format:        "text",
//	    RedactSecrets: true,
//	})
//
//	logger.Info("connecting",
//	    "host", "app.example.com",
//	    "password", cfg.SSH.Password, // logged as ***
//	)
//
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "deploy started") // carries run_id
package logging
