// Package transfer downloads files from the application host over FTP.
//
// A Client wraps one logged-in session. Download fetches a single file;
// FetchAll mirrors a remote directory. Local files are always written via
// a temporary sibling and a rename, and an existing file of the same name
// is replaced.
//
//	conn, err := transfer.DialFTP(ctx, &cfg.FTP)
//	if err != nil {
//		return err
//	}
//	client := transfer.NewClient(conn, logger, collector)
//	defer client.Close()
//
//	_, err = client.Download(ctx, "/logs/2024-05-01.log", "logs/2024-05-01.log")
package transfer
