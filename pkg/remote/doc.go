// Package remote runs commands on the application host over SSH.
//
// Two modes are offered. Client.Run executes a single command in its own
// session. Client.Shell opens an interactive shell with a pseudo-terminal
// and runs a sequence of commands in it, so that state such as the working
// directory carries over from one command to the next:
//
//	client, err := remote.Dial(ctx, &cfg.SSH, logger)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	shell, err := client.Shell(ctx, os.Stdout)
//	if err != nil {
//		return err
//	}
//	defer shell.Close()
//
//	for _, cmd := range []string{"cd results_tracker", "git status"} {
//		if err := shell.Exec(ctx, cmd); err != nil {
//			return err
//		}
//	}
//	return shell.Exit(ctx)
//
// Each command sent to the shell is followed by an echo of its exit status
// behind a unique token. Exec waits for that token, which gives a real
// completion signal and the command's exit status.
//
// Host keys are verified against known_hosts unless
// SSH_INSECURE_IGNORE_HOST_KEY is set.
package remote
