package gitops

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"results-tracker/trackerctl/pkg/config"
)

// pushAuth resolves the credentials used to push the stable branch.
// "none" returns a nil method, which leaves go-git to its transport
// defaults; it suits local and public remotes.
func pushAuth(cfg *config.GitAuthConfig) (transport.AuthMethod, error) {
	switch authType(cfg) {
	case "token":
		if cfg.Token == "" {
			return nil, fmt.Errorf("token auth requires GIT_TOKEN")
		}
		// GitHub ignores the user name when the password is a token
		return &http.BasicAuth{Username: "git", Password: cfg.Token}, nil
	case "ssh":
		return deployKey(cfg.SSHKeyPath, cfg.SSHKeyPassphrase)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown auth type: %s", cfg.Type)
	}
}

func authType(cfg *config.GitAuthConfig) string {
	if cfg.Type == "" {
		return "none"
	}
	return cfg.Type
}

// deployKey loads the SSH key for the "git" user. The key file must not be
// readable by group or others.
func deployKey(path, passphrase string) (transport.AuthMethod, error) {
	if path == "" {
		return nil, fmt.Errorf("ssh auth requires GIT_SSH_KEY_PATH")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access SSH key file: %w", err)
	}
	if mode := info.Mode().Perm(); mode&0077 != 0 {
		return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", mode)
	}

	keys, err := ssh.NewPublicKeysFromFile("git", path, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}
	return keys, nil
}
