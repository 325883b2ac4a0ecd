package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// testSettings writes a complete trackerctl.yaml and an empty .env into a
// temp dir, points the global flags at them and returns the dir.
func testSettings(t *testing.T, trackerURL string) string {
	t.Helper()
	dir := t.TempDir()

	content := fmt.Sprintf(`
ssh:
  hostname: "app.example.com"
  username: "deployer"
  password: "hunter2"
ftp:
  hostname: "ftp.example.com"
  username: "ftpuser"
  password: "ftppass"
deploy:
  repository_url: "https://github.com/example/results_tracker"
  status_delay: "1ms"
tracker:
  url: %q
logs:
  node_logs_path: "/logs/node/"
  passenger_log_path: "/var/log/passenger.log"
  local_dir: %q
tmp:
  remote_path: "/tmp/tracker"
  local_dir: %q
export:
  credentials_file: "service-account.json"
  output_dir: %q
`, trackerURL, filepath.Join(dir, "logs"), filepath.Join(dir, "tmp"), filepath.Join(dir, "exported"))

	cfgPath := filepath.Join(dir, "trackerctl.yaml")
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfgFile = cfgPath
	envFile = envPath
	verbose = false
	logFormat = ""
	metricsFile = ""
	t.Cleanup(func() {
		cfgFile, envFile, metricsFile = "", "", ""
	})

	return dir
}

// newTestCommand returns a command carrying ctx with captured output and
// the given stdin.
func newTestCommand(ctx context.Context, stdin string) (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	return cmd, &stdout, &stderr
}

// fakeFTP serves files from memory.
type fakeFTP struct {
	files map[string]string
	dir   string
	quit  bool
}

func (f *fakeFTP) ChangeDir(path string) error {
	f.dir = path
	return nil
}

func (f *fakeFTP) NameList(string) ([]string, error) {
	names := []string{".", ".."}
	for _, name := range []string{"a.json", "b.json"} {
		if _, ok := f.files[name]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (f *fakeFTP) Retr(path string) (io.ReadCloser, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("550 %s: No such file or directory", path)
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (f *fakeFTP) Quit() error {
	f.quit = true
	return nil
}
