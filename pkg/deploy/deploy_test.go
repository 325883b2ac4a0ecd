package deploy

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"results-tracker/trackerctl/pkg/config"
	"results-tracker/trackerctl/pkg/gitops"
	"results-tracker/trackerctl/pkg/remote"
	"results-tracker/trackerctl/pkg/telemetry/metrics"
	"results-tracker/trackerctl/pkg/telemetry/tracing"
	"results-tracker/trackerctl/pkg/tracker"
)

type fakeReleaser struct {
	result *gitops.ReleaseResult
	err    error
	calls  int
}

func (r *fakeReleaser) Release(context.Context) (*gitops.ReleaseResult, error) {
	r.calls++
	return r.result, r.err
}

func (r *fakeReleaser) Plan() (*gitops.ReleaseResult, error) {
	return r.result, r.err
}

type fakeSession struct {
	events *[]string
	failOn string
	status int
	exited bool
	closed bool
}

func (s *fakeSession) Exec(_ context.Context, cmd string) error {
	*s.events = append(*s.events, "exec "+cmd)
	if cmd == s.failOn {
		return &remote.CommandFailedError{Command: cmd, ExitStatus: s.status}
	}
	return nil
}

func (s *fakeSession) Exit(context.Context) error {
	*s.events = append(*s.events, "exit")
	s.exited = true
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeDialer struct {
	session *fakeSession
	err     error
}

func (d *fakeDialer) OpenShell(context.Context, io.Writer) (Session, error) {
	if d.err != nil {
		return nil, d.err
	}
	*d.session.events = append(*d.session.events, "open")
	return d.session, nil
}

type fakeStatus struct {
	events *[]string
	resp   *tracker.Response
	err    error
}

func (s *fakeStatus) Status(context.Context) (*tracker.Response, error) {
	*s.events = append(*s.events, "status")
	return s.resp, s.err
}

func testDeployConfig() *config.DeployConfig {
	return &config.DeployConfig{
		RepositoryURL:  "https://github.com/example/results_tracker",
		AppDir:         "results_tracker",
		RestartCommand: "nodecli restart",
		StatusDelay:    5 * time.Second,
	}
}

func newTestDeployer(t *testing.T, events *[]string, session *fakeSession, rel *fakeReleaser, status *fakeStatus) *Deployer {
	t.Helper()
	d := NewDeployer(testDeployConfig(), rel, &fakeDialer{session: session}, status, nil, nil)
	d.sleep = func(_ context.Context, delay time.Duration) error {
		*events = append(*events, "sleep "+delay.String())
		return nil
	}
	return d
}

func TestCommands(t *testing.T) {
	want := []string{
		"cd results_tracker",
		"pwd",
		"git pull https://github.com/example/results_tracker",
		"git status",
		"npm install",
		"npm run build",
		"nodecli restart",
	}
	if got := Commands(testDeployConfig()); !reflect.DeepEqual(got, want) {
		t.Errorf("Commands() = %v, want %v", got, want)
	}
}

func TestDeployer_Run(t *testing.T) {
	var events []string
	session := &fakeSession{events: &events}
	rel := &fakeReleaser{result: &gitops.ReleaseResult{
		StableBranch: "stable", Remote: "origin", StableSHA: "1111111", MainSHA: "2222222", Moved: true, Pushed: true,
	}}
	status := &fakeStatus{events: &events, resp: &tracker.Response{StatusCode: 200, Body: []byte("ok")}}

	var out strings.Builder
	result, err := newTestDeployer(t, &events, session, rel, status).Run(context.Background(), Options{}, &out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if rel.calls != 1 {
		t.Errorf("release called %d times, want 1", rel.calls)
	}
	want := []string{
		"open",
		"exec cd results_tracker",
		"exec pwd",
		"exec git pull https://github.com/example/results_tracker",
		"exec git status",
		"exec npm install",
		"exec npm run build",
		"exec nodecli restart",
		"exit",
		"sleep 5s",
		"status",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
	if !session.closed {
		t.Error("session was not closed")
	}
	if result.Status.StatusCode != 200 {
		t.Errorf("Status = %v", result.Status)
	}

	text := out.String()
	for _, s := range []string{"Moved stable from 1111111 to 2222222", "Running command: npm install", "Running command: exit", "200\nok\n"} {
		if !strings.Contains(text, s) {
			t.Errorf("output missing %q:\n%s", s, text)
		}
	}
}

func TestDeployer_SkipRelease(t *testing.T) {
	var events []string
	rel := &fakeReleaser{err: errors.New("should not be called")}
	status := &fakeStatus{events: &events, resp: &tracker.Response{StatusCode: 200}}

	_, err := newTestDeployer(t, &events, &fakeSession{events: &events}, rel, status).Run(context.Background(), Options{SkipRelease: true}, io.Discard)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if rel.calls != 0 {
		t.Errorf("release called %d times, want 0", rel.calls)
	}
}

func TestDeployer_ReleaseFailureStopsDeploy(t *testing.T) {
	var events []string
	rel := &fakeReleaser{err: gitops.ErrNotFastForward}
	status := &fakeStatus{events: &events}

	_, err := newTestDeployer(t, &events, &fakeSession{events: &events}, rel, status).Run(context.Background(), Options{}, io.Discard)
	if !errors.Is(err, gitops.ErrNotFastForward) {
		t.Fatalf("Run() error = %v, want ErrNotFastForward", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no remote activity, got %v", events)
	}
}

func TestDeployer_CommandFailureStopsSequence(t *testing.T) {
	var events []string
	session := &fakeSession{events: &events, failOn: "npm install", status: 1}
	status := &fakeStatus{events: &events}

	registry := prometheus.NewRegistry()
	d := NewDeployer(testDeployConfig(), nil, &fakeDialer{session: session}, status, nil, metrics.NewCollector(&config.MetricsConfig{}, registry))

	_, err := d.Run(context.Background(), Options{SkipRelease: true}, io.Discard)

	var failed *remote.CommandFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("Run() error = %v, want *remote.CommandFailedError", err)
	}
	if failed.Command != "npm install" || failed.ExitStatus != 1 {
		t.Errorf("failed = %+v", failed)
	}

	want := []string{
		"open",
		"exec cd results_tracker",
		"exec pwd",
		"exec git pull https://github.com/example/results_tracker",
		"exec git status",
		"exec npm install",
		"exit",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}

	expected := `
		# HELP trackerctl_remote_commands_total Total number of commands run on the remote shell
		# TYPE trackerctl_remote_commands_total counter
		trackerctl_remote_commands_total{status="failure"} 1
		trackerctl_remote_commands_total{status="success"} 4
	`
	if err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "trackerctl_remote_commands_total"); err != nil {
		t.Error(err)
	}
}

func TestDeployer_DialFailure(t *testing.T) {
	var events []string
	dialErr := errors.New("connection refused")
	status := &fakeStatus{events: &events}
	d := NewDeployer(testDeployConfig(), nil, &fakeDialer{err: dialErr}, status, nil, nil)

	if _, err := d.Run(context.Background(), Options{SkipRelease: true}, io.Discard); !errors.Is(err, dialErr) {
		t.Fatalf("Run() error = %v, want %v", err, dialErr)
	}
	if len(events) != 0 {
		t.Errorf("status checked after failed dial: %v", events)
	}
}

func TestDeployer_CancelDuringDelay(t *testing.T) {
	var events []string
	status := &fakeStatus{events: &events}
	d := NewDeployer(testDeployConfig(), nil, &fakeDialer{session: &fakeSession{events: &events}}, status, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Run(ctx, Options{SkipRelease: true}, io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	for _, e := range events {
		if e == "status" {
			t.Error("status checked after cancellation")
		}
	}
}

func TestDeployer_StatusAgainstServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("tracker up"))
	}))
	defer server.Close()

	var events []string
	cfg := testDeployConfig()
	cfg.StatusDelay = 0
	status := tracker.NewClient(&config.TrackerConfig{URL: server.URL}, nil, nil)
	d := NewDeployer(cfg, nil, &fakeDialer{session: &fakeSession{events: &events}}, status, nil, nil)

	var out strings.Builder
	if _, err := d.Run(context.Background(), Options{SkipRelease: true}, &out); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasSuffix(out.String(), "200\ntracker up\n") {
		t.Errorf("output = %q", out.String())
	}
}

func TestDeployer_Plan(t *testing.T) {
	rel := &fakeReleaser{result: &gitops.ReleaseResult{StableBranch: "stable", MainBranch: "main"}}
	d := NewDeployer(testDeployConfig(), rel, nil, nil, nil, nil)

	plan, err := d.Plan("app.example.com", "https://tracker.example.com", Options{})
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.Release == nil || plan.Release.StableBranch != "stable" {
		t.Errorf("Release = %+v", plan.Release)
	}
	if len(plan.Commands) != 8 || plan.Commands[7] != "exit" {
		t.Errorf("Commands = %v", plan.Commands)
	}
	if rel.calls != 0 {
		t.Error("Plan must not release")
	}

	plan, err = d.Plan("app.example.com", "https://tracker.example.com", Options{SkipRelease: true})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Release != nil {
		t.Error("expected no release section when skipped")
	}
}

func TestPlan_String(t *testing.T) {
	plan := &Plan{
		Release:     &gitops.ReleaseResult{StableBranch: "stable", MainBranch: "main", StableSHA: "aaa", MainSHA: "bbb", Remote: "origin", Moved: true},
		Host:        "app.example.com",
		Commands:    []string{"pwd", "exit"},
		StatusURL:   "https://tracker.example.com",
		StatusDelay: 5 * time.Second,
	}

	want := "Release: stable aaa -> main bbb (fast-forward), push to origin\n" +
		"Host: app.example.com\n" +
		"Commands:\n" +
		"  pwd\n" +
		"  exit\n" +
		"Status: GET https://tracker.example.com after 5s"
	if got := plan.String(); got != want {
		t.Errorf("String() =\n%s\nwant\n%s", got, want)
	}

	plan.Release = nil
	if !strings.HasPrefix(plan.String(), "Release: skipped\n") {
		t.Errorf("String() without release = %q", plan.String())
	}
}

func TestDeployer_RecordsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tracer, err := tracing.NewWithExporter(context.Background(), &config.TracingConfig{
		Sampler:     tracing.SamplerAlways,
		ServiceName: "trackerctl-test",
	}, "test", exporter)
	if err != nil {
		t.Fatal(err)
	}
	defer tracer.Shutdown(context.Background())

	var events []string
	session := &fakeSession{events: &events, failOn: "npm install", status: 1}
	status := &fakeStatus{events: &events}

	_, err = newTestDeployer(t, &events, session, nil, status).Run(context.Background(), Options{SkipRelease: true}, io.Discard)
	if err == nil {
		t.Fatal("expected command failure")
	}

	var names []string
	var failed tracetest.SpanStub
	for _, span := range exporter.GetSpans() {
		names = append(names, span.Name)
		if span.Name == "deploy.remote_command" && span.Status.Code == codes.Error {
			failed = span
		}
	}

	wantNames := []string{
		"deploy.remote_command", // cd
		"deploy.remote_command", // pwd
		"deploy.remote_command", // git pull
		"deploy.remote_command", // git status
		"deploy.remote_command", // npm install
		"deploy.update",
	}
	if !reflect.DeepEqual(names, wantNames) {
		t.Fatalf("spans = %v, want %v", names, wantNames)
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range failed.Attributes {
		attrs[kv.Key] = kv.Value
	}
	if got := attrs[tracing.AttrRemoteCommand].AsString(); got != "npm install" {
		t.Errorf("failed command attribute = %q", got)
	}
	if got := attrs[tracing.AttrExitStatus].AsInt64(); got != 1 {
		t.Errorf("exit status attribute = %d, want 1", got)
	}
}
