package deploy

import (
	"fmt"
	"strings"
	"time"

	"results-tracker/trackerctl/pkg/gitops"
)

// Plan is what a deploy would do, for --dry-run.
type Plan struct {
	Release     *gitops.ReleaseResult `json:"release,omitempty"`
	Host        string                `json:"host"`
	Commands    []string              `json:"commands"`
	StatusURL   string                `json:"status_url"`
	StatusDelay time.Duration         `json:"status_delay"`
}

// Plan inspects the branches without moving them and lists the remote
// commands. Nothing is contacted except the local repository.
func (d *Deployer) Plan(host, statusURL string, opts Options) (*Plan, error) {
	plan := &Plan{
		Host:        host,
		Commands:    append(Commands(d.config), "exit"),
		StatusURL:   statusURL,
		StatusDelay: d.config.StatusDelay,
	}

	if !opts.SkipRelease && d.releaser != nil {
		rel, err := d.releaser.Plan()
		if err != nil {
			return nil, err
		}
		plan.Release = rel
	}

	return plan, nil
}

// String renders the plan for the text output format.
func (p *Plan) String() string {
	var b strings.Builder

	if rel := p.Release; rel != nil {
		action := "up to date"
		if rel.Moved {
			action = "fast-forward"
		}
		fmt.Fprintf(&b, "Release: %s %s -> %s %s (%s), push to %s\n",
			rel.StableBranch, rel.StableSHA, rel.MainBranch, rel.MainSHA, action, rel.Remote)
	} else {
		b.WriteString("Release: skipped\n")
	}

	fmt.Fprintf(&b, "Host: %s\n", p.Host)
	b.WriteString("Commands:\n")
	for _, cmd := range p.Commands {
		fmt.Fprintf(&b, "  %s\n", cmd)
	}
	fmt.Fprintf(&b, "Status: GET %s after %s", p.StatusURL, p.StatusDelay)

	return b.String()
}
