package logfetch

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"results-tracker/trackerctl/pkg/config"
)

// ErrInvalidKind is returned by ParseKind for anything but "node" and
// "passenger". Its text is what the operator sees.
var ErrInvalidKind = errors.New("Invalid log type")

// Kind is a log the fetcher knows how to retrieve.
type Kind int

const (
	// Node is today's application log.
	Node Kind = iota + 1
	// Passenger is the web server log, copied into place before download.
	Passenger
)

// PassengerFile is where the passenger log is copied to on the remote host
// and the name it is retrieved under.
const PassengerFile = "passenger.log"

// Kinds lists every kind in display order.
var Kinds = []Kind{Node, Passenger}

// ParseKind converts a command-line argument into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "node":
		return Node, nil
	case "passenger":
		return Passenger, nil
	default:
		return 0, ErrInvalidKind
	}
}

// String returns the command-line name of the kind.
func (k Kind) String() string {
	switch k {
	case Node:
		return "node"
	case Passenger:
		return "passenger"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tool returns the configuration tool whose settings the kind needs.
func (k Kind) Tool() config.Tool {
	if k == Passenger {
		return config.ToolLogsPassenger
	}
	return config.ToolLogsNode
}

// Plan is everything needed to fetch one log.
type Plan struct {
	Kind Kind `json:"kind"`

	// Remote is the path passed to the FTP retrieve.
	Remote string `json:"remote"`

	// Local is where the download is written.
	Local string `json:"local"`

	// PreCopy is run over SSH before the download. Empty means none.
	PreCopy string `json:"pre_copy,omitempty"`
}

// Resolve computes the plan for kind at time now.
func Resolve(kind Kind, cfg *config.LogsConfig, now time.Time) (Plan, error) {
	switch kind {
	case Node:
		return resolveNode(cfg, now), nil
	case Passenger:
		return resolvePassenger(cfg), nil
	default:
		return Plan{}, ErrInvalidKind
	}
}

// resolveNode names today's file. NODE_LOGS_PATH is a plain prefix, so it
// normally ends with a slash.
func resolveNode(cfg *config.LogsConfig, now time.Time) Plan {
	name := now.Format("2006-01-02") + ".log"
	return Plan{
		Kind:   Node,
		Remote: cfg.NodeLogsPath + name,
		Local:  filepath.Join(cfg.LocalDir, name),
	}
}

func resolvePassenger(cfg *config.LogsConfig) Plan {
	return Plan{
		Kind:    Passenger,
		Remote:  PassengerFile,
		Local:   filepath.Join(cfg.LocalDir, PassengerFile),
		PreCopy: fmt.Sprintf("cp %s %s", cfg.PassengerLogPath, PassengerFile),
	}
}
