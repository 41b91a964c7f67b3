package engine

import "fmt"

// Action is the decision taken (or, in dry-run, that would be taken) for
// one entity in one phase.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionSkip   Action = "skip"
	ActionFailed Action = "failed"
)

// Entry records one decision for diagnostic reporting. Fields lists the
// changed field names from the change detector; it never drives partial
// updates.
type Entry struct {
	Module string
	Item   string
	Kind   string
	Phase  string
	Action Action
	Fields []string
	Reason string
	Err    string
}

// Report is the outcome of one reconcile run.
type Report struct {
	DryRun bool

	Entries  []Entry
	Warnings []string

	Creates  int
	Updates  int
	Skips    int
	Failures int

	// WriteCalls counts remote writes actually issued; always zero in
	// dry-run mode.
	WriteCalls int
}

func (r *Report) add(e Entry) {
	r.Entries = append(r.Entries, e)
	switch e.Action {
	case ActionCreate:
		r.Creates++
	case ActionUpdate:
		r.Updates++
	case ActionSkip:
		r.Skips++
	case ActionFailed:
		r.Failures++
	}
}

func (r *Report) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}
