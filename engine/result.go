package engine

import "time"

// Outcome tags the result of one bounded engine invocation.
type Outcome int

const (
	// OutcomeCompleted means the invocation produced its artifacts before
	// the deadline.
	OutcomeCompleted Outcome = iota

	// OutcomeTimedOut means the deadline elapsed. Whatever partial
	// artifacts exist are reported, and the page falls back to its
	// pre-OCR rendering.
	OutcomeTimedOut

	// OutcomeFailed means the engine reported a hard error: malformed
	// input, missing language data, or similar. Distinct from a timeout
	// because it signals a data or configuration problem.
	OutcomeFailed
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeTimedOut:
		return "timed-out"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Artifacts are the file paths produced by a successful (or partially
// successful) text-layer invocation. Empty paths mean the artifact does
// not exist.
type Artifacts struct {
	// TextLayer is the text-layer file (.pdf or .hocr).
	TextLayer string

	// Text is the plain-text sidecar file.
	Text string
}

// Result is the tagged outcome of one text-layer invocation. It is created
// and consumed entirely within one page's processing; it is never shared
// across pages.
type Result struct {
	// Outcome tags the variant.
	Outcome Outcome

	// Artifacts lists whatever output exists. Complete for
	// OutcomeCompleted; possibly partial or empty for OutcomeTimedOut;
	// empty for OutcomeFailed.
	Artifacts Artifacts

	// Err carries the failure detail for OutcomeFailed, nil otherwise.
	Err error

	// Stderr is the captured engine diagnostics output, when any.
	Stderr string

	// Duration is the wall-clock time the invocation took.
	Duration time.Duration
}

// Completed constructs a success Result.
func Completed(a Artifacts, d time.Duration) Result {
	return Result{Outcome: OutcomeCompleted, Artifacts: a, Duration: d}
}

// TimedOut constructs a timeout Result carrying whatever partial
// artifacts exist.
func TimedOut(partial Artifacts, d time.Duration) Result {
	return Result{Outcome: OutcomeTimedOut, Artifacts: partial, Duration: d}
}

// Failed constructs a hard-failure Result.
func Failed(err error, stderr string, d time.Duration) Result {
	return Result{Outcome: OutcomeFailed, Err: err, Stderr: stderr, Duration: d}
}
