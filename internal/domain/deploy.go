package domain

// DeployOutcome classifies the result of one deployment attempt.
type DeployOutcome string

const (
	DeploySucceeded   DeployOutcome = "deployed"
	DeployFailed      DeployOutcome = "failed"
	DeployTimedOut    DeployOutcome = "timed_out"
	DeployToolMissing DeployOutcome = "tool_missing"
)

// DeployResult is the tri-state outcome of invoking the deployment CLI.
// Deployment never fails the surrounding cycle, so there is no error return;
// diagnostics ride along for logging.
type DeployResult struct {
	Outcome  DeployOutcome
	ExitCode int
	Stderr   string
}

// Success reports whether the artifact reached the board.
func (r DeployResult) Success() bool {
	return r.Outcome == DeploySucceeded
}
