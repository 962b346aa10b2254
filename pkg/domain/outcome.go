package domain

// Status represents the outcome of one executed position.
type Status string

// Outcome statuses. The runner's "pending" is normalized to StatusSkipped
// before it reaches an OutcomeRecord.
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Point is a 1-based line/column as reported by the runner.
type Point struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ErrorDetail locates one failure message in the file under test.
type ErrorDetail struct {
	// Line is 0-based, derived from the failure message or the reported
	// location.
	Line int `json:"line"`
	// Message is the ANSI-stripped failure text.
	Message string `json:"message"`
}

// OutcomeRecord is the result for one position after reconciliation.
// Errors is populated iff Status is StatusFailed; skipped records never
// carry error data.
type OutcomeRecord struct {
	// Status is the final outcome.
	Status Status `json:"status"`
	// Short is a one-line summary, extended with cleaned failure messages
	// when present.
	Short string `json:"short"`
	// Output is the path of a freshly created file holding the full captured
	// text for this position.
	Output string `json:"output,omitempty"`
	// Errors lists one entry per failure message.
	Errors []ErrorDetail `json:"errors,omitempty"`
	// Location is the runner-reported position of the test, when present.
	Location *Point `json:"location,omitempty"`
}
