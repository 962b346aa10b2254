package domain

// RunContext carries the paths the reconciler needs after execution.
type RunContext struct {
	// ResultsPath is where the runner is instructed to write its JSON report.
	ResultsPath string `json:"resultsPath"`
	// File is the path of the file under test.
	File string `json:"file"`
}

// RunSpec is a transient descriptor of one runner invocation. It is consumed
// once by the execution strategy and the reconciler, then discarded.
type RunSpec struct {
	// Command is the full argument vector, executable first.
	Command []string `json:"command"`
	// Context is handed back verbatim to the reconciler.
	Context RunContext `json:"context"`
}
