package jest

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/specvital/jestbridge/pkg/domain"
)

// jestReport mirrors the on-disk JSON the runner writes with --json.
type jestReport struct {
	TestResults []jestFileResult `json:"testResults"`
}

type jestFileResult struct {
	Name             string          `json:"name"`
	AssertionResults []jestAssertion `json:"assertionResults"`
}

type jestAssertion struct {
	Status          string        `json:"status"`
	Title           string        `json:"title"`
	AncestorTitles  []string      `json:"ancestorTitles"`
	Location        *domain.Point `json:"location"`
	FailureMessages []string      `json:"failureMessages"`
}

// Reason explains why a translation carries no outcomes.
type Reason string

// Translation failure reasons.
const (
	ReasonNone       Reason = ""
	ReasonUnreadable Reason = "unreadable"
	ReasonMalformed  Reason = "malformed"
	ReasonEmpty      Reason = "empty"
	ReasonBadEntry   Reason = "bad-entry"
)

// Translation is a decoded report keyed by composite identifier. FatalError
// marks a report whose entries cannot be trusted at all; the reconciler
// turns it into a failed status for every position of the file.
type Translation struct {
	Outcomes   map[string]*domain.OutcomeRecord
	FatalError bool
	Reason     Reason
}

func emptyTranslation(reason Reason, fatal bool) Translation {
	return Translation{
		Outcomes:   make(map[string]*domain.OutcomeRecord),
		FatalError: fatal,
		Reason:     reason,
	}
}

// Translate decodes a jest JSON report into outcome records keyed by
// composite identifier. Only the first testResults entry is inspected:
// BuildSpec always scopes a run to exactly one file. An assertion without a
// title aborts the whole translation with FatalError set; silently skipping
// the bad entry would under-report.
func (a *Adapter) Translate(raw []byte) Translation {
	var report jestReport
	if err := json.Unmarshal(raw, &report); err != nil {
		a.log.Error("malformed jest report", "error", err)
		return emptyTranslation(ReasonMalformed, false)
	}

	if len(report.TestResults) == 0 {
		a.log.Error("jest report contains no test results")
		return emptyTranslation(ReasonEmpty, false)
	}

	t := emptyTranslation(ReasonNone, false)
	file := report.TestResults[0]

	for _, assertion := range file.AssertionResults {
		if assertion.Title == "" {
			a.log.Error("jest assertion result has no title", "file", file.Name)
			return emptyTranslation(ReasonBadEntry, true)
		}

		record, err := a.buildOutcome(assertion)
		if err != nil {
			a.log.Error("cannot capture test output", "test", assertion.Title, "error", err)
			return emptyTranslation(ReasonBadEntry, true)
		}

		id := domain.CompositeID(file.Name, assertion.AncestorTitles, assertion.Title)
		t.Outcomes[id] = record
	}

	return t
}

func (a *Adapter) buildOutcome(assertion jestAssertion) (*domain.OutcomeRecord, error) {
	status := domain.Status(assertion.Status)
	if assertion.Status == "pending" {
		status = domain.StatusSkipped
	}

	capture, err := os.CreateTemp("", "jestbridge-output-*")
	if err != nil {
		return nil, err
	}
	defer capture.Close()

	record := &domain.OutcomeRecord{
		Status:   status,
		Short:    assertion.Title,
		Output:   capture.Name(),
		Location: assertion.Location,
	}

	if len(assertion.FailureMessages) == 0 {
		fmt.Fprintf(capture, "✓ %s\n", assertion.Title)
		return record, nil
	}

	// Any failure message wins over the reported status.
	record.Status = domain.StatusFailed

	for _, raw := range assertion.FailureMessages {
		clean := StripANSI(raw)

		detail := domain.ErrorDetail{Message: clean}
		if line, ok := errorLine(clean); ok {
			detail.Line = line
		} else if assertion.Location != nil {
			detail.Line = assertion.Location.Line - 1
		}
		record.Errors = append(record.Errors, detail)

		// The capture file keeps the raw message, the summary the cleaned one.
		fmt.Fprintln(capture, raw)
		record.Short += "\n" + clean
	}

	return record, nil
}

// ansiPattern matches SGR escape sequences with two to five numeric
// parameters, the forms jest's pretty-printer emits.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9]+(?:;[0-9]+){1,4}m`)

// StripANSI removes SGR escape sequences from s. Idempotent: a clean string
// comes back unchanged.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

var lineRefPattern = regexp.MustCompile(`([0-9]+):[0-9]+`)

// errorLine finds the first line:column reference in a cleaned failure
// message and returns its 0-based line.
func errorLine(message string) (int, bool) {
	m := lineRefPattern.FindStringSubmatch(message)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n - 1, true
}
