package jest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/specvital/jestbridge/pkg/domain"
)

// ErrNoPosition is returned when BuildSpec has no target to run.
var ErrNoPosition = errors.New("jest: no position to run")

// matchAllPattern is the name filter for file and namespace targets.
const matchAllPattern = ".*"

// BuildSpec builds the runner invocation for pos. For a single test the
// name filter is the test's literal name; jest interprets it as a regular
// expression and the name is passed unescaped, so names containing regex
// metacharacters over-match. Known limitation.
//
// The returned spec's Context.ResultsPath is exactly the path the runner is
// told to write to, and Context.File the path scoping the run; both are
// consumed verbatim by Results.
func (a *Adapter) BuildSpec(pos *domain.Position) (*domain.RunSpec, error) {
	if pos == nil {
		return nil, ErrNoPosition
	}

	resultsPath, err := allocResultsFile()
	if err != nil {
		return nil, err
	}

	filter := matchAllPattern
	if pos.Kind == domain.KindTest {
		filter = UnquoteName(pos.Name)
	}

	// Tokenize so an override may supply a wrapper plus flags.
	command := strings.Fields(a.ResolveCommand())
	command = append(command,
		"--coverage=false",
		"--testLocationInResults",
		"--verbose",
		"--json",
		"--outputFile="+resultsPath,
		"--testNamePattern="+filter,
		"--runTestsByPath",
		pos.Path,
	)

	return &domain.RunSpec{
		Command: command,
		Context: domain.RunContext{
			ResultsPath: resultsPath,
			File:        pos.Path,
		},
	}, nil
}

// allocResultsFile reserves a fresh process-unique report path.
func allocResultsFile() (string, error) {
	f, err := os.CreateTemp("", "jestbridge-results-*.json")
	if err != nil {
		return "", fmt.Errorf("allocate results file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("allocate results file: %w", err)
	}
	return name, nil
}
