package cli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/specvital/jestbridge/pkg/domain"
	"github.com/specvital/jestbridge/pkg/jest"
)

func newRunCommand(opts *options) *cobra.Command {
	var (
		testName string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run the tests of one file and print per-position results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			adapter, err := opts.newAdapter(path)
			if err != nil {
				return err
			}

			tree, err := adapter.DiscoverPositions(cmd.Context(), path)
			if err != nil {
				return err
			}

			target := tree
			if testName != "" {
				target = findTest(tree, testName)
				if target == nil {
					return fmt.Errorf("no test named %q in %s", testName, path)
				}
			}

			spec, err := adapter.BuildSpec(target)
			if err != nil {
				return err
			}

			if err := execute(cmd, spec, adapter.Root(), timeout); err != nil {
				return err
			}

			return printResults(adapter.Results(spec, tree))
		},
	}

	cmd.Flags().StringVarP(&testName, "test", "t", "", "run only the test with this exact name")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "maximum duration of the jest run")

	return cmd
}

// execute is the execution-strategy collaborator: it runs the spec's argv
// and waits for completion. Stdout and stderr are discarded; only the JSON
// report file matters. A non-zero jest exit is expected when tests fail and
// is not an error here.
func execute(cmd *cobra.Command, spec *domain.RunSpec, dir string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	run := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	run.Dir = dir

	err := run.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("run jest: %w", err)
	}
	return nil
}

// findTest locates the first test position with the given unquoted name.
func findTest(tree *domain.Position, name string) *domain.Position {
	var found *domain.Position
	tree.Walk(func(pos *domain.Position) {
		if found == nil && pos.Kind == domain.KindTest && jest.UnquoteName(pos.Name) == name {
			found = pos
		}
	})
	return found
}

func printResults(results map[string]*domain.OutcomeRecord) error {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	failed := 0
	for _, id := range ids {
		record := results[id]
		switch record.Status {
		case domain.StatusPassed:
			color.Green("✓ %s", id)
		case domain.StatusSkipped:
			color.Yellow("○ %s", id)
		default:
			failed++
			color.Red("✗ %s", id)
			for _, detail := range record.Errors {
				fmt.Printf("    line %d: %s\n", detail.Line+1, firstLine(detail.Message))
			}
			if record.Output != "" {
				fmt.Printf("    output: %s\n", record.Output)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d positions failed", failed, len(ids))
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
