package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/specvital/jestbridge/pkg/jest"
)

func newScanCommand(opts *options) *cobra.Command {
	var (
		workers int
		exclude []string
	)

	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Find jest test files under a directory and count their tests",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return err
			}

			adapter, err := opts.newAdapter(dir)
			if err != nil {
				return err
			}

			bar := newScanBar()
			result, err := adapter.Scan(cmd.Context(), dir,
				jest.WithWorkers(workers),
				jest.WithExcludePatterns(exclude),
				jest.WithProgress(func(done, total int) {
					bar.ChangeMax(total)
					_ = bar.Set(done)
				}),
			)
			if err != nil {
				return err
			}
			_ = bar.Finish()

			totalTests := 0
			for _, file := range result.Files {
				count := file.CountTests()
				totalTests += count
				fmt.Printf("%s  %s\n", file.Path, color.HiBlackString("%d tests", count))
			}

			for _, scanErr := range result.Errors {
				color.Yellow("warning: %v", scanErr)
			}

			fmt.Printf("\n%d files, %d tests", result.Stats.FilesParsed, totalTests)
			if result.Stats.FilesFailed > 0 {
				fmt.Printf(", %s", color.RedString("%d failed to parse", result.Stats.FilesFailed))
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of concurrent file parsers (default: GOMAXPROCS)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "additional directory patterns to skip")

	return cmd
}

func newScanBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(1,
		progressbar.OptionSetDescription(color.CyanString("Scanning test files")),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}
