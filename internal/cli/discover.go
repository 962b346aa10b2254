package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/specvital/jestbridge/pkg/domain"
	"github.com/specvital/jestbridge/pkg/jest"
)

func newDiscoverCommand(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "discover <file>",
		Short: "Print the test positions of one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if !jest.IsTestFile(path) {
				return fmt.Errorf("%s does not look like a jest test file", path)
			}

			adapter, err := opts.newAdapter(path)
			if err != nil {
				return err
			}

			tree, err := adapter.DiscoverPositions(cmd.Context(), path)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(tree)
			}

			printTree(tree, 0)
			fmt.Printf("\n%d tests\n", tree.CountTests())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the position tree as JSON")

	return cmd
}

func printTree(pos *domain.Position, depth int) {
	indent := strings.Repeat("  ", depth)
	switch pos.Kind {
	case domain.KindFile:
		color.New(color.Bold).Printf("%s%s\n", indent, pos.Path)
	case domain.KindNamespace:
		color.Cyan("%s%s", indent, pos.Name)
	default:
		fmt.Printf("%s%s  %s\n", indent, pos.Name, color.HiBlackString("(line %d)", pos.Range.StartLine+1))
	}
	for _, child := range pos.Children {
		printTree(child, depth+1)
	}
}
