// Package cli implements the jestbridge command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/specvital/jestbridge/pkg/jest"
	"github.com/specvital/jestbridge/pkg/source"
)

var version = "dev"

type options struct {
	configPath string
	root       string
}

// NewRootCommand builds the jestbridge command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "jestbridge",
		Short:         "Discover and run jest tests from the command line",
		Long:          "jestbridge statically discovers test positions in jest test files, runs scoped jest invocations, and reconciles the JSON report back onto the discovered positions.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", jest.ConfigFileName, "path to the jestbridge config file")
	rootCmd.PersistentFlags().StringVar(&opts.root, "root", "", "project root (default: nearest directory with a package.json)")

	rootCmd.AddCommand(
		newDiscoverCommand(opts),
		newScanCommand(opts),
		newRunCommand(opts),
	)

	return rootCmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newAdapter builds the adapter for one invocation. Precedence for the
// project root: --root flag, config file, nearest package.json above start,
// current directory.
func (o *options) newAdapter(start string) (*jest.Adapter, error) {
	cfg, err := jest.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}

	if o.root != "" {
		cfg.Root = o.root
	}
	if cfg.Root == "" {
		if root, err := source.FindRoot(start); err == nil {
			cfg.Root = root
		}
	}

	return jest.NewAdapter(cfg), nil
}
