// Package jest bridges a generic test-runner host and the jest JavaScript
// test runner. It discovers test positions by structurally matching a file's
// tree-sitter syntax tree, builds the command line for a scoped run, and
// reconciles jest's JSON report against the discovered positions so every
// requested position receives an outcome.
//
// The package never executes code itself: running the produced
// [domain.RunSpec] is the caller's responsibility.
package jest

import (
	"log/slog"
)

// Adapter holds the configuration for one bridge instance. All state is
// fixed at construction; there is no package-level mutable state.
type Adapter struct {
	command     CommandSource
	root        string
	exclude     []string
	maxFileSize int64
	log         *slog.Logger
}

// NewAdapter creates an adapter from cfg, filling in defaults for unset
// fields.
func NewAdapter(cfg Config) *Adapter {
	root := cfg.Root
	if root == "" {
		root = "."
	}

	command := cfg.Command
	if command == nil {
		command = projectCommand{root: root}
	}

	maxFileSize := cfg.MaxFileSize
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Adapter{
		command:     command,
		root:        root,
		exclude:     cfg.Exclude,
		maxFileSize: maxFileSize,
		log:         log,
	}
}

// Root returns the configured project root.
func (a *Adapter) Root() string {
	return a.root
}

// ResolveCommand returns the runner command for the next invocation. The
// default source probes the project on every call, so the result may change
// between runs.
func (a *Adapter) ResolveCommand() string {
	return a.command.Command()
}
