package jest

import (
	"os"
	"path/filepath"
)

const (
	// localBinaryPath is where a per-project jest install places its
	// executable, relative to the project root.
	localBinaryPath = "node_modules/.bin/jest"
	// globalCommand is the fallback resolved via the caller's search path.
	globalCommand = "jest"
)

// CommandSource yields the runner command for one invocation. Multi-word
// commands are allowed; BuildSpec tokenizes on whitespace.
type CommandSource interface {
	Command() string
}

// FixedCommand always resolves to the same string.
type FixedCommand string

// Command implements CommandSource.
func (c FixedCommand) Command() string { return string(c) }

// DynamicCommand computes the command at call time.
type DynamicCommand func() string

// Command implements CommandSource.
func (f DynamicCommand) Command() string { return f() }

// projectCommand is the default source: it probes the project-local binary
// fresh on every call and never caches the result.
type projectCommand struct {
	root string
}

func (c projectCommand) Command() string {
	local := filepath.Join(c.root, filepath.FromSlash(localBinaryPath))
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local
	}
	return globalCommand
}
