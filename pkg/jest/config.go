package jest

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the optional per-project configuration file.
	ConfigFileName = "jestbridge.yaml"
	// CommandEnv overrides the runner command when set. It takes precedence
	// over the config file but not over an explicit Config.Command.
	CommandEnv = "JESTBRIDGE_COMMAND"
	// DefaultMaxFileSize is the largest source or report file the adapter
	// will read (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// Config carries the construction-time settings for an [Adapter].
// Configuration happens once, before any concurrent use.
type Config struct {
	// Command overrides runner resolution entirely. Nil selects the default
	// project-local probe.
	Command CommandSource
	// Root is the project root used for the local-binary probe and as the
	// scan base. Defaults to ".".
	Root string
	// Exclude adds directory patterns skipped during scanning, on top of
	// DefaultSkipPatterns.
	Exclude []string
	// MaxFileSize caps source and report reads. Zero selects
	// DefaultMaxFileSize.
	MaxFileSize int64
	// Logger receives the log-and-continue branches (unreadable reports,
	// malformed entries). Nil selects slog.Default().
	Logger *slog.Logger
}

type fileConfig struct {
	JestCommand string   `yaml:"jestCommand"`
	Root        string   `yaml:"root"`
	Exclude     []string `yaml:"exclude"`
}

// LoadConfig reads the yaml config at path, then applies the CommandEnv
// override on top. A missing file is not an error; the returned Config then
// only reflects the environment.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// optional file
	case err != nil:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	default:
		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.Root = fc.Root
		cfg.Exclude = fc.Exclude
		if fc.JestCommand != "" {
			cfg.Command = FixedCommand(fc.JestCommand)
		}
	}

	if env := os.Getenv(CommandEnv); env != "" {
		cfg.Command = FixedCommand(env)
	}

	return cfg, nil
}
