package jest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/jestbridge/pkg/domain"
)

const (
	// DefaultWorkers indicates that the scanner should use GOMAXPROCS as the worker count.
	DefaultWorkers = 0
	// DefaultTimeout is the default scan timeout duration.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers is the maximum number of concurrent workers allowed.
	MaxWorkers = 1024
)

// DefaultSkipPatterns contains directory names that are skipped by default during scanning.
var DefaultSkipPatterns = []string{
	"node_modules",
	".git",
	"dist",
	"build",
	".next",
	"coverage",
	".cache",
}

var (
	// ErrScanCancelled is returned when scanning is cancelled via context.
	ErrScanCancelled = errors.New("jest: scan cancelled")
	// ErrScanTimeout is returned when scanning exceeds the timeout duration.
	ErrScanTimeout = errors.New("jest: scan timeout")
)

// ScanError represents an error that occurred during a specific phase of scanning.
type ScanError struct {
	// Err is the underlying error.
	Err error

	// Path is the file path where the error occurred (may be empty for non-file errors).
	Path string

	// Phase indicates which phase the error occurred in.
	// Values: "discovery", "parsing"
	Phase string
}

// Error implements the error interface.
func (e ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// ScanStats provides statistics about the scan operation.
type ScanStats struct {
	// FilesScanned is the total number of test file candidates discovered.
	FilesScanned int
	// FilesParsed is the number of files whose position tree was built.
	FilesParsed int
	// FilesFailed is the number of files that failed to parse.
	FilesFailed int
}

// ScanResult contains the outcome of a scan operation.
type ScanResult struct {
	// Files contains one position tree per discovered test file, sorted by path.
	Files []*domain.Position
	// Errors contains non-fatal errors encountered during scanning.
	Errors []ScanError
	// Stats provides scan statistics.
	Stats ScanStats
}

// ScanOptions configures scanner behavior.
type ScanOptions struct {
	// ExcludePatterns specifies directory patterns to skip during file
	// discovery, combined with DefaultSkipPatterns and the adapter config.
	ExcludePatterns []string
	// Timeout is the maximum duration for the entire scan operation.
	// Zero or negative values use DefaultTimeout.
	Timeout time.Duration
	// Workers specifies the number of concurrent file parsers.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int

	// Progress, when set, is called after each file finishes with the
	// number of files done so far and the total candidate count.
	Progress func(done, total int)
}

// ScanOption is a functional option for configuring a scan.
type ScanOption func(*ScanOptions)

// WithWorkers sets the number of concurrent file parsers.
// Negative values are ignored.
func WithWorkers(n int) ScanOption {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout sets the scan timeout duration.
// Negative values are ignored.
func WithTimeout(d time.Duration) ScanOption {
	return func(o *ScanOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds directory patterns to skip during file discovery.
func WithExcludePatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithProgress registers a per-file completion callback.
func WithProgress(fn func(done, total int)) ScanOption {
	return func(o *ScanOptions) {
		o.Progress = fn
	}
}

// Scan walks root for jest test files and discovers the position tree of
// each one concurrently. Per-file failures are collected as ScanErrors and
// do not abort the scan.
func (a *Adapter) Scan(ctx context.Context, root string, opts ...ScanOption) (*ScanResult, error) {
	var options ScanOptions
	for _, opt := range opts {
		opt(&options)
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	workers := options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	skip := make([]string, 0, len(DefaultSkipPatterns)+len(a.exclude)+len(options.ExcludePatterns))
	skip = append(skip, DefaultSkipPatterns...)
	skip = append(skip, a.exclude...)
	skip = append(skip, options.ExcludePatterns...)

	result := &ScanResult{}

	candidates, walkErrs := discoverCandidates(ctx, root, skip)
	result.Errors = append(result.Errors, walkErrs...)
	result.Stats.FilesScanned = len(candidates)

	if err := ctx.Err(); err != nil {
		return nil, scanErr(err)
	}

	var mu sync.Mutex
	sem := semaphore.NewWeighted(int64(workers))
	g, gctx := errgroup.WithContext(ctx)

	for _, path := range candidates {
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			tree, err := a.DiscoverPositions(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, ScanError{Err: err, Path: path, Phase: "parsing"})
				result.Stats.FilesFailed++
			} else {
				result.Files = append(result.Files, tree)
				result.Stats.FilesParsed++
			}
			if options.Progress != nil {
				options.Progress(result.Stats.FilesParsed+result.Stats.FilesFailed, len(candidates))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, scanErr(err)
	}

	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	return result, nil
}

func discoverCandidates(ctx context.Context, root string, skip []string) ([]string, []ScanError) {
	var (
		candidates []string
		errs       []ScanError
	)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			errs = append(errs, ScanError{Err: err, Path: path, Phase: "discovery"})
			return nil
		}

		if d.IsDir() {
			if path != root && shouldSkipDir(root, path, d.Name(), skip) {
				return filepath.SkipDir
			}
			return nil
		}

		if IsTestFile(path) {
			candidates = append(candidates, path)
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, context.DeadlineExceeded) {
		errs = append(errs, ScanError{Err: walkErr, Path: root, Phase: "discovery"})
	}

	return candidates, errs
}

// shouldSkipDir matches a directory against the skip list: plain names
// match the base name, glob patterns match the root-relative path.
func shouldSkipDir(root, path, name string, skip []string) bool {
	rel, relErr := filepath.Rel(root, path)
	for _, pattern := range skip {
		if pattern == name {
			return true
		}
		if relErr == nil {
			if ok, err := doublestar.Match(pattern, filepath.ToSlash(rel)); err == nil && ok {
				return true
			}
		}
	}
	return false
}

func scanErr(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrScanTimeout
	case errors.Is(err, context.Canceled):
		return ErrScanCancelled
	default:
		return err
	}
}
