package jest

import (
	"path/filepath"
	"regexp"
	"strings"
)

var testFileSuffixPattern = regexp.MustCompile(`(spec|test)\.(js|jsx|coffee|ts|tsx)$`)

// IsTestFile reports whether path follows the jest test-file naming
// convention: a __tests__ directory segment anywhere in the path, or a
// (spec|test).<ext> filename suffix. Empty paths are not test files.
func IsTestFile(path string) bool {
	if path == "" {
		return false
	}

	for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
		if segment == "__tests__" {
			return true
		}
	}

	return testFileSuffixPattern.MatchString(filepath.Base(path))
}
