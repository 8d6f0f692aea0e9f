package nodeext

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchesPattern checks if a filename matches any of the given regex patterns.
//
// This is a helper function for builder implementations to determine if they
// can handle a given extension file based on filename patterns.
// If a pattern is invalid regex, it is silently skipped.
//
// Example:
//
//	// Check if file is Cargo.toml
//	if MatchesPattern(filename, `Cargo\.toml$`) {
//	    // Handle Cargo.toml
//	}
//
// Thread-safe; can be called concurrently.
func MatchesPattern(filename string, patterns ...string) bool {
	for _, pattern := range patterns {
		if matched, _ := regexp.MatchString(pattern, filename); matched {
			return true
		}
	}
	return false
}

// BuildError creates a standardized build error with output context.
//
// This helper formats build errors consistently across all builders,
// including the build output for debugging.
//
// Format with error and output:
//
//	Cargo build failed: exit status 101
//
//	Build output:
//	   Compiling addon v0.1.0
//	error[E0432]: unresolved import
//
// With error but no output:
//
//	Cargo build failed: exit status 101
//
// Thread-safe; can be called concurrently.
func BuildError(builder string, output []string, err error) error {
	outputStr := strings.Join(output, "\n")

	var prefix string
	if err != nil {
		prefix = fmt.Sprintf("%s build failed: %v", builder, err)
	} else {
		prefix = fmt.Sprintf("%s build failed", builder)
	}

	if outputStr != "" {
		return fmt.Errorf("%s\n\nBuild output:\n%s", prefix, outputStr)
	}

	return fmt.Errorf("%s", prefix)
}

// mergedEnv combines the inherited process environment with per-build and
// per-target overrides, in that order. Later entries win under exec, so an
// override replaces any inherited value of the same variable rather than
// merging with it - deliberately so for RUSTFLAGS, where the musl flag must
// not be diluted by whatever the caller exported.
func mergedEnv(base []string, layers ...map[string]string) []string {
	env := append([]string{}, base...)
	for _, layer := range layers {
		for key, value := range layer {
			env = append(env, fmt.Sprintf("%s=%s", key, value))
		}
	}
	return env
}
