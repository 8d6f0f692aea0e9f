package nodeext

import "context"

// BuildResult contains the output and status of a build operation.
//
// After a build completes, this structure provides:
//   - Success status indicating if the build completed without errors
//   - Output lines captured from the build process (stdout/stderr)
//   - Extensions list of compiled addon files (.node)
//   - Error information if the build failed
type BuildResult struct {
	Success             bool     // True if build completed successfully
	Output              []string // Lines of output from the build process
	Extensions          []string // Paths to built addon files
	Error               error    // Error if build failed, nil otherwise
	MissingDependencies []string // Names of build-time dependencies that were missing
}

// BuildConfig contains configuration for the build process.
//
// This structure controls all aspects of the addon build:
//
// Source paths define where files are located:
//   - PackageDir: Root directory of the Node.js package
//   - DestPath: Destination directory for the compiled addon
//     (defaults to the resolved target's output path)
//
// Build configuration:
//   - Resolved: The resolved build target (triple, output path, extra env)
//   - BuildArgs: Additional arguments passed to the build system
//   - Env: Environment variables set during build
//   - Parallel: Number of parallel jobs (0 = build system default)
//
// Build behavior:
//   - Verbose: Enable detailed build output
//   - CleanFirst: Run clean before building
//   - StopOnFailure: Stop after first failed extension (default behavior)
type BuildConfig struct {
	// Source paths
	PackageDir string // Root directory of the Node.js package
	DestPath   string // Destination for the compiled addon, overrides Resolved.OutputPath

	// Target configuration
	Resolved *ResolvedTarget // Resolved build target, nil for host-default builds

	// Build arguments
	BuildArgs []string          // Additional build arguments
	Env       map[string]string // Environment variables for build

	// Build options
	Verbose    bool // Enable verbose output
	CleanFirst bool // Run clean before build
	Parallel   int  // Number of parallel jobs

	// Failure handling
	StopOnFailure bool // Stop after the first failed extension build
}

// OutputPath returns the path the compiled addon should be installed to,
// honoring DestPath over the resolved target's conventional path.
func (c *BuildConfig) OutputPath() string {
	if c.DestPath != "" {
		return c.DestPath
	}
	if c.Resolved != nil {
		return c.Resolved.OutputPath
	}
	return ""
}

// CommonBuildSteps defines the standard 3-step build pattern used by multiple builders.
//
// Native addon build systems follow a similar pattern:
//  1. Configure: Prepare the build (check tools, remove stale artifacts)
//  2. Build: Compile the addon
//  3. Find: Locate the compiled addon files
//
// This structure allows builders to implement this pattern consistently
// while customizing each step's behavior.
type CommonBuildSteps struct {
	// ConfigureFunc prepares the build environment
	ConfigureFunc func(ctx context.Context, config *BuildConfig, extensionDir string, result *BuildResult) error

	// BuildFunc compiles the addon (e.g., run cargo build, node-gyp rebuild)
	BuildFunc func(ctx context.Context, config *BuildConfig, extensionDir string, result *BuildResult) error

	// FindFunc locates the compiled addon files after build completes
	FindFunc func(extensionDir string) ([]string, error)
}
