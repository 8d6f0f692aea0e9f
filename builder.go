package nodeext

import "context"

// Builder defines the interface that all addon builders must implement.
//
// Each builder is responsible for a specific build system (Cargo, node-gyp,
// cmake-js) and must implement these four methods to integrate with the
// BuilderFactory.
//
// # Builder Lifecycle
//
//  1. CanBuild() - Factory calls this to find the right builder for an extension file
//  2. Build() - Factory calls this to compile the addon
//  3. Clean() - Optional cleanup of build artifacts
//
// # Thread Safety
//
// Builder implementations should be stateless and thread-safe.
type Builder interface {
	// Name returns the human-readable name of this builder.
	//
	// This name is used in error messages and logs.
	// Examples: "Cargo", "Gyp", "CMake"
	Name() string

	// CanBuild checks if this builder can handle the given extension file.
	//
	// The extensionFile parameter is typically just the filename
	// (e.g., "Cargo.toml") or a relative path (e.g., "crates/addon/Cargo.toml").
	//
	// Returns true if this builder should be used for the file.
	CanBuild(extensionFile string) bool

	// Build compiles the addon and returns the result.
	//
	// This method should:
	//  1. Prepare the build (remove stale artifacts, verify tools)
	//  2. Compile the addon
	//  3. Install the compiled addon at the configured output path
	//
	// The extensionFile path is relative to config.PackageDir.
	//
	// Returns:
	//   - BuildResult with Success=true and Extensions list on success
	//   - BuildResult with Success=false and Error on failure
	Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error)

	// Clean removes build artifacts.
	//
	// This is optional - some builders may not support cleaning.
	// Returns nil if cleaning is not supported or completes successfully.
	//
	// The extensionFile path is relative to config.PackageDir.
	Clean(ctx context.Context, config *BuildConfig, extensionFile string) error
}
