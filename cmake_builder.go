package nodeext

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// CmakeBuilder handles CMake-based addon builds via cmake-js
type CmakeBuilder struct{}

// Name returns the builder name
func (b *CmakeBuilder) Name() string {
	return "CMake"
}

// RequiredTools returns the tools needed for cmake-js builds
func (b *CmakeBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:    "cmake-js",
			Purpose: "CMake-based build tool for Node.js addons",
		},
		{
			Name:    "cmake",
			Purpose: "CMake build system",
		},
		{
			Name:     "ninja",
			Optional: true,
			Purpose:  "Ninja build tool (faster than make)",
		},
	}
}

// CheckTools verifies that cmake-js and cmake are available
func (b *CmakeBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// CanBuild checks if this builder can handle the extension file
func (b *CmakeBuilder) CanBuild(extensionFile string) bool {
	return MatchesPattern(extensionFile, `CMakeLists\.txt$`)
}

// Build compiles the addon using the cmake-js configure → build workflow
func (b *CmakeBuilder) Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error) {
	result, err := runCommonBuild(ctx, config, extensionFile, CommonBuildSteps{
		ConfigureFunc: b.runConfigure,
		BuildFunc:     b.runBuild,
		FindFunc:      b.findBuiltAddons,
	})
	if err != nil {
		return result, err
	}

	if err := installFirstAddon(config, extensionFile, result, "CMake"); err != nil {
		result.Success = false
		result.Error = err
		return result, err
	}

	return result, nil
}

// Clean removes build artifacts
func (b *CmakeBuilder) Clean(ctx context.Context, config *BuildConfig, extensionFile string) error {
	extensionPath := filepath.Join(config.PackageDir, extensionFile)
	extensionDir := filepath.Dir(extensionPath)

	cmd := exec.CommandContext(ctx, "cmake-js", "clean")
	cmd.Dir = extensionDir

	return cmd.Run()
}

// runConfigure removes stale output and runs cmake-js configure
func (b *CmakeBuilder) runConfigure(ctx context.Context, config *BuildConfig, extensionDir string, result *BuildResult) error {
	if err := RemoveStale(config.OutputPath()); err != nil {
		return err
	}

	args := []string{"configure"}
	args = append(args, config.BuildArgs...)

	return runBuildCommand(ctx, config, extensionDir, result, "CMake", "cmake-js", args)
}

// runBuild runs cmake-js build (Release is cmake-js's default configuration)
func (b *CmakeBuilder) runBuild(ctx context.Context, config *BuildConfig, extensionDir string, result *BuildResult) error {
	args := []string{"build"}

	if config.Parallel > 0 {
		args = append(args, "--parallel", fmt.Sprintf("%d", config.Parallel))
	}

	if config.CleanFirst {
		cleanCmd := exec.CommandContext(ctx, "cmake-js", "clean")
		cleanCmd.Dir = extensionDir
		cleanOutput, _ := cleanCmd.CombinedOutput()
		result.Output = append(result.Output, strings.Split(string(cleanOutput), "\n")...)
	}

	return runBuildCommand(ctx, config, extensionDir, result, "CMake", "cmake-js", args)
}

// findBuiltAddons locates the compiled addon files. cmake-js writes to
// build/Release by default but some generators use build directly.
func (b *CmakeBuilder) findBuiltAddons(extensionDir string) ([]string, error) {
	return findAddonsUnder(extensionDir,
		filepath.Join("build", "Release"),
		"build",
	)
}
