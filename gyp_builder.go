package nodeext

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// GypBuilder handles binding.gyp files - traditional C/C++ addons built with
// node-gyp.
type GypBuilder struct{}

// Name returns the builder name
func (b *GypBuilder) Name() string {
	return "Gyp"
}

// RequiredTools returns the tools needed for node-gyp builds
func (b *GypBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:    "node-gyp",
			Purpose: "Node.js native addon build tool",
		},
		{
			Name:         "gcc",
			Alternatives: []string{"clang", "cc", "cl"},
			Purpose:      "C/C++ compiler for native addons",
		},
		{
			Name:     "python3",
			Optional: true,
			Purpose:  "Used by gyp to generate build files",
		},
	}
}

// CheckTools verifies that node-gyp and a C compiler are available
func (b *GypBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// CanBuild checks if this builder can handle the extension file
func (b *GypBuilder) CanBuild(extensionFile string) bool {
	return MatchesPattern(extensionFile, `binding\.gyp$`)
}

// Build compiles the addon using the node-gyp configure → build workflow
func (b *GypBuilder) Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error) {
	result, err := runCommonBuild(ctx, config, extensionFile, CommonBuildSteps{
		ConfigureFunc: b.runConfigure,
		BuildFunc:     b.runBuild,
		FindFunc:      b.findBuiltAddons,
	})
	if err != nil {
		return result, err
	}

	if err := installFirstAddon(config, extensionFile, result, "Gyp"); err != nil {
		result.Success = false
		result.Error = err
		return result, err
	}

	return result, nil
}

// Clean removes build artifacts
func (b *GypBuilder) Clean(ctx context.Context, config *BuildConfig, extensionFile string) error {
	extensionPath := filepath.Join(config.PackageDir, extensionFile)
	extensionDir := filepath.Dir(extensionPath)

	cmd := exec.CommandContext(ctx, "node-gyp", "clean")
	cmd.Dir = extensionDir

	return cmd.Run()
}

// runConfigure removes stale output and runs node-gyp configure
func (b *GypBuilder) runConfigure(ctx context.Context, config *BuildConfig, extensionDir string, result *BuildResult) error {
	if err := RemoveStale(config.OutputPath()); err != nil {
		return err
	}

	args := []string{"configure"}
	args = append(args, config.BuildArgs...)

	return runBuildCommand(ctx, config, extensionDir, result, "Gyp", "node-gyp", args)
}

// runBuild runs node-gyp build (Release is node-gyp's default configuration)
func (b *GypBuilder) runBuild(ctx context.Context, config *BuildConfig, extensionDir string, result *BuildResult) error {
	args := []string{"build"}

	if config.Parallel > 0 {
		args = append(args, fmt.Sprintf("--jobs=%d", config.Parallel))
	}

	if config.CleanFirst {
		cleanCmd := exec.CommandContext(ctx, "node-gyp", "clean")
		cleanCmd.Dir = extensionDir
		cleanOutput, _ := cleanCmd.CombinedOutput()
		result.Output = append(result.Output, strings.Split(string(cleanOutput), "\n")...)
	}

	return runBuildCommand(ctx, config, extensionDir, result, "Gyp", "node-gyp", args)
}

// findBuiltAddons locates the compiled addon files
func (b *GypBuilder) findBuiltAddons(extensionDir string) ([]string, error) {
	return findAddonsUnder(extensionDir, filepath.Join("build", "Release"))
}

// installFirstAddon copies the first located .node file to the configured
// output path. Shared by the gyp and cmake-js builders, whose build systems
// leave the addon under build/Release rather than reporting its path.
//
// A build that exits 0 without producing an addon is still a failure when an
// output path is configured: the stale artifact was already removed, so
// reporting success would leave nothing at the documented path.
func installFirstAddon(config *BuildConfig, extensionFile string, result *BuildResult, builderName string) error {
	outputPath := config.OutputPath()
	if outputPath == "" {
		return nil
	}

	if len(result.Extensions) == 0 {
		return BuildError(builderName, result.Output,
			fmt.Errorf("no .node artifact found after build"))
	}

	extensionDir := filepath.Dir(filepath.Join(config.PackageDir, extensionFile))
	builtPath := filepath.Join(extensionDir, result.Extensions[0])

	if err := InstallArtifact(builtPath, outputPath); err != nil {
		return BuildError(builderName, result.Output, err)
	}

	result.Extensions = append([]string{outputPath}, result.Extensions[1:]...)

	if config.Verbose {
		result.Output = append(result.Output, fmt.Sprintf("Copied %s -> %s", builtPath, outputPath))
	}

	return nil
}

// findAddonsUnder globs for .node files in the given subdirectories of the
// extension directory, returning paths relative to the extension directory.
func findAddonsUnder(extensionDir string, subdirs ...string) ([]string, error) {
	var addons []string

	for _, subdir := range subdirs {
		searchDir := filepath.Join(extensionDir, subdir)
		if _, err := os.Stat(searchDir); os.IsNotExist(err) {
			continue
		}

		matches, err := filepath.Glob(filepath.Join(searchDir, "*.node"))
		if err != nil {
			return nil, fmt.Errorf("failed to glob in %s: %v", searchDir, err)
		}

		for _, match := range matches {
			if relPath, err := filepath.Rel(extensionDir, match); err == nil {
				addons = append(addons, relPath)
			}
		}
	}

	return addons, nil
}
