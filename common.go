package nodeext

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// runCommonBuild executes the standard 3-step build process.
//
// Native addon build systems follow a similar pattern:
//  1. Configure: Prepare the build (remove stale artifacts, verify tools)
//  2. Build: Compile the addon using the build system
//  3. Find: Locate the compiled addon files (.node)
//
// This function provides a consistent way to execute this pattern, allowing
// builders to focus on implementing their specific logic for each step.
//
// If any step returns an error:
//   - result.Error is set to the error
//   - result.Success remains false
//   - The BuildResult and error are returned
//   - Subsequent steps are not executed
//
// The BuildResult.Output field is populated by the step functions as they
// execute.
func runCommonBuild(ctx context.Context, config *BuildConfig, extensionFile string, steps CommonBuildSteps) (*BuildResult, error) {
	result := &BuildResult{
		Success: false,
		Output:  []string{},
	}

	// Calculate extension directory
	extensionPath := filepath.Join(config.PackageDir, extensionFile)
	extensionDir := filepath.Dir(extensionPath)

	// Step 1: Configure/prepare the build
	if err := steps.ConfigureFunc(ctx, config, extensionDir, result); err != nil {
		result.Error = err
		return result, err
	}

	// Step 2: Build/compile the addon
	if err := steps.BuildFunc(ctx, config, extensionDir, result); err != nil {
		result.Error = err
		return result, err
	}

	// Step 3: Find the built addon files
	extensions, err := steps.FindFunc(extensionDir)
	if err != nil {
		result.Error = err
		return result, err
	}

	result.Extensions = extensions
	result.Success = true
	return result, nil
}

// runBuildCommand runs a build tool in the extension directory with the
// merged environment, capturing its combined output into the result.
// Returns a formatted BuildError on non-zero exit.
func runBuildCommand(ctx context.Context, config *BuildConfig, extensionDir string, result *BuildResult, builderName, program string, args []string) error {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = extensionDir

	var extraEnv map[string]string
	if config.Resolved != nil {
		extraEnv = config.Resolved.ExtraEnv
	}
	cmd.Env = mergedEnv(os.Environ(), config.Env, extraEnv)

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: %s %s", program, strings.Join(args, " ")),
			fmt.Sprintf("Working directory: %s", extensionDir))
	}

	output, err := cmd.CombinedOutput()
	result.Output = append(result.Output, strings.Split(string(output), "\n")...)

	if err != nil {
		return BuildError(builderName, result.Output, err)
	}

	return nil
}
