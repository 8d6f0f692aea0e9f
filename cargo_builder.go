package nodeext

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// CargoBuilder handles Rust-based addon builds via Cargo (napi-rs style).
//
// The builder removes any stale artifact at the resolved output path, runs a
// release-mode cargo build with a machine-readable message stream, locates
// the emitted cdylib from that stream, and installs it at the conventional
// output path.
type CargoBuilder struct{}

// Name returns the builder name
func (b *CargoBuilder) Name() string {
	return "Cargo"
}

// RequiredTools returns the tools needed for Cargo builds
func (b *CargoBuilder) RequiredTools() []ToolRequirement {
	return []ToolRequirement{
		{
			Name:    "cargo",
			Purpose: "Rust compiler and package manager",
		},
		{
			Name:     "rustup",
			Optional: true,
			Purpose:  "Rust toolchain manager (needed for cross targets)",
		},
	}
}

// CheckTools verifies that cargo is available
func (b *CargoBuilder) CheckTools() error {
	return CheckRequiredTools(b.RequiredTools())
}

// CanBuild checks if this builder can handle the extension file
func (b *CargoBuilder) CanBuild(extensionFile string) bool {
	return MatchesPattern(extensionFile, `Cargo\.toml$`)
}

// Build compiles the addon using cargo and installs it at the output path
func (b *CargoBuilder) Build(ctx context.Context, config *BuildConfig, extensionFile string) (*BuildResult, error) {
	result := &BuildResult{
		Success: false,
		Output:  []string{},
	}

	extensionPath := filepath.Join(config.PackageDir, extensionFile)
	extensionDir := filepath.Dir(extensionPath)

	// Step 1: Remove any stale artifact so a previous build can never be
	// mistaken for this one.
	if err := RemoveStale(config.OutputPath()); err != nil {
		result.Error = err
		return result, err
	}

	// Step 2: Run cargo and locate the emitted cdylib from its message stream
	artifact, err := b.runCargo(ctx, config, extensionDir, extensionPath, result)
	if err != nil {
		result.Error = err
		return result, err
	}

	// Step 3: Install the artifact at the conventional output path
	if err := b.installArtifact(config, artifact, result); err != nil {
		result.Error = err
		return result, err
	}

	result.Success = true
	return result, nil
}

// Clean removes build artifacts
func (b *CargoBuilder) Clean(ctx context.Context, config *BuildConfig, extensionFile string) error {
	extensionPath := filepath.Join(config.PackageDir, extensionFile)
	extensionDir := filepath.Dir(extensionPath)

	cmd := exec.CommandContext(ctx, b.getCargoPath(), "clean")
	cmd.Dir = extensionDir

	return cmd.Run()
}

// runCargo executes cargo and returns the path of the built cdylib
func (b *CargoBuilder) runCargo(ctx context.Context, config *BuildConfig, extensionDir, manifestPath string, result *BuildResult) (string, error) {
	cargoPath := b.getCargoPath()

	// Release build with a machine-readable message stream on stdout;
	// human-readable diagnostics stay on stderr.
	args := []string{"build", "--release", "--message-format=json-render-diagnostics"}

	if config.Resolved != nil {
		args = append(args, "--target", config.Resolved.Triple)
	}

	// Use locked dependencies if Cargo.lock exists
	lockPath := filepath.Join(extensionDir, "Cargo.lock")
	if _, err := os.Stat(lockPath); err == nil {
		args = append(args, "--locked")
	}

	// Add parallel jobs if specified
	if config.Parallel > 0 {
		args = append(args, "--jobs", fmt.Sprintf("%d", config.Parallel))
	}

	// Clean first if requested
	if config.CleanFirst {
		cleanCmd := exec.CommandContext(ctx, cargoPath, "clean")
		cleanCmd.Dir = extensionDir
		cleanOutput, _ := cleanCmd.CombinedOutput()
		result.Output = append(result.Output, strings.Split(string(cleanOutput), "\n")...)
	}

	// Add any custom build args
	args = append(args, config.BuildArgs...)

	cmd := exec.CommandContext(ctx, cargoPath, args...)
	cmd.Dir = extensionDir

	// Per-target env (the musl RUSTFLAGS) is layered last so it replaces
	// anything inherited or configured; the mutation is scoped to the
	// child process only.
	var extraEnv map[string]string
	if config.Resolved != nil {
		extraEnv = config.Resolved.ExtraEnv
	}
	cmd.Env = mergedEnv(os.Environ(), config.Env, extraEnv)

	if config.Verbose {
		result.Output = append(result.Output,
			fmt.Sprintf("Running: %s %s", cargoPath, strings.Join(args, " ")),
			fmt.Sprintf("Working directory: %s", extensionDir))
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	result.Output = append(result.Output, strings.Split(stderr.String(), "\n")...)

	if runErr != nil {
		return "", BuildError("Cargo", result.Output, runErr)
	}

	artifact, err := parseCargoMessages(&stdout, crateLibName(manifestPath))
	if err != nil {
		return "", BuildError("Cargo", result.Output, err)
	}

	return artifact, nil
}

// installArtifact copies the built cdylib to the output path
func (b *CargoBuilder) installArtifact(config *BuildConfig, artifact string, result *BuildResult) error {
	outputPath := config.OutputPath()

	if err := InstallArtifact(artifact, outputPath); err != nil {
		return BuildError("Cargo", result.Output, err)
	}

	result.Extensions = append(result.Extensions, outputPath)

	if config.Verbose {
		result.Output = append(result.Output, fmt.Sprintf("Copied %s -> %s", artifact, outputPath))
	}

	return nil
}

// cargoMessage is the subset of cargo's JSON message stream this package
// cares about. Only compiler-artifact records carry filenames.
type cargoMessage struct {
	Reason string `json:"reason"`
	Target struct {
		Name string   `json:"name"`
		Kind []string `json:"kind"`
	} `json:"target"`
	Filenames []string `json:"filenames"`
}

// parseCargoMessages scans cargo's JSON message stream for the cdylib built
// from the addon crate itself. Dependency crates also emit compiler-artifact
// records, so when a crate name is known the stream is filtered by it;
// cargo normalizes dashes to underscores in target names, which the
// comparison accounts for.
func parseCargoMessages(r io.Reader, crateName string) (string, error) {
	wantName := normalizeCrateName(crateName)

	var artifact string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var msg cargoMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			// Interleaved non-JSON output; ignore.
			continue
		}

		if msg.Reason != "compiler-artifact" {
			continue
		}
		if !hasKind(msg.Target.Kind, "cdylib") {
			continue
		}
		if wantName != "" && normalizeCrateName(msg.Target.Name) != wantName {
			continue
		}

		if lib := pickDynamicLibrary(msg.Filenames); lib != "" {
			artifact = lib
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read cargo message stream: %w", err)
	}

	if artifact == "" {
		return "", fmt.Errorf("cargo reported no cdylib artifact (crate %q)", crateName)
	}

	return artifact, nil
}

// pickDynamicLibrary returns the first filename with a dynamic library
// extension. A cdylib target can also list an import library (.dll.lib) or
// a static archive alongside it.
func pickDynamicLibrary(filenames []string) string {
	for _, name := range filenames {
		switch strings.ToLower(filepath.Ext(name)) {
		case ".so", ".dylib", ".dll":
			return name
		}
	}
	return ""
}

func hasKind(kinds []string, want string) bool {
	for _, kind := range kinds {
		if kind == want {
			return true
		}
	}
	return false
}

func normalizeCrateName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
}

// cargoManifest is the subset of Cargo.toml needed to identify the addon
// crate in the message stream.
type cargoManifest struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Lib struct {
		Name string `toml:"name"`
	} `toml:"lib"`
}

// crateLibName reads the crate's library name from its manifest, preferring
// an explicit [lib] name over the package name. Returns "" when the
// manifest cannot be read, in which case the message stream is not filtered
// by name.
func crateLibName(manifestPath string) string {
	var manifest cargoManifest
	if _, err := toml.DecodeFile(manifestPath, &manifest); err != nil {
		return ""
	}

	if manifest.Lib.Name != "" {
		return manifest.Lib.Name
	}
	return manifest.Package.Name
}

// getCargoPath returns the path to the cargo executable
func (b *CargoBuilder) getCargoPath() string {
	if cargoPath := os.Getenv("CARGO"); cargoPath != "" {
		return cargoPath
	}
	return "cargo"
}
