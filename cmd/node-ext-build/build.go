package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	nodeext "github.com/contriboss/node-extension-go"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [extension-file]",
	Short: "Compile the native addon for the resolved target",
	Long: `Resolve the build target from the host platform (or overrides), run the
matching build system, and install the addon at native/<platform-key>.node.

The extension file defaults to Cargo.toml; binding.gyp and CMakeLists.txt
are also recognized.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("platform", "", "target platform override (darwin, linux, win32)")
	buildCmd.Flags().String("arch", "", "target arch override (x64, arm64)")
	buildCmd.Flags().String("libc", "", "libc family override, Linux only (glibc, musl)")
	buildCmd.Flags().StringP("package-dir", "C", ".", "Node.js package root directory")
	buildCmd.Flags().String("out-dir", "", "output directory (default native/)")
	buildCmd.Flags().IntP("jobs", "j", 0, "parallel build jobs (0 = build system default)")
	buildCmd.Flags().Bool("clean-first", false, "run the build system's clean step first")
	buildCmd.Flags().BoolP("verbose", "v", false, "print build output and invocations")
}

func runBuild(cmd *cobra.Command, args []string) error {
	extensionFile := "Cargo.toml"
	if len(args) == 1 {
		extensionFile = args[0]
	}

	resolved, err := nodeext.Resolve(resolveConfigFromFlags(cmd))
	if err != nil {
		// Unsupported target: fail before anything spawns.
		return err
	}

	packageDir, _ := cmd.Flags().GetString("package-dir")
	jobs, _ := cmd.Flags().GetInt("jobs")
	cleanFirst, _ := cmd.Flags().GetBool("clean-first")
	verbose, _ := cmd.Flags().GetBool("verbose")

	config := &nodeext.BuildConfig{
		PackageDir:    packageDir,
		Resolved:      resolved,
		Parallel:      jobs,
		CleanFirst:    cleanFirst,
		Verbose:       verbose,
		StopOnFailure: true,
	}

	color.New(color.FgCyan).Fprintf(os.Stderr, "building %s (%s)\n", resolved.Key, resolved.Triple)

	factory := nodeext.NewBuilderFactory()

	builder, err := factory.BuilderFor(extensionFile)
	if err != nil {
		return err
	}
	if checker, ok := builder.(nodeext.ToolChecker); ok {
		if err := checker.CheckTools(); err != nil {
			return fmt.Errorf("build tools missing: %w", err)
		}
	}

	results, err := factory.BuildAllExtensions(cmd.Context(), config, []string{extensionFile})
	if verbose {
		for _, result := range results {
			for _, line := range result.Output {
				fmt.Fprintln(os.Stderr, line)
			}
		}
	}
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(os.Stderr, "built %s\n", resolved.OutputPath)
	return nil
}

// resolveConfigFromFlags assembles the resolver input once, here at the
// entry point: flags win over environment variables, and the environment is
// never read again past this function.
func resolveConfigFromFlags(cmd *cobra.Command) nodeext.ResolveConfig {
	platform, _ := cmd.Flags().GetString("platform")
	arch, _ := cmd.Flags().GetString("arch")
	libc, _ := cmd.Flags().GetString("libc")
	outDir, _ := cmd.Flags().GetString("out-dir")

	if platform == "" {
		platform = os.Getenv("TARGET_PLATFORM")
	}
	if arch == "" {
		arch = os.Getenv("TARGET_ARCH")
	}
	if libc == "" {
		libc = os.Getenv("TARGET_LIBC")
	}

	return nodeext.ResolveConfig{
		Platform:  platform,
		Arch:      arch,
		Libc:      libc,
		LibcProbe: nodeext.DetectLibc,
		OutputDir: outDir,
	}
}
