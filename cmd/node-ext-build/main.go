// node-ext-build resolves the host platform to a native addon build target
// and drives the toolchain to produce the artifact at its conventional path.
package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "node-ext-build",
	Short: "Build Node.js native extension artifacts",
	Long: `node-ext-build maps the host (or overridden) platform to a canonical
build target, invokes the native toolchain, and places the compiled addon at
its conventional path under native/.

Cross-builds are driven with TARGET_PLATFORM, TARGET_ARCH and TARGET_LIBC,
or the equivalent flags. These may also be placed in a .env file in the
working directory.`,
	SilenceUsage: true,
}

func main() {
	// A .env file is a convenience for CI images that cannot export
	// variables; a missing file is the normal case.
	_ = godotenv.Load()

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(targetsCmd)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "error: ")
		color.New(color.FgRed).Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
