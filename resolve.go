package nodeext

import (
	"fmt"
	"path/filepath"
)

// outputDirName is the conventional directory the package loader searches
// for compiled addons, relative to the package root.
const outputDirName = "native"

// ResolveConfig carries the inputs to target resolution.
//
// All fields are optional. Platform, Arch and Libc override host detection
// and exist so a CI system can cross-build for a platform other than the one
// it runs on; they map one-to-one to the TARGET_PLATFORM, TARGET_ARCH and
// TARGET_LIBC environment variables, which the entry point reads once and
// copies here. Resolve itself never touches the environment.
type ResolveConfig struct {
	Platform string // Node platform name override (darwin, linux, win32)
	Arch     string // Node arch name override (x64, arm64)
	Libc     string // libc family override, Linux only (glibc, musl)

	// LibcProbe detects the host C library family. Called only when the
	// effective platform is Linux and no Libc override is given. A probe
	// returning LibcUnknown falls back to defaultLibc.
	LibcProbe func() LibcFamily

	// OutputDir overrides the conventional "native" output directory.
	OutputDir string
}

// ResolvedTarget is the output of target resolution, consumed immediately
// by a builder. It is never persisted.
type ResolvedTarget struct {
	Key        string            // The platform key that matched the target table
	OutputPath string            // Where the compiled addon must end up, e.g. native/linux-x64-glibc.node
	Triple     string            // Rust target triple handed to cargo
	ExtraEnv   map[string]string // Environment overrides for the toolchain invocation
	Libc       LibcFamily        // Effective libc family, LibcUnknown outside Linux
}

// UnsupportedTargetError reports a platform/arch/libc combination with no
// entry in the target table. Key carries the exact attempted key so
// operators know which row to add.
type UnsupportedTargetError struct {
	Key string
}

func (e *UnsupportedTargetError) Error() string {
	return fmt.Sprintf("unsupported build target %q (supported: %v)", e.Key, SupportedTargets())
}

// Resolve maps the effective platform to a build target.
//
// Overrides in config take precedence over host detection. On Linux the
// libc component comes from the override, then the probe, then the glibc
// default. The returned ExtraEnv is empty except for musl targets, which
// need static C-runtime linkage disabled:
// certain C-runtime features assumed by default compilation are unavailable
// when statically linking against musl, so the build must force dynamic
// linkage via RUSTFLAGS.
func Resolve(config ResolveConfig) (*ResolvedTarget, error) {
	platform := config.Platform
	if platform == "" {
		platform = hostPlatform()
	}

	arch := config.Arch
	if arch == "" {
		arch = hostArch()
	}

	libc := LibcUnknown
	if platform == platformLinux {
		var err error
		libc, err = ParseLibcFamily(config.Libc)
		if err != nil {
			return nil, err
		}
		if libc == LibcUnknown && config.LibcProbe != nil {
			libc = config.LibcProbe()
		}
		if libc == LibcUnknown {
			libc = defaultLibc
		}
	}

	key := PlatformKey(platform, arch, libc)

	spec, ok := targetTable[key]
	if !ok {
		return nil, &UnsupportedTargetError{Key: key}
	}

	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = outputDirName
	}

	extraEnv := map[string]string{}
	if libc == LibcMusl {
		extraEnv["RUSTFLAGS"] = "-C target-feature=-crt-static"
	}

	return &ResolvedTarget{
		Key:        key,
		OutputPath: filepath.Join(outputDir, spec.ArtifactName),
		Triple:     spec.Triple,
		ExtraEnv:   extraEnv,
		Libc:       libc,
	}, nil
}
