// Package nodeext provides native extension compilation support for Node.js
// packages.
//
// This package is the Go equivalent of the build scripts that ship with
// napi-rs and node-pre-gyp style packages: it resolves the host platform to a
// canonical build target, drives the native toolchain, and places the
// compiled addon at the conventional location where the package loader
// expects to find it.
//
// # Supported Build Systems
//
// The package includes builders for:
//   - Cargo.toml - Rust-based addons via napi-rs/Cargo (most common)
//   - binding.gyp - Traditional C/C++ addons via node-gyp
//   - CMakeLists.txt - CMake-based addons via cmake-js
//
// # Basic Usage
//
// Resolve the build target, then build:
//
//	resolved, err := nodeext.Resolve(nodeext.ResolveConfig{
//	    Platform:  os.Getenv("TARGET_PLATFORM"),
//	    Arch:      os.Getenv("TARGET_ARCH"),
//	    Libc:      os.Getenv("TARGET_LIBC"),
//	    LibcProbe: nodeext.DetectLibc,
//	})
//	if err != nil {
//	    // *UnsupportedTargetError names the rejected platform key
//	}
//
//	config := &nodeext.BuildConfig{
//	    PackageDir: "/path/to/package",
//	    Resolved:   resolved,
//	    Verbose:    true,
//	}
//
//	factory := nodeext.NewBuilderFactory()
//	results, err := factory.BuildAllExtensions(ctx, config, []string{"Cargo.toml"})
//
// # Architecture
//
// The package uses a factory pattern with registered builders:
//
//	BuilderFactory
//	├── CargoBuilder (Cargo.toml)
//	├── GypBuilder (binding.gyp)
//	└── CmakeBuilder (CMakeLists.txt)
//
// Each builder implements the Builder interface and can:
//   - Detect if it can handle a given extension file
//   - Build the addon with proper error handling
//   - Clean build artifacts
//
// Target resolution is a pure function over an explicit ResolveConfig: the
// environment is read exactly once at the entry point, never inside the
// resolver, so cross-builds are driven by setting TARGET_PLATFORM,
// TARGET_ARCH and (on Linux) TARGET_LIBC.
//
// # Requirements
//
// Requires Go 1.25 or later.
//
// # Platform Support
//
// macOS (x64/arm64), Windows (x64/arm64), and Linux (x64/arm64, glibc and
// musl). Cross-compilation works with the matching Rust target installed.
package nodeext
