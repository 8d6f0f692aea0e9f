package nodeext

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// Platform constants, in Node.js process.platform naming.
const (
	platformDarwin  = "darwin"
	platformLinux   = "linux"
	platformWindows = "win32"
)

// LibcFamily identifies the C standard library variant on a Linux host.
// The family determines both the platform key and the Rust target
// environment, because binaries linked against one family do not load
// against the other.
type LibcFamily string

const (
	LibcGlibc   LibcFamily = "glibc"
	LibcMusl    LibcFamily = "musl"
	LibcUnknown LibcFamily = ""
)

// defaultLibc is assumed when no override is given and detection comes up
// empty. glibc is overwhelmingly the common case, and failing the whole
// build over a detection gap in a minimal container helps nobody.
const defaultLibc = LibcGlibc

// targetSpec is one row of the platform table: the artifact filename the
// package loader expects and the Rust target triple that produces it.
type targetSpec struct {
	ArtifactName string
	Triple       string
}

// targetTable maps platform keys (os-arch, plus -libc on Linux) to build
// targets. The table is fixed at compile time; extending platform support
// means adding a row here and shipping a new release.
var targetTable = map[string]targetSpec{
	"darwin-x64":        {"darwin-x64.node", "x86_64-apple-darwin"},
	"darwin-arm64":      {"darwin-arm64.node", "aarch64-apple-darwin"},
	"win32-x64":         {"win32-x64.node", "x86_64-pc-windows-msvc"},
	"win32-arm64":       {"win32-arm64.node", "aarch64-pc-windows-msvc"},
	"linux-x64-glibc":   {"linux-x64-glibc.node", "x86_64-unknown-linux-gnu"},
	"linux-x64-musl":    {"linux-x64-musl.node", "x86_64-unknown-linux-musl"},
	"linux-arm64-glibc": {"linux-arm64-glibc.node", "aarch64-unknown-linux-gnu"},
	"linux-arm64-musl":  {"linux-arm64-musl.node", "aarch64-unknown-linux-musl"},
}

// PlatformKey builds the composite identity used to index the target table.
// The libc component participates only on Linux; every other OS is keyed by
// os-arch alone.
func PlatformKey(platform, arch string, libc LibcFamily) string {
	if platform == platformLinux {
		return strings.Join([]string{platform, arch, string(libc)}, "-")
	}
	return strings.Join([]string{platform, arch}, "-")
}

// SupportedTargets returns the platform keys of the target table in sorted
// order, for help output and error messages.
func SupportedTargets() []string {
	keys := make([]string, 0, len(targetTable))
	for key := range targetTable {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// hostPlatform translates runtime.GOOS into Node.js process.platform naming.
func hostPlatform() string {
	switch runtime.GOOS {
	case "windows":
		return platformWindows
	default:
		return runtime.GOOS
	}
}

// hostArch translates runtime.GOARCH into Node.js process.arch naming.
func hostArch() string {
	switch runtime.GOARCH {
	case "amd64":
		return "x64"
	case "386":
		return "ia32"
	default:
		return runtime.GOARCH
	}
}

// ParseLibcFamily normalizes a user-supplied libc override. Unrecognized
// values are rejected rather than silently defaulted, so a typo in
// TARGET_LIBC fails loudly instead of producing a glibc artifact.
func ParseLibcFamily(value string) (LibcFamily, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return LibcUnknown, nil
	case "glibc", "gnu":
		return LibcGlibc, nil
	case "musl":
		return LibcMusl, nil
	default:
		return LibcUnknown, fmt.Errorf("unknown libc family %q (expected glibc or musl)", value)
	}
}
