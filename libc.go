package nodeext

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// DetectLibc probes the host for its C library family.
//
// Detection is best-effort: musl systems (Alpine and friends) ship their
// dynamic loader as /lib/ld-musl-<arch>.so.1, which is the cheapest reliable
// signal, so that is checked first. Failing that, the version banner of ldd
// is inspected - musl's ldd prints "musl libc", glibc's prints "GNU libc" or
// "GLIBC". When neither signal is present, LibcUnknown is returned and the
// resolver applies its default.
//
// On non-Linux hosts the answer is always LibcUnknown; the libc family only
// participates in Linux platform keys.
func DetectLibc() LibcFamily {
	if hostPlatform() != platformLinux {
		return LibcUnknown
	}

	if matches, err := filepath.Glob("/lib/ld-musl-*.so*"); err == nil && len(matches) > 0 {
		return LibcMusl
	}

	// ldd --version exits non-zero on musl, so the output matters more
	// than the error.
	out, _ := exec.Command("ldd", "--version").CombinedOutput()
	return classifyLddOutput(string(out))
}

// classifyLddOutput maps an `ldd --version` banner to a libc family.
func classifyLddOutput(output string) LibcFamily {
	lowered := strings.ToLower(output)

	switch {
	case strings.Contains(lowered, "musl"):
		return LibcMusl
	case strings.Contains(lowered, "glibc"), strings.Contains(lowered, "gnu libc"):
		return LibcGlibc
	default:
		return LibcUnknown
	}
}
