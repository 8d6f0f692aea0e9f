package nodeext

import (
	"errors"
	"path/filepath"
	"testing"
)

func staticProbe(family LibcFamily) func() LibcFamily {
	return func() LibcFamily { return family }
}

func TestResolveSupportedTargets(t *testing.T) {
	testCases := []struct {
		platform       string
		arch           string
		expectedFile   string
		expectedTriple string
	}{
		{"darwin", "x64", "darwin-x64.node", "x86_64-apple-darwin"},
		{"darwin", "arm64", "darwin-arm64.node", "aarch64-apple-darwin"},
		{"win32", "x64", "win32-x64.node", "x86_64-pc-windows-msvc"},
		{"win32", "arm64", "win32-arm64.node", "aarch64-pc-windows-msvc"},
	}

	for _, tc := range testCases {
		t.Run(tc.platform+"-"+tc.arch, func(t *testing.T) {
			resolved, err := Resolve(ResolveConfig{Platform: tc.platform, Arch: tc.arch})
			if err != nil {
				t.Fatalf("Expected resolution for %s-%s, got error: %v", tc.platform, tc.arch, err)
			}

			expectedPath := filepath.Join("native", tc.expectedFile)
			if resolved.OutputPath != expectedPath {
				t.Errorf("Expected output path %s, got %s", expectedPath, resolved.OutputPath)
			}

			if resolved.Triple != tc.expectedTriple {
				t.Errorf("Expected triple %s, got %s", tc.expectedTriple, resolved.Triple)
			}

			if len(resolved.ExtraEnv) != 0 {
				t.Errorf("Expected empty extra env outside Linux, got %v", resolved.ExtraEnv)
			}
		})
	}
}

func TestResolveLinuxLibc(t *testing.T) {
	testCases := []struct {
		name          string
		libc          string
		probe         LibcFamily
		expectedKey   string
		wantRustflags bool
	}{
		{"musl override", "musl", LibcGlibc, "linux-x64-musl", true},
		{"glibc override", "glibc", LibcMusl, "linux-x64-glibc", false},
		{"probe musl", "", LibcMusl, "linux-x64-musl", true},
		{"probe glibc", "", LibcGlibc, "linux-x64-glibc", false},
		{"probe unknown defaults to glibc", "", LibcUnknown, "linux-x64-glibc", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolved, err := Resolve(ResolveConfig{
				Platform:  "linux",
				Arch:      "x64",
				Libc:      tc.libc,
				LibcProbe: staticProbe(tc.probe),
			})
			if err != nil {
				t.Fatalf("Unexpected resolution error: %v", err)
			}

			if resolved.Key != tc.expectedKey {
				t.Errorf("Expected key %s, got %s", tc.expectedKey, resolved.Key)
			}

			rustflags, ok := resolved.ExtraEnv["RUSTFLAGS"]
			if tc.wantRustflags {
				if !ok || rustflags != "-C target-feature=-crt-static" {
					t.Errorf("Expected crt-static disabling RUSTFLAGS for musl, got %v", resolved.ExtraEnv)
				}
			} else if ok {
				t.Errorf("Expected no RUSTFLAGS for %s, got %q", tc.expectedKey, rustflags)
			}
		})
	}
}

func TestResolveWithoutProbeDefaultsToGlibc(t *testing.T) {
	resolved, err := Resolve(ResolveConfig{Platform: "linux", Arch: "arm64"})
	if err != nil {
		t.Fatalf("Unexpected resolution error: %v", err)
	}

	if resolved.Key != "linux-arm64-glibc" {
		t.Errorf("Expected linux-arm64-glibc without probe, got %s", resolved.Key)
	}

	if resolved.Libc != LibcGlibc {
		t.Errorf("Expected effective libc glibc, got %q", resolved.Libc)
	}
}

func TestResolveUnsupportedTarget(t *testing.T) {
	testCases := []struct {
		platform    string
		arch        string
		expectedKey string
	}{
		{"openbsd", "x64", "openbsd-x64"},
		{"freebsd", "x64", "freebsd-x64"},
		{"linux", "s390x", "linux-s390x-glibc"},
		{"darwin", "ia32", "darwin-ia32"},
	}

	for _, tc := range testCases {
		t.Run(tc.expectedKey, func(t *testing.T) {
			_, err := Resolve(ResolveConfig{Platform: tc.platform, Arch: tc.arch})
			if err == nil {
				t.Fatalf("Expected resolution failure for %s-%s", tc.platform, tc.arch)
			}

			var unsupported *UnsupportedTargetError
			if !errors.As(err, &unsupported) {
				t.Fatalf("Expected *UnsupportedTargetError, got %T: %v", err, err)
			}

			if unsupported.Key != tc.expectedKey {
				t.Errorf("Expected attempted key %q, got %q", tc.expectedKey, unsupported.Key)
			}
		})
	}
}

func TestResolveOverridesBeatProbe(t *testing.T) {
	// Even a probe that swears the host is musl loses to an explicit
	// override, so CI can cross-build from an Alpine runner.
	resolved, err := Resolve(ResolveConfig{
		Platform:  "linux",
		Arch:      "x64",
		Libc:      "glibc",
		LibcProbe: staticProbe(LibcMusl),
	})
	if err != nil {
		t.Fatalf("Unexpected resolution error: %v", err)
	}

	if resolved.Key != "linux-x64-glibc" {
		t.Errorf("Expected override to win, got key %s", resolved.Key)
	}
}

func TestResolveOverridesBeatHostDetection(t *testing.T) {
	// Platform/arch overrides fully determine the target regardless of
	// the host this test runs on.
	resolved, err := Resolve(ResolveConfig{Platform: "darwin", Arch: "arm64"})
	if err != nil {
		t.Fatalf("Unexpected resolution error: %v", err)
	}

	if resolved.Key != "darwin-arm64" {
		t.Errorf("Expected darwin-arm64, got %s", resolved.Key)
	}
	if resolved.Triple != "aarch64-apple-darwin" {
		t.Errorf("Expected aarch64-apple-darwin, got %s", resolved.Triple)
	}
}

func TestResolveMuslEndToEnd(t *testing.T) {
	resolved, err := Resolve(ResolveConfig{
		Platform:  "linux",
		Arch:      "x64",
		LibcProbe: staticProbe(LibcMusl),
	})
	if err != nil {
		t.Fatalf("Unexpected resolution error: %v", err)
	}

	if expected := filepath.Join("native", "linux-x64-musl.node"); resolved.OutputPath != expected {
		t.Errorf("Expected output path %s, got %s", expected, resolved.OutputPath)
	}
	if resolved.Triple != "x86_64-unknown-linux-musl" {
		t.Errorf("Expected x86_64-unknown-linux-musl, got %s", resolved.Triple)
	}
	if resolved.ExtraEnv["RUSTFLAGS"] != "-C target-feature=-crt-static" {
		t.Errorf("Expected crt-static disabling RUSTFLAGS, got %v", resolved.ExtraEnv)
	}
}

func TestResolveRejectsBadLibcOverride(t *testing.T) {
	_, err := Resolve(ResolveConfig{Platform: "linux", Arch: "x64", Libc: "uclibc"})
	if err == nil {
		t.Fatal("Expected error for unknown libc override")
	}
}

func TestResolveCustomOutputDir(t *testing.T) {
	resolved, err := Resolve(ResolveConfig{Platform: "darwin", Arch: "x64", OutputDir: "prebuilds"})
	if err != nil {
		t.Fatalf("Unexpected resolution error: %v", err)
	}

	if expected := filepath.Join("prebuilds", "darwin-x64.node"); resolved.OutputPath != expected {
		t.Errorf("Expected output path %s, got %s", expected, resolved.OutputPath)
	}
}

func TestPlatformKey(t *testing.T) {
	testCases := []struct {
		platform string
		arch     string
		libc     LibcFamily
		expected string
	}{
		{"linux", "x64", LibcGlibc, "linux-x64-glibc"},
		{"linux", "arm64", LibcMusl, "linux-arm64-musl"},
		{"darwin", "arm64", LibcUnknown, "darwin-arm64"},
		// libc never participates outside Linux, even if supplied
		{"win32", "x64", LibcGlibc, "win32-x64"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if key := PlatformKey(tc.platform, tc.arch, tc.libc); key != tc.expected {
				t.Errorf("PlatformKey(%s, %s, %s) = %s, expected %s",
					tc.platform, tc.arch, tc.libc, key, tc.expected)
			}
		})
	}
}

func TestParseLibcFamily(t *testing.T) {
	testCases := []struct {
		input    string
		expected LibcFamily
		wantErr  bool
	}{
		{"glibc", LibcGlibc, false},
		{"gnu", LibcGlibc, false},
		{"musl", LibcMusl, false},
		{"MUSL", LibcMusl, false},
		{" glibc ", LibcGlibc, false},
		{"", LibcUnknown, false},
		{"uclibc", LibcUnknown, true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			family, err := ParseLibcFamily(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for %q: %v", tc.input, err)
			}
			if family != tc.expected {
				t.Errorf("ParseLibcFamily(%q) = %q, expected %q", tc.input, family, tc.expected)
			}
		})
	}
}

func TestSupportedTargetsSorted(t *testing.T) {
	targets := SupportedTargets()
	if len(targets) != len(targetTable) {
		t.Fatalf("Expected %d targets, got %d", len(targetTable), len(targets))
	}

	for i := 1; i < len(targets); i++ {
		if targets[i-1] >= targets[i] {
			t.Errorf("Targets not sorted: %s before %s", targets[i-1], targets[i])
		}
	}
}
