package nodeext

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RemoveStale deletes any file already present at the output path.
//
// Builders call this before spawning the toolchain, so a failed or
// differently-targeted build from an earlier run can never be mistaken for
// the fresh artifact. A missing file is fine; any other deletion failure
// (permissions, path is a directory) is fatal and must abort the build.
func RemoveStale(outputPath string) error {
	if outputPath == "" {
		return nil
	}

	err := os.Remove(outputPath)
	if err == nil || os.IsNotExist(err) {
		return nil
	}
	return fmt.Errorf("failed to remove stale artifact %s: %w", outputPath, err)
}

// InstallArtifact copies a built addon to the output path, creating the
// output directory as needed. After a successful call exactly one file
// exists at outputPath.
func InstallArtifact(builtPath, outputPath string) error {
	if outputPath == "" {
		return fmt.Errorf("no output path configured for artifact %s", builtPath)
	}

	info, err := os.Stat(builtPath)
	if err != nil {
		return fmt.Errorf("built artifact missing: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("built artifact %s is not a regular file", builtPath)
	}

	return copyFile(builtPath, outputPath)
}

// copyFile copies src to dst, preserving the source file mode and
// truncating any existing destination.
func copyFile(srcPath, destPath string) error {
	info, err := os.Stat(srcPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(destPath)
	if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
		return mkErr
	}

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
