package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrOutsideDir = errors.New("security: path escapes output directory")
	ErrExtension  = errors.New("security: file extension not allowed")
)

// canonical returns the absolute path of p with symlinks resolved. When p
// does not exist yet, the deepest existing ancestor is resolved and the
// rest of the path is joined back on, so a symlinked parent directory
// cannot redirect a new file elsewhere.
func canonical(p string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}
	for dir := filepath.Dir(abs); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rel, err := filepath.Rel(dir, abs)
			if err != nil {
				return "", err
			}
			return filepath.Join(resolved, rel), nil
		}
		if filepath.Dir(dir) == dir {
			return abs, nil
		}
	}
}

// ValidateWithinDir reports ErrOutsideDir when path, after resolving
// symlinks, is not inside dir.
func ValidateWithinDir(path, dir string) error {
	cp, err := canonical(path)
	if err != nil {
		return err
	}
	cd, err := canonical(dir)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(cd, cp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutsideDir, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s is not within %s", ErrOutsideDir, path, dir)
	}
	return nil
}

// ValidateOutputPath checks a file the CLI is about to write: it must sit
// inside dir and, when exts is non-empty, carry one of those extensions
// (compared case-insensitively, leading dot included).
func ValidateOutputPath(path, dir string, exts ...string) error {
	if len(exts) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		ok := false
		for _, e := range exts {
			if ext == strings.ToLower(e) {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %q (want one of %v)", ErrExtension, filepath.Ext(path), exts)
		}
	}
	return ValidateWithinDir(path, dir)
}

// ValidateExportPath allows files under the working directory or the
// system temp directory.
func ValidateExportPath(path string, exts ...string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	var firstErr error
	for _, dir := range []string{cwd, os.TempDir()} {
		err := ValidateOutputPath(path, dir, exts...)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrExtension) {
			return err
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SanitizeFilename turns an object name into a file name component.
// Anything other than ASCII letters, digits, dot, underscore or dash
// becomes a single underscore; the result is capped at 128 bytes.
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
