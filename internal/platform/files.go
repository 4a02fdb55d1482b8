package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename limits
const (
	MaxFileNameLength = 200
)

// Characters stripped from generated filenames.
const invalidFileNameChars = `<>:"/\|?*`

// EnsureWritableDir creates dir if it does not exist and verifies it is
// writable by creating and removing a zero-byte probe file. A failure here
// means no download attempt can produce output, so callers treat it as fatal.
func EnsureWritableDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("output directory is empty")
	}
	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	probe := filepath.Join(dir, ".convert2mp3-probe")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("output directory not writable: %w", err)
	}
	f.Close()
	if err := os.Remove(probe); err != nil {
		return fmt.Errorf("remove probe file: %w", err)
	}
	return nil
}

// SanitizeFileName replaces characters that are invalid in filenames and
// caps the length so generated names stay portable. The cap counts runes,
// not bytes, so multi-byte titles are never cut mid-character.
func SanitizeFileName(name string) string {
	for _, c := range invalidFileNameChars {
		name = strings.ReplaceAll(name, string(c), "_")
	}
	name = strings.ReplaceAll(name, " ", "_")
	if utf8.RuneCountInString(name) > MaxFileNameLength {
		name = string([]rune(name)[:MaxFileNameLength])
	}
	return name
}
