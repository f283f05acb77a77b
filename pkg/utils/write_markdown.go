package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeFileName turns an arbitrary label into something usable as a file name.
func SafeFileName(name string) string {
	s := strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "_.")
	if s == "" {
		return "untitled"
	}
	return s
}

// WriteMarkdown writes content to dir/fileName, creating dir, and returns the
// full path written.
func WriteMarkdown(dir, fileName, content string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", path, err)
	}
	log.Printf("written to: %s", path)
	return path, nil
}
