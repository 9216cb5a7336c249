package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern selects every ReSpecTh file below the input folder.
const DefaultPattern = "**/*.xml"

// ResolveInputs expands patterns relative to root into a sorted list of
// ReSpecTh files. A pattern without glob characters names a file, or a
// directory searched with DefaultPattern.
//
// Examples:
//   - "**/*.xml" → every .xml file below root
//   - "ignition/x1000*.xml" → matching files of one folder
//   - "flames" → root/flames/**/*.xml
func ResolveInputs(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}

	var resolved []string
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		paths, err := resolvePattern(root, pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}
		for _, p := range paths {
			if !seen[p] {
				seen[p] = true
				resolved = append(resolved, p)
			}
		}
	}

	sort.Strings(resolved)
	return resolved, nil
}

func resolvePattern(root, pattern string) ([]string, error) {
	if !filepath.IsAbs(pattern) {
		pattern = filepath.Join(root, pattern)
	}
	absPattern, err := filepath.Abs(pattern)
	if err != nil {
		return nil, err
	}

	if !containsGlob(absPattern) {
		info, err := os.Stat(absPattern)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			return []string{absPattern}, nil
		}
		absPattern = filepath.Join(absPattern, DefaultPattern)
	}

	matches, err := doublestar.FilepathGlob(absPattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, match)
	}
	return files, nil
}

// containsGlob checks if a pattern contains glob characters.
func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// IsInput reports whether path looks like a ReSpecTh file.
func IsInput(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}
