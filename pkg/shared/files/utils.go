package files

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SkippedDirs are directory names never descended into during discovery.
var SkippedDirs = []string{"node_modules", "vendor", "__pycache__", ".venv", "venv"}

// ExpandPath resolves paths that include a tilde (~) to the user's home directory.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(homeDir, path[2:]), nil
	}
	return path, nil
}

// ValidatePath checks if the given path is a valid file path for reading.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path stat error: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("path %q is a directory, not a file", path)
	}

	if info.Mode()&os.ModeType != 0 {
		return fmt.Errorf("path %q is not a regular file", path)
	}
	return nil
}

// CreateFolderIfNotExists checks if a folder exists, and if not, creates it.
func CreateFolderIfNotExists(folder string) error {
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		if err := os.MkdirAll(folder, os.ModePerm); err != nil {
			return fmt.Errorf("unable to create folder %q: %w", folder, err)
		}
	} else if err != nil {
		return fmt.Errorf("unable to check folder %q: %w", folder, err)
	}
	return nil
}

// WriteFile writes data to outputFile, creating its folder when needed.
func WriteFile(outputFile string, data []byte) error {
	outputFile, err := ExpandPath(outputFile)
	if err != nil {
		return fmt.Errorf("failed to unwrap path %q: %w", outputFile, err)
	}
	if err := CreateFolderIfNotExists(filepath.Dir(outputFile)); err != nil {
		return err
	}

	file, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed creating file: %w", err)
	}
	defer file.Close()

	datawriter := bufio.NewWriter(file)
	if _, err := datawriter.Write(data); err != nil {
		return fmt.Errorf("error writing data to file: %w", err)
	}
	if err := datawriter.Flush(); err != nil {
		return fmt.Errorf("error writing data to file: %w", err)
	}
	return nil
}

// Discover expands roots into a sorted, de-duplicated list of artifact paths.
// Directories are walked recursively and only files whose extension is in exts
// are kept; hidden directories, SkippedDirs and names listed in excludes are
// not descended into. A root that is a file, or that cannot be read, is kept
// as given so the caller can report it.
func Discover(roots, exts, excludes []string) ([]string, error) {
	wanted := make(map[string]bool, len(exts))
	for _, ext := range exts {
		wanted[strings.ToLower(ext)] = true
	}
	skipped := make(map[string]bool)
	for _, name := range append(append([]string{}, SkippedDirs...), excludes...) {
		skipped[name] = true
	}

	seen := make(map[string]bool)
	var out []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			out = append(out, path)
		}
	}

	for _, root := range roots {
		expanded, err := ExpandPath(root)
		if err != nil {
			return nil, fmt.Errorf("failed to unwrap path %q: %w", root, err)
		}
		root = filepath.Clean(expanded)

		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			if !skipped[filepath.Base(root)] {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				// unreadable entries below the root are left out
				return nil
			}
			name := d.Name()
			if d.IsDir() {
				if path != root && (strings.HasPrefix(name, ".") || skipped[name]) {
					return filepath.SkipDir
				}
				return nil
			}
			if skipped[name] || !d.Type().IsRegular() {
				return nil
			}
			if wanted[strings.ToLower(filepath.Ext(name))] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %q: %w", root, err)
		}
	}

	sort.Strings(out)
	return out, nil
}
