package search

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/monochromegane/go-gitignore"
)

// Walk traverses the tree rooted at root and returns relative paths of
// files and directories, in traversal order, for use as engine rows. It
// respects a .gitignore found in root, skips hidden directories, and skips
// unreadable entries so a permission error somewhere does not lose the rest
// of the tree.
func Walk(root string) ([]string, error) {
	var paths []string
	var ignoreMatcher gitignore.IgnoreMatcher

	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignoreMatcher, _ = gitignore.NewGitIgnore(gitignorePath)
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // keep partial results
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil || relPath == "." {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if d.Name() == "node_modules" || d.Name() == "vendor" {
				return filepath.SkipDir
			}
		}

		if ignoreMatcher != nil && ignoreMatcher.Match(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		paths = append(paths, relPath)
		return nil
	})

	return paths, err
}
