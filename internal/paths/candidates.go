// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveCandidatesDB resolves the candidate database path from user input.
// It accepts a direct database file, a project directory, a .taglet data
// directory, or a directory already containing candidates.db, and follows
// redirect files for git worktrees.
//
// Input normalization:
//   - "/path/to/team.db" -> "/path/to/team.db"
//   - "/path/to/project" -> "/path/to/project/.taglet/candidates.db"
//   - "/path/to/project/.taglet" -> "/path/to/project/.taglet/candidates.db"
//   - "/path/to/data" (containing candidates.db) -> "/path/to/data/candidates.db"
//   - "" -> "./.taglet/candidates.db"
//
// Redirect handling:
//   - If the .taglet directory contains a redirect file, it is followed to
//     the actual data directory
//   - This supports git worktrees where .taglet contains a redirect to the
//     main worktree
func ResolveCandidatesDB(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	// A direct database file wins
	if strings.HasSuffix(path, ".db") {
		return path
	}
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}

	// If path already ends with .taglet, use it directly
	if filepath.Base(path) == ".taglet" {
		return filepath.Join(followRedirect(path), "candidates.db")
	}

	// If path contains candidates.db directly, use it as the data directory
	// This supports pointing straight at a data directory
	if _, err := os.Stat(filepath.Join(path, "candidates.db")); err == nil {
		return filepath.Join(followRedirect(path), "candidates.db")
	}

	// Otherwise, append .taglet to the path
	return filepath.Join(followRedirect(filepath.Join(path, ".taglet")), "candidates.db")
}

// followRedirect checks for a redirect file and follows it if present.
// Redirect files are used by git worktrees to point to the main worktree's data.
func followRedirect(dataDir string) string {
	redirectPath := filepath.Join(dataDir, "redirect")

	content, err := os.ReadFile(redirectPath) //nolint:gosec // redirect path is within the data dir
	if err != nil {
		return dataDir
	}

	redirectTarget := strings.TrimSpace(string(content))
	if redirectTarget == "" {
		return dataDir
	}

	resolvedPath := filepath.Join(dataDir, redirectTarget)
	return filepath.Clean(resolvedPath)
}
