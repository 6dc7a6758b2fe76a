package logging

import "path/filepath"

// DefaultLogPath returns the default log path for a collection rooted at dir.
func DefaultLogPath(dir string) string {
	return filepath.Join(dir, "logs", "engine.log")
}
