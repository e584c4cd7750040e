package watcher

import (
	"path/filepath"
	"strings"
)

// IsTransactionFile reports whether path names a transaction CSV the
// watcher should react to. Hidden files and editor swap or backup files are
// ignored.
func IsTransactionFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~") || strings.HasSuffix(base, "~") {
		return false
	}
	return strings.EqualFold(filepath.Ext(base), ".csv")
}
