package cmd

import (
	"fmt"
	"strings"
)

// isDBLockError reports a bbolt lock timeout. bbolt returns "timeout" when
// it cannot acquire the file lock within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// dbLockHint explains the usual cause of a lock timeout.
func dbLockHint(dbPath string) string {
	return fmt.Sprintf("database %s is locked by another process\n"+
		"  → a running `cefrtag serve --source bolt` holds it\n"+
		"  → stop it, or import into a different --db and point the server at it", dbPath)
}
