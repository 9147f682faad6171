package config

import "path/filepath"

// Supported database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultDatabasePath is the default path for the main application database
const DefaultDatabasePath = "./bookhive.db"

// TasksPathFor derives the task queue database path from the main database path,
// e.g. "./bookhive.db" becomes "./bookhive-tasks.db".
func TasksPathFor(mainDBPath string) string {
	dir := filepath.Dir(mainDBPath)
	base := filepath.Base(mainDBPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	return filepath.Join(dir, name+"-tasks"+ext)
}
