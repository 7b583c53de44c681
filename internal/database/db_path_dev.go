//go:build !prod

package database

// GetDefaultDBPath returns the database path for development mode.
// In dev mode, the database lives in the working directory for easy debugging.
func GetDefaultDBPath() string {
	return "commitforge.db"
}

func IsDevelopment() bool {
	return true
}
