package config

import (
	"os"
	"path/filepath"
)

const (
	// DirName is the name of the auditkit data directory
	DirName = ".auditkit"
	// DBFileName is the database file name inside the data directory
	DBFileName = "audit.db"
	// AdminSecretEnv configures the shared secret for admin mode
	AdminSecretEnv = "AUDITKIT_ADMIN_SECRET"
)

// Dir returns the auditkit data directory path (~/.auditkit)
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DBPath returns the default database path (~/.auditkit/audit.db)
func DBPath() string {
	return filepath.Join(Dir(), DBFileName)
}

// AdminSecret returns the configured admin shared secret, empty when unset.
func AdminSecret() string {
	return os.Getenv(AdminSecretEnv)
}
