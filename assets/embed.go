package assets

import (
	"embed"
	"io/fs"
)

//go:embed categories.yaml migrations/*.sql
var FS embed.FS

// Categories returns the default category catalog (YAML).
func Categories() ([]byte, error) {
	return FS.ReadFile("categories.yaml")
}

// Migrations returns the SQL migration files rooted at "migrations".
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "migrations")
}
