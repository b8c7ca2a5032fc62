// Package testing provides test helpers shared across packages.
package testing

import (
	"path/filepath"
	"testing"

	"github.com/aristath/readiness/internal/database"
)

// NewTestDB opens a migrated database in the test's temp directory and
// closes it when the test ends. name selects the schema ("cache"); unknown
// names yield an empty database.
func NewTestDB(t *testing.T, name string) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: database.ProfileCache,
		Name:    name,
	})
	if err != nil {
		t.Fatalf("Failed to create test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: Failed to close test database %s: %v", name, err)
		}
	})

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate test database %s: %v", name, err)
	}
	return db
}
