package repo

import (
	"testing"
)

func TestConnectEmptyPath(t *testing.T) {
	if _, err := Connect(""); err == nil {
		t.Fatalf("Connect empty path: expected error")
	}
}

func TestMigrateNilDB(t *testing.T) {
	if err := Migrate(nil); err == nil {
		t.Fatalf("Migrate nil db: expected error")
	}
}

func TestConnectAndMigrate(t *testing.T) {
	db, err := Connect(":memory:")
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	for _, table := range []string{"logs", "harvest_runs"} {
		if !db.Migrator().HasTable(table) {
			t.Fatalf("table %q missing after migrate", table)
		}
	}
}
