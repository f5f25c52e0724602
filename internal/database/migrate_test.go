package database

import (
	"io/fs"
	"strings"
	"testing"
)

// 埋め込みマイグレーションにup/downのペアが揃っていることを検証
func TestMigrationsFS_UpDownPairs(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	if err != nil {
		t.Fatalf("failed to read embedded migrations: %v", err)
	}

	if len(entries) == 0 {
		t.Fatal("expected at least one migration file")
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file name: %s", name)
		}
	}

	for base := range ups {
		if !downs[base] {
			t.Errorf("migration %s has no matching down file", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("migration %s has no matching up file", base)
		}
	}
}

// マイグレーションにアプリが前提とする全テーブルのCREATEが含まれることを検証
func TestMigrationsFS_CreatesExpectedTables(t *testing.T) {
	var all strings.Builder
	err := fs.WalkDir(migrationsFS, "migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".up.sql") {
			return err
		}
		data, readErr := fs.ReadFile(migrationsFS, path)
		if readErr != nil {
			return readErr
		}
		all.Write(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to walk migrations: %v", err)
	}

	content := all.String()
	for _, table := range []string{"users", "credentials", "sessions", "articles", "memorials", "media_assets"} {
		if !strings.Contains(content, "CREATE TABLE "+table) {
			t.Errorf("migrations should create table %q", table)
		}
	}
}
