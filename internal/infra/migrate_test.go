package infra

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitSQL(t *testing.T) {
	script := `-- header
CREATE TABLE IF NOT EXISTS a (id INT);

  -- indented comment
CREATE INDEX IF NOT EXISTS a_id ON a (id);
`
	got := SplitSQL(script)
	want := []string{
		"CREATE TABLE IF NOT EXISTS a (id INT)",
		"CREATE INDEX IF NOT EXISTS a_id ON a (id)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMigrationTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "0001.sql")
	sql := "create table if not exists vehicles (id text);\nCREATE TABLE IF NOT EXISTS plans (id uuid);\n"
	if err := os.WriteFile(path, []byte(sql), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := MigrationTables(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"vehicles", "plans"}) {
		t.Fatalf("unexpected tables: %v", got)
	}
}
