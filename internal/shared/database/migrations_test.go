package database

import (
	"os"
	"reflect"
	"testing"
	"testing/fstest"
)

func TestMigrationFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"002_add_index.sql":            {Data: []byte("CREATE INDEX ...")},
		"001_create_cosmos_tables.sql": {Data: []byte("CREATE TABLE ...")},
		"README.md":                    {Data: []byte("notes")},
	}

	got, err := MigrationFiles(fsys)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"001_create_cosmos_tables.sql", "002_add_index.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MigrationFiles = %v, want %v", got, want)
	}
}

func TestMigrationFilesShipped(t *testing.T) {
	got, err := MigrationFiles(os.DirFS("../../../migrations"))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 || got[0] != "001_create_cosmos_tables.sql" {
		t.Errorf("shipped migrations = %v", got)
	}
}
