package infra

import (
	"context"
	"testing"
	"testing/fstest"
)

func TestMigrationFilesSortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_statistics.sql": {Data: []byte("select 1;")},
		"0001_partners.sql":   {Data: []byte("select 1;")},
		"README.md":           {Data: []byte("docs")},
		"extra/0003_idx.sql":  {Data: []byte("select 1;")},
	}

	got, err := migrationFiles(fsys)
	if err != nil {
		t.Fatalf("migrationFiles returned error: %v", err)
	}
	want := []string{"0001_partners.sql", "0002_statistics.sql", "extra/0003_idx.sql"}
	if len(got) != len(want) {
		t.Fatalf("files mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("files[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNewDBPoolRequiresConfig(t *testing.T) {
	if _, err := NewDBPool(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := NewDBPool(context.Background(), &Config{DatabaseURL: "://bad"}); err == nil {
		t.Fatal("expected error for an invalid url")
	}
}
