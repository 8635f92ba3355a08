package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	cat, err := loadCatalog("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cat.Len() != 14 {
		t.Fatalf("expected built-in catalogue of 14, got %d", cat.Len())
	}

	path := filepath.Join(t.TempDir(), "categories.yaml")
	if err := os.WriteFile(path, []byte("- id: 3\n  name: Bookshops\n  color: bg-blue-500\n"), 0o600); err != nil {
		t.Fatalf("write catalogue: %v", err)
	}
	cat, err = loadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := cat.Names(); len(names) != 1 || names[0] != "Bookshops" {
		t.Fatalf("unexpected names: %v", names)
	}

	if _, err := loadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing catalogue file")
	}
}
