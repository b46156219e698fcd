package jsonstore

import (
	"os"
	"path/filepath"
	"testing"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestSaveLoadRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doc.json")

	var missing doc
	found, err := Load(path, &missing)
	if err != nil || found {
		t.Fatalf("Load missing = %v, %v; want false, nil", found, err)
	}

	if err := Save(path, doc{Name: "x", Count: 2}, 0o600); err != nil {
		t.Fatalf("Save: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("perm = %v, want 0600", fi.Mode().Perm())
	}

	var got doc
	found, err = Load(path, &got)
	if err != nil || !found {
		t.Fatalf("Load = %v, %v", found, err)
	}
	if got != (doc{Name: "x", Count: 2}) {
		t.Errorf("got %+v", got)
	}

	if err := Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := Remove(path); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	var d doc
	if _, err := Load(path, &d); err == nil {
		t.Error("expected error for corrupt file")
	}
}
