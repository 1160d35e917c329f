package inmemory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.json")
	fixture := `{
		"fields": [
			{"id": "fldTitle", "name": "Title", "type": "SingleText"},
			{"id": "fldAmount", "name": "Amount", "type": "Number"}
		],
		"records": [
			{"id": "r1", "cells": {"fldTitle": "Invoice", "fldAmount": 100}}
		]
	}`
	if err := os.WriteFile(path, []byte(fixture), 0o644); err != nil {
		t.Fatal(err)
	}

	sheet, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	fields, _ := sheet.Fields(context.Background())
	if len(fields) != 2 {
		t.Errorf("got %d fields, want 2", len(fields))
	}
	if sheet.Len() != 1 {
		t.Errorf("Len() = %d, want 1", sheet.Len())
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(bad, []byte("not json"), 0o644)
	if _, err := LoadFile(bad); err == nil {
		t.Error("invalid JSON should fail")
	}

	empty := filepath.Join(t.TempDir(), "empty.json")
	os.WriteFile(empty, []byte(`{"fields": [], "records": []}`), 0o644)
	if _, err := LoadFile(empty); err == nil {
		t.Error("fixture with no fields should fail")
	}
}
