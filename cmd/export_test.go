package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leeoohoo/chatos/testutil"
)

func TestExportCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chatos.db")
	testutil.CreateSQLiteFixture(t, path)
	out := filepath.Join(dir, "out.json")

	rootCmd.SetArgs([]string{"export", "fixture-session", "--db", path, "--format", "json", "--output", out})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("export command failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["id"] != "fixture-session" {
		t.Errorf("exported session id = %v, want fixture-session", doc["id"])
	}
}

func TestExportCommandUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chatos.db")
	testutil.CreateSQLiteFixture(t, path)

	rootCmd.SetArgs([]string{"export", "fixture-session", "--db", path, "--format", "xml"})
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})

	if err := rootCmd.Execute(); err == nil {
		t.Error("export should reject an unknown format")
	}
}
