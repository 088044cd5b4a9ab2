package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Limit int    `yaml:"limit"`
}

func (s *sample) Validate() error {
	if s.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "scribe")
	path := writeFile(t, "name: ${SAMPLE_NAME}\nlimit: 3\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "scribe" || s.Limit != 3 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	path := writeFile(t, "limit: 7\n")
	s := sample{Name: "default"}
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("name = %q, want default kept", s.Name)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := writeFile(t, "limit: -1\n")
	var s sample
	err := Load(path, &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := writeFile(t, "name: x\nlimt: 3\n")
	var s sample
	if err := Load(path, &s); err == nil {
		t.Fatal("expected error for misspelled key")
	}
}

func TestLoad_EmptyFileKeepsDefaults(t *testing.T) {
	path := writeFile(t, "")
	s := sample{Name: "default", Limit: 2}
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "default" || s.Limit != 2 {
		t.Errorf("got %+v", s)
	}
}

func TestLoadIfExists(t *testing.T) {
	s := sample{Name: "default"}
	found, err := LoadIfExists(filepath.Join(t.TempDir(), "missing.yaml"), &s)
	if err != nil || found {
		t.Fatalf("missing file: found=%v err=%v", found, err)
	}
	if s.Name != "default" {
		t.Errorf("name = %q", s.Name)
	}

	bad := sample{Limit: -1}
	if _, err := LoadIfExists(filepath.Join(t.TempDir(), "missing.yaml"), &bad); err == nil {
		t.Error("defaults should still be validated")
	}

	path := writeFile(t, "name: present\n")
	found, err = LoadIfExists(path, &s)
	if err != nil || !found || s.Name != "present" {
		t.Fatalf("present file: found=%v err=%v s=%+v", found, err, s)
	}
}
