package userdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeUserFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileProviderVerify(t *testing.T) {
	path := writeUserFile(t, `[
		{"Username": "john", "Password": "password", "Attributes": {"role": "admin"}}
	]`)

	p, err := NewFileProvider(path)
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}

	attrs, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "password"})
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if attrs["role"] != "admin" {
		t.Errorf("role = %q, want admin", attrs["role"])
	}
}

func TestFileProviderRejectsBrokenFile(t *testing.T) {
	path := writeUserFile(t, `{not json`)
	if _, err := NewFileProvider(path); err == nil {
		t.Fatal("construction must fail on a broken user file")
	}
}

func TestFileProviderRejectsMissingFile(t *testing.T) {
	if _, err := NewFileProvider(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("construction must fail on a missing user file")
	}
}

func TestFileProviderReload(t *testing.T) {
	path := writeUserFile(t, `[{"Username": "john", "Password": "password"}]`)

	p, err := NewFileProvider(path)
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}

	if err := os.WriteFile(path, []byte(`[{"Username": "alice", "Password": "x"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := p.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if _, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "password"}); !errors.Is(err, ErrNotFound) {
		t.Error("removed user survived reload")
	}
	if _, err := p.Verify(map[string]string{FieldUsername: "alice", FieldPassword: "x"}); err != nil {
		t.Errorf("added user not usable after reload: %v", err)
	}
}

func TestFileProviderReloadFailureKeepsTable(t *testing.T) {
	path := writeUserFile(t, `[{"Username": "john", "Password": "password"}]`)

	p, err := NewFileProvider(path)
	if err != nil {
		t.Fatalf("NewFileProvider: %v", err)
	}

	if err := os.WriteFile(path, []byte(`broken`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := p.Reload(); err == nil {
		t.Fatal("Reload must fail on a broken file")
	}

	if _, err := p.Verify(map[string]string{FieldUsername: "john", FieldPassword: "password"}); err != nil {
		t.Errorf("previous table lost after failed reload: %v", err)
	}
}
