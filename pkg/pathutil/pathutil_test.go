package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveOnPath(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "mytool")
	if err := os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("PATH", dir)

	got, err := Resolve("mytool")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != exe {
		t.Errorf("Resolve() = %q, want %q", got, exe)
	}
}

func TestResolveSkipsNonExecutableEntries(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	notExec := filepath.Join(dirA, "tool")
	if err := os.WriteFile(notExec, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	exec := filepath.Join(dirB, "tool")
	if err := os.WriteFile(exec, []byte("x"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	t.Setenv("PATH", dirA+string(os.PathListSeparator)+dirB)

	got, err := Resolve("tool")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != exec {
		t.Errorf("Resolve() = %q, want the executable entry %q", got, exec)
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := Resolve("definitely-not-a-real-command"); err != ErrNotFound {
		t.Errorf("Resolve() error = %v, want ErrNotFound", err)
	}
}

func TestResolveDirectPathBypassesPATH(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "tool")
	if err := os.WriteFile(exe, []byte("x"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("PATH", "")

	got, err := Resolve(exe)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != exe {
		t.Errorf("Resolve() = %q, want %q", got, exe)
	}
}

func TestExpandTilde(t *testing.T) {
	t.Setenv("HOME", "/home/gosh")

	tests := []struct{ input, want string }{
		{"~", "/home/gosh"},
		{"~/docs", "/home/gosh/docs"},
		{"~other/docs", "~other/docs"},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		if got := ExpandTilde(tt.input); got != tt.want {
			t.Errorf("ExpandTilde(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
