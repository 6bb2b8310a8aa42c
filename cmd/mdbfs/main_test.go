package main

import "testing"

func TestRunMissingType(t *testing.T) {
	r := newRegistry()
	got := run(r, []string{"--db=/tmp/whatever.db", "/tmp/mnt"})
	if got != exitConfigError {
		t.Fatalf("run() = %d, want %d", got, exitConfigError)
	}
}

func TestRunMissingDB(t *testing.T) {
	r := newRegistry()
	got := run(r, []string{"--type=sqlite", "/tmp/mnt"})
	if got != exitDatabaseOpenError {
		t.Fatalf("run() = %d, want %d", got, exitDatabaseOpenError)
	}
}

func TestRunUnknownBackend(t *testing.T) {
	r := newRegistry()
	got := run(r, []string{"--type=nope", "--db=/tmp/whatever.db", "/tmp/mnt"})
	if got != exitConfigError {
		t.Fatalf("run() = %d, want %d", got, exitConfigError)
	}
}

func TestRunDatabaseOpenFailure(t *testing.T) {
	r := newRegistry()
	got := run(r, []string{"--type=sqlite", "--db=/nonexistent/dir/does/not/exist.db", "/tmp/mnt"})
	if got != exitDatabaseOpenError {
		t.Fatalf("run() = %d, want %d", got, exitDatabaseOpenError)
	}
}

func TestRunHelp(t *testing.T) {
	r := newRegistry()
	got := run(r, []string{"--help"})
	if got != exitOK {
		t.Fatalf("run() = %d, want %d", got, exitOK)
	}
}

func TestRunVersion(t *testing.T) {
	r := newRegistry()
	got := run(r, []string{"--version"})
	if got != exitOK {
		t.Fatalf("run() = %d, want %d", got, exitOK)
	}
}
