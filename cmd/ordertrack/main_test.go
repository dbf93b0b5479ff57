package main

import (
	"testing"

	"github.com/bitzerlab/ordertrack/internal/session"
)

func TestResolveServer(t *testing.T) {
	sess := &session.Session{ServerURL: "http://plant-floor:8000"}

	// A stored session pins the server unless --server was given.
	if got := resolveServer(sess, "http://localhost:8000", false); got != "http://plant-floor:8000" {
		t.Errorf("expected the session server, got %q", got)
	}
	if got := resolveServer(sess, "http://other:9000", true); got != "http://other:9000" {
		t.Errorf("explicit --server must win, got %q", got)
	}

	// No session, or a session without a server, falls back to the flag.
	if got := resolveServer(nil, "http://localhost:8000", false); got != "http://localhost:8000" {
		t.Errorf("expected the flag default, got %q", got)
	}
	if got := resolveServer(&session.Session{}, "http://localhost:8000", false); got != "http://localhost:8000" {
		t.Errorf("blank session server must not be used, got %q", got)
	}
}

func TestRootCommandWiring(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("server") == nil {
		t.Fatal("expected a --server flag")
	}
	for _, name := range []string{"login", "logout", "whoami"} {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
			}
		}
		if !found {
			t.Errorf("missing %s subcommand", name)
		}
	}
}
