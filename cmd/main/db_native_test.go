//go:build !cgo_sqlite

package main

import "testing"

func TestNativeDSN(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{":memory:", ":memory:"},
		{"./data/vellum.db?_journal_mode=WAL&_busy_timeout=5000", "./data/vellum.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"},
		{"a.db?cache=shared", "a.db?cache=shared"},
	}
	for _, tt := range tests {
		if got := nativeDSN(tt.in); got != tt.want {
			t.Errorf("nativeDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
