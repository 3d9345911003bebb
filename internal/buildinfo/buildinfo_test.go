package buildinfo

import (
	"strings"
	"testing"
)

func TestShortPrefersVersion(t *testing.T) {
	oldV, oldC := Version, Commit
	defer func() { Version, Commit = oldV, oldC }()

	Version, Commit = "v1.2.0", "abcdef0123456789"
	if got := Short(); got != "v1.2.0" {
		t.Fatalf("Short()=%q", got)
	}

	Version = "dev"
	if got := Short(); got != "abcdef012345" {
		t.Fatalf("Short()=%q", got)
	}

	Commit = "unknown"
	if got := Short(); got != "dev" {
		t.Fatalf("Short()=%q", got)
	}
	if !strings.HasPrefix(String(), "sparkdice dev") {
		t.Fatalf("String()=%q", String())
	}
}
