package cmd

import "testing"

func TestResolveVersion(t *testing.T) {
	original := version
	t.Cleanup(func() { version = original })

	version = "1.2.3"
	if got := resolveVersion(); got != "1.2.3" {
		t.Fatalf("resolveVersion() = %q, want %q", got, "1.2.3")
	}

	version = ""
	if got := resolveVersion(); got == "" {
		t.Fatalf("resolveVersion() must always produce a value")
	}
}
