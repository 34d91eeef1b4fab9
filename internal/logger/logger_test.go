package logger

import "testing"

func TestNew(t *testing.T) {
	for _, tt := range []struct {
		name  string
		json  bool
		debug bool
	}{
		{"console info", false, false},
		{"json debug", true, true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.json, tt.debug)
			if err != nil {
				t.Fatalf("New(%t, %t) error: %v", tt.json, tt.debug, err)
			}
			if logger == nil {
				t.Fatalf("expected a logger")
			}
		})
	}
}

func TestTruncateForLog(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{"shorter than limit", "hello", 10, "hello"},
		{"exactly the limit", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 5, "hello..."},
		{"zero limit", "hello", 0, ""},
		{"negative limit", "hello", -1, ""},
		{"trims whitespace first", "  hello  ", 10, "hello"},
		{"multibyte runes", "héllö wörld", 5, "héllö..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateForLog(tt.input, tt.limit); got != tt.want {
				t.Fatalf("TruncateForLog(%q, %d) = %q, want %q", tt.input, tt.limit, got, tt.want)
			}
		})
	}
}
