package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"trace", LevelTrace},
		{"DEBUG", LevelDebug},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"fatal", LevelFatal},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHasFmtVerb(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"plain message", false},
		{"value is %d", true},
		{"name %s", true},
		{"100%% done", false},
		{"trailing %", false},
	}

	for _, tt := range tests {
		if got := hasFmtVerb(tt.msg); got != tt.want {
			t.Errorf("hasFmtVerb(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestLogFormats(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: LevelDebug, Output: &buf})
	defer Init(nil)

	L_info("loaded %d tools", 6)
	L_debug("session created", "session", "abcd1234")
	L_trace("below debug still shows at debug")

	out := buf.String()
	for _, want := range []string{"loaded 6 tools", "session created", "session=abcd1234", "below debug"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(&Config{Level: LevelWarn, Output: &buf})
	defer Init(nil)

	L_info("should not appear")
	L_warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("info logged at warn level:\n%s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn missing:\n%s", out)
	}
}

func TestShortID(t *testing.T) {
	if got := ShortID("abc"); got != "abc" {
		t.Errorf("ShortID(abc) = %q", got)
	}
	if got := ShortID("0123456789abcdef"); got != "01234567..." {
		t.Errorf("ShortID = %q, want 01234567...", got)
	}
}
