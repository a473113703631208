package debug

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestConfigure(t *testing.T) {
	defer func() { Enabled = false }()

	tests := []struct {
		level string
		want  bool
	}{
		{"debug", true},
		{"DEBUG", true},
		{" debug ", true},
		{"info", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			Configure(tt.level)
			if Enabled != tt.want {
				t.Errorf("Enabled: got %v, want %v", Enabled, tt.want)
			}
		})
	}
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	defer func() { Enabled = false }()

	Enabled = false
	Log("hidden %d", 1)
	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}

	Enabled = true
	Log("shown %d", 2)
	if !strings.Contains(buf.String(), "[debug] shown 2") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}
