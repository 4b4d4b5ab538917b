package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestCheckSpinnerDrawsTitle(t *testing.T) {
	var buf bytes.Buffer
	s := NewCheckSpinner(&buf)
	s.Begin("Checking Node.js")
	time.Sleep(250 * time.Millisecond)
	s.Stop()
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Checking Node.js") {
		t.Errorf("expected title in %q", out)
	}
	if !strings.HasSuffix(out, "\r\033[K") {
		t.Errorf("expected line to be cleared, got %q", out)
	}
}

func TestCheckSpinnerSilentWithoutBegin(t *testing.T) {
	var buf bytes.Buffer
	s := NewCheckSpinner(&buf)
	time.Sleep(150 * time.Millisecond)
	s.Stop()
	s.Begin("late")

	if got := buf.String(); got != "\r\033[K" {
		t.Errorf("got %q", got)
	}
}

func TestCheckElapsed(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{123456 * time.Microsecond, "120ms"},
		{2345 * time.Millisecond, "2.3s"},
		{95 * time.Second, "1m35s"},
	}
	for _, tt := range tests {
		if got := checkElapsed(tt.in); got != tt.want {
			t.Errorf("checkElapsed(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
