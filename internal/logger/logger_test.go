package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"":      INFO,
		"debug": DEBUG,
		"INFO":  INFO,
		"Warn":  WARN,
		"error": ERROR,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("unknown level accepted")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, WARN)

	log.Debugf("debug %d", 1)
	log.Infof("info %d", 2)
	log.Warnf("warn %d", 3)
	log.Errorf("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Fatalf("lower levels logged:\n%s", out)
	}
	if !strings.Contains(out, "WARN warn 3") || !strings.Contains(out, "ERROR error 4") {
		t.Fatalf("missing entries:\n%s", out)
	}
}

func TestNilLogger(t *testing.T) {
	var log *Logger
	log.Infof("dropped")
	log.Errorf("dropped")
	if log.Level() <= ERROR {
		t.Fatalf("nil logger level %v", log.Level())
	}
}
