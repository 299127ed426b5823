package xlog

import (
	"bytes"
	"log"
	"testing"
)

func TestDisabledLoggerWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{std: log.New(&buf, "", 0), enabled: false}
	l.Debugf("should not appear: %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected no output from a disabled logger, got %q", buf.String())
	}
}

func TestEnabledLoggerWritesFormattedLine(t *testing.T) {
	var buf bytes.Buffer
	l := &Logger{std: log.New(&buf, "commoner: ", 0), enabled: true}
	l.Debugf("pixmap 0x%x geometry mismatch", 0x2a)
	want := "commoner: pixmap 0x2a geometry mismatch\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestEnabledReflectsConstructionFlag(t *testing.T) {
	if New("x: ", true).Enabled() != true {
		t.Fatalf("expected Enabled() to be true")
	}
	if New("x: ", false).Enabled() != false {
		t.Fatalf("expected Enabled() to be false")
	}
}
