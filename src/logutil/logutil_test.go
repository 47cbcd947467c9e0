package logutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{" WARN ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRotatingWriterKeepsThreeArchives(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.log")
	w, err := openRotating(path, 10)
	if err != nil {
		t.Fatalf("openRotating: %v", err)
	}

	for i := 0; i < 6; i++ {
		if _, err := w.Write([]byte(strings.Repeat("x", 8))); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}
	_ = w.f.Close()

	for n := 1; n <= maxArchives; n++ {
		if _, err := os.Stat(archiveName(path, n)); err != nil {
			t.Errorf("archive %d missing: %v", n, err)
		}
	}
	if _, err := os.Stat(archiveName(path, maxArchives+1)); !os.IsNotExist(err) {
		t.Errorf("archive %d should not exist", maxArchives+1)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current log: %v", err)
	}
	if len(data) != 8 {
		t.Errorf("current log holds %d bytes, want 8", len(data))
	}
}
