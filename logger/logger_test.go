package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestInitLevels(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{in: "debug", want: logrus.DebugLevel},
		{in: "WARN", want: logrus.WarnLevel},
		{in: "", want: logrus.InfoLevel},
		{in: "chatty", want: logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var buf bytes.Buffer
			log := InitTo(&buf, tt.in, "text")
			if log.GetLevel() != tt.want {
				t.Fatalf("level = %v, want %v", log.GetLevel(), tt.want)
			}
		})
	}
}

func TestInitUnknownLevelWarns(t *testing.T) {
	var buf bytes.Buffer
	InitTo(&buf, "chatty", "text")
	if !strings.Contains(buf.String(), "unknown log level") {
		t.Fatalf("expected a warning, got %q", buf.String())
	}
}

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	log := InitTo(&buf, "info", "json")
	log.WithField("scene", "forest").Info("scene activated")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["scene"] != "forest" || entry["msg"] != "scene activated" {
		t.Fatalf("unexpected entry %v", entry)
	}
}

func TestInitTextHasNoColorOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	log := InitTo(&buf, "info", "text")
	log.WithField("scene", "village").Info("scene activated")

	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected plain text without escape codes, got %q", out)
	}
	if !strings.Contains(out, "scene=village") {
		t.Fatalf("expected text fields, got %q", out)
	}
}
