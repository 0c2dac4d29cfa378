package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCompactHandler_OneLinePerRecord(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewCompactJSONHandler(&buf, nil))

	log.Info("ate", "food", "red", "points", 10)
	log.Debug("hidden")
	log.Warn("game over", "cause", "wall", "interval", 250*time.Millisecond)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines=%d want=2:\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["msg"] != "ate" || rec["food"] != "red" || rec["points"] != float64(10) || rec["level"] != "INFO" {
		t.Fatalf("record=%v", rec)
	}
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["interval"] != "250ms" {
		t.Fatalf("interval=%v want=250ms", rec["interval"])
	}
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log.With("conn", "abc").WithGroup("game").Debug("tick", "score", 30, slog.Group("head", "x", 4, "y", 7), "err", errors.New("boom"))

	if !strings.Contains(buf.String(), "\n  ") {
		t.Fatalf("expected indented output, got %s", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	game, ok := rec["game"].(map[string]any)
	if !ok {
		t.Fatalf("missing game group: %v", rec)
	}
	if rec["conn"] != "abc" {
		t.Fatalf("conn should stay outside the group: %v", rec)
	}
	if game["score"] != float64(30) || game["err"] != "boom" {
		t.Fatalf("game group=%v", game)
	}
	head, ok := game["head"].(map[string]any)
	if !ok || head["x"] != float64(4) || head["y"] != float64(7) {
		t.Fatalf("head=%v", game["head"])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q)=%v,%v want=%v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSetup_WritesToFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "logs", "snek.log")
	log, closeLog, err := Setup(Options{Format: FormatJSON, Level: "info", File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	log.Info("started", "mode", "tui")
	slog.Info("via default")
	if err := closeLog(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.Count(string(b), "\n"); got != 2 {
		t.Fatalf("lines=%d want=2:\n%s", got, b)
	}
}

func TestSetup_RejectsUnknownFormat(t *testing.T) {
	if _, _, err := Setup(Options{Format: "xml", Stderr: &bytes.Buffer{}}); err == nil {
		t.Fatalf("expected error")
	}
}
