package log

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestInitialize(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	if Verbosity() != LevelInfo {
		t.Errorf("expected verbosity %d, got %d", LevelInfo, Verbosity())
	}
}

func TestLevelGating(t *testing.T) {
	tests := []struct {
		level     int
		wantInfo  bool
		wantDebug bool
		wantTrace bool
	}{
		{LevelQuiet, false, false, false},
		{LevelInfo, true, false, false},
		{LevelDebug, true, true, false},
		{LevelTrace, true, true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		Initialize(tt.level, &buf)

		Info("info message")
		Debug("debug message")
		Trace("trace message")
		Warn("warn message")

		out := buf.String()
		if strings.Contains(out, "info message") != tt.wantInfo {
			t.Errorf("level %d: info logged = %v", tt.level, !tt.wantInfo)
		}
		if strings.Contains(out, "debug message") != tt.wantDebug {
			t.Errorf("level %d: debug logged = %v", tt.level, !tt.wantDebug)
		}
		if strings.Contains(out, "trace message") != tt.wantTrace {
			t.Errorf("level %d: trace logged = %v", tt.level, !tt.wantTrace)
		}
		if !strings.Contains(out, "warn message") {
			t.Errorf("level %d: warnings must always be logged", tt.level)
		}
		if IsDebug() != tt.wantDebug {
			t.Errorf("level %d: IsDebug() = %v", tt.level, IsDebug())
		}
	}
}

func TestSuppress(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelTrace, &buf)

	Suppress(true)
	Error("hidden")
	Progress("hidden progress")
	Suppress(false)
	Error("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("suppressed output leaked: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Error("output not restored after Suppress(false)")
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelInfo, &buf)

	Progress("Loading page %d", 2)
	ProgressDone()

	if got := buf.String(); got != "\rLoading page 2 done\n" {
		t.Errorf("progress output = %q", got)
	}
}

func TestConcurrentLogging(t *testing.T) {
	var buf bytes.Buffer
	Initialize(LevelDebug, &buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			Debug("fetching", "worker", i)
		}(i)
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "fetching"); got != 8 {
		t.Errorf("logged %d lines, want 8", got)
	}
}
