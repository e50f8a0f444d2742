package shared

import (
	"bytes"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogger(t *testing.T) {
	t.Run("SetLogLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)

		if err := SetLogLevel(logger, "warn"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if logger.GetLevel() != log.WarnLevel {
			t.Errorf("expected warn level, got %v", logger.GetLevel())
		}

		logger.Info("hidden")
		if strings.Contains(buf.String(), "hidden") {
			t.Error("info message should be filtered at warn level")
		}

		if err := SetLogLevel(logger, ""); err != nil {
			t.Errorf("empty level should be ignored, got %v", err)
		}

		if err := SetLogLevel(logger, "loud"); !errors.Is(err, ErrInvalidFlag) {
			t.Errorf("expected ErrInvalidFlag, got %v", err)
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tui.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("written to file")

		data, err := VerifyAndReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "written to file") {
			t.Errorf("expected log line in file, got %q", data)
		}
	})
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, _ := GenerateState()

	if a == "" || a == b {
		t.Errorf("expected distinct non-empty states, got %q and %q", a, b)
	}

	if GenerateID() == GenerateID() {
		t.Error("expected distinct ids")
	}
}

func TestOpenBrowser(t *testing.T) {
	origRuntime, origStart := getRuntime, startCommand
	t.Cleanup(func() {
		getRuntime, startCommand = origRuntime, origStart
	})

	var started *exec.Cmd
	startCommand = func(cmd *exec.Cmd) error {
		started = cmd
		return nil
	}

	tt := []struct {
		goos    string
		program string
		wantErr bool
	}{
		{goos: "darwin", program: "open"},
		{goos: "linux", program: "xdg-open"},
		{goos: "windows", program: "rundll32"},
		{goos: "plan9", wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.goos, func(t *testing.T) {
			started = nil
			getRuntime = func() string { return tc.goos }

			err := OpenBrowser("https://example.com")
			if (err != nil) != tc.wantErr {
				t.Fatalf("OpenBrowser() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}

			if started == nil {
				t.Fatal("expected a command to be started")
			}
			if filepath.Base(started.Args[0]) != tc.program {
				t.Errorf("expected %s, got %s", tc.program, started.Args[0])
			}
			if started.Args[len(started.Args)-1] != "https://example.com" {
				t.Errorf("expected URL as last argument, got %v", started.Args)
			}
		})
	}

	t.Run("start failure", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		startCommand = func(cmd *exec.Cmd) error { return errors.New("boom") }

		if err := OpenBrowser("https://example.com"); err == nil {
			t.Error("expected error when the command fails to start")
		}
	})
}

func TestValidateJSON(t *testing.T) {
	if err := ValidateJSON([]byte(`{"a":1}`)); err != nil {
		t.Errorf("expected object to validate, got %v", err)
	}
	if err := ValidateJSON([]byte(`nope`)); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := VerifyAndReadFile(""); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}
