package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestReadMetricsFile_SingleObject(t *testing.T) {
	path := writeTempFile(t, "metrics.json", `{"re_noise_rate": 0.35, "system_stability": 0.95}`)

	history, err := readMetricsFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected one sample, got %d", len(history))
	}
	if history[0].RENoiseRate != 0.35 {
		t.Errorf("expected re_noise_rate 0.35, got %v", history[0].RENoiseRate)
	}
}

func TestReadMetricsFile_Array(t *testing.T) {
	path := writeTempFile(t, "history.json", `[{"re_noise_rate": 0.1}, {"re_noise_rate": 0.2}, {"re_noise_rate": 0.3}]`)

	history, err := readMetricsFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected three samples, got %d", len(history))
	}
	if history[2].RENoiseRate != 0.3 {
		t.Errorf("expected last sample to be newest, got %v", history[2].RENoiseRate)
	}
}

func TestReadMetricsFile_Malformed(t *testing.T) {
	path := writeTempFile(t, "bad.json", `{broken`)

	if _, err := readMetricsFile(path); err == nil {
		t.Fatal("expected error for malformed feed")
	}
}

func TestReadMetricsFile_Empty(t *testing.T) {
	path := writeTempFile(t, "empty.json", `[]`)

	if _, err := readMetricsFile(path); err == nil {
		t.Fatal("expected error for empty history")
	}
}

func TestVersionOutput(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)

	out := buf.String()
	if !strings.HasPrefix(out, fmt.Sprintf("callisto %s (%s)", version, commit)) {
		t.Errorf("unexpected version line: %q", out)
	}
	if !strings.Contains(out, "runtime:") {
		t.Errorf("expected runtime line in output: %q", out)
	}
}

func TestCommandsRegistered(t *testing.T) {
	wanted := map[string]bool{
		"run":      false,
		"evaluate": false,
		"validate": false,
		"version":  false,
	}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := wanted[cmd.Name()]; ok {
			wanted[cmd.Name()] = true
		}
	}
	for name, found := range wanted {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
