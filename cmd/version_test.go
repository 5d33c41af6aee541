package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Video Diary API") {
		t.Errorf("Expected output to name the service, got %q", output)
	}
	if !strings.Contains(output, "Version:") {
		t.Errorf("Expected output to contain version line, got %q", output)
	}
}

func TestVersionCommandShortFlag(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version", "--short"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.HasPrefix(buf.String(), "v") {
		t.Errorf("Expected short output to start with v, got %q", buf.String())
	}
}
