package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func decodeError(t *testing.T, stdout []byte) string {
	t.Helper()
	var result struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(stdout, &result); err != nil {
		t.Fatalf("Expected JSON error object on stdout, got %q: %v", string(stdout), err)
	}
	return result.Error
}

func TestMainArity(t *testing.T) {
	if os.Getenv("TEST_MAIN_SUBPROCESS") == "1" {
		os.Args = []string{"cmd", "only-one-arg"}
		main()
		return
	}

	// Run the test as a subprocess so the os.Exit call is observable
	cmd := exec.Command(os.Args[0], "-test.run=TestMainArity")
	cmd.Env = append(os.Environ(), "TEST_MAIN_SUBPROCESS=1")
	stdout, err := cmd.Output()

	exitError, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("Expected non-zero exit for wrong argument count, got %v", err)
	}
	if exitError.ExitCode() != 1 {
		t.Errorf("Expected exit code 1, got %d", exitError.ExitCode())
	}
	if msg := decodeError(t, stdout); !strings.Contains(msg, "Invalid arguments") {
		t.Errorf("Unexpected error message %q", msg)
	}
}

func TestMainMissingInputFile(t *testing.T) {
	if os.Getenv("TEST_MAIN_SUBPROCESS") == "1" {
		os.Args = []string{"cmd", "/nonexistent/input.txt", "test/model", "{}"}
		main()
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=TestMainMissingInputFile")
	cmd.Env = append(os.Environ(), "TEST_MAIN_SUBPROCESS=1")
	stdout, err := cmd.Output()

	exitError, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("Expected non-zero exit for missing input file, got %v", err)
	}
	if exitError.ExitCode() != 1 {
		t.Errorf("Expected exit code 1, got %d", exitError.ExitCode())
	}
	if msg := decodeError(t, stdout); !strings.Contains(msg, "reading input file") {
		t.Errorf("Unexpected error message %q", msg)
	}
}
