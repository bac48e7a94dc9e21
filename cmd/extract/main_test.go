package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"testing"
)

func TestMainArity(t *testing.T) {
	if os.Getenv("TEST_MAIN_SUBPROCESS") == "1" {
		os.Args = []string{"cmd"}
		main()
		return
	}

	// Run the test as a subprocess so the os.Exit call is observable
	cmd := exec.Command(os.Args[0], "-test.run=TestMainArity")
	cmd.Env = append(os.Environ(), "TEST_MAIN_SUBPROCESS=1")
	stdout, err := cmd.Output()

	exitError, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("Expected non-zero exit for missing argument, got %v", err)
	}
	if exitError.ExitCode() != 1 {
		t.Errorf("Expected exit code 1, got %d", exitError.ExitCode())
	}

	// The error contract is a JSON object on stdout
	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(stdout, &result); err != nil {
		t.Fatalf("Expected JSON error object on stdout, got %q: %v", string(stdout), err)
	}
	if result.Success {
		t.Error("Expected success false")
	}
	if result.Error != "URL argument required" {
		t.Errorf("Unexpected error message %q", result.Error)
	}
}
