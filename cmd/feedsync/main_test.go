package main

import (
	"os"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	devNull, err := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("open %s: %v", os.DevNull, err)
	}
	oldArgs, oldStdout := os.Args, os.Stdout
	os.Args = []string{"feedsync", "--help"}
	os.Stdout = devNull
	t.Cleanup(func() {
		os.Args = oldArgs
		os.Stdout = oldStdout
		_ = devNull.Close()
	})
	if code := run(); code != 0 {
		t.Fatalf("run() code = %d, want 0", code)
	}
}
