package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/odysseus0/feedsync/internal/config"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"XDG_CONFIG_HOME",
		"FEEDSYNC_DB_PATH",
		"FEEDSYNC_BASE_URL",
		"FEEDSYNC_PAGE_SIZE",
		"FEEDSYNC_INITIAL_LOAD_SIZE",
		"FEEDSYNC_HTTP_TIMEOUT_SECONDS",
		"FEEDSYNC_USER_AGENT",
		"FEEDSYNC_API_KEY",
		"FEEDSYNC_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset env %s: %v", key, err)
		}
	}
}

func writeConfigFile(t *testing.T, home string, body string) string {
	t.Helper()
	path := filepath.Join(home, ".config", "feedsync", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestRootCommand_DBFlagOverridesEnvAndConfig(t *testing.T) {
	clearConfigEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	configDB := filepath.Join(t.TempDir(), "from-config.db")
	writeConfigFile(t, home, `db_path = "`+configDB+`"`+"\n")

	envDB := filepath.Join(t.TempDir(), "from-env.db")
	t.Setenv("FEEDSYNC_DB_PATH", envDB)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DBPath != envDB {
		t.Fatalf("LoadConfig DBPath = %q, want %q", cfg.DBPath, envDB)
	}

	flagDB := filepath.Join(t.TempDir(), "from-flag.db")
	root := NewRootCmd(cfg)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"--db", flagDB, "get", "stats", "-o", "json"})

	if err := root.Execute(); err != nil {
		t.Fatalf("root.Execute: %v (stderr: %s)", err, stderr.String())
	}

	if _, err := os.Stat(flagDB); err != nil {
		t.Fatalf("expected flag DB at %q: %v", flagDB, err)
	}
	if _, err := os.Stat(envDB); !os.IsNotExist(err) {
		t.Fatalf("expected env DB not to be opened, stat err: %v", err)
	}
	if _, err := os.Stat(configDB); !os.IsNotExist(err) {
		t.Fatalf("expected config DB not to be opened, stat err: %v", err)
	}
}

func TestRootCommand_VerboseLogsLoadSteps(t *testing.T) {
	srv := newPostsAPI(t, 3)
	cfg := testConfig(filepath.Join(t.TempDir(), "feedsync.db"), srv.URL+"/api")

	_, stderr, err := execCLI(cfg, "--verbose", "load", "refresh")
	if err != nil {
		t.Fatalf("load refresh: %v", err)
	}
	if !bytes.Contains([]byte(stderr), []byte("load finished")) || !bytes.Contains([]byte(stderr), []byte("request_id=")) {
		t.Fatalf("expected debug log on stderr, got %q", stderr)
	}

	_, stderr, err = execCLI(cfg, "load", "refresh")
	if err != nil {
		t.Fatalf("load refresh: %v", err)
	}
	if stderr != "" {
		t.Fatalf("expected quiet stderr without --verbose, got %q", stderr)
	}
}
