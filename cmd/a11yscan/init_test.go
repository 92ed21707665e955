package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mhdismailalsayad/Accessiblity-analyzer/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	cmd := NewInitCmd()
	flag := cmd.Flags().Lookup("output")
	if flag == nil {
		t.Fatal("expected output flag")
	}
	if flag.DefValue != config.DefaultConfigFile {
		t.Errorf("expected default %q, got %q", config.DefaultConfigFile, flag.DefValue)
	}
	if cmd.Flags().Lookup("force") == nil {
		t.Error("expected force flag")
	}
}

func runInit(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunInitCmd(t *testing.T) {
	t.Parallel()

	t.Run("creates a loadable config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", ".a11yscan")
		out, err := runInit(t, "-o", path)
		if err != nil {
			t.Fatalf("init error = %v", err)
		}
		if !strings.Contains(out, "Created configuration file: "+path) {
			t.Errorf("unexpected output:\n%s", out)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected file: %v", err)
		}
		if info.Mode().Perm() != 0o600 {
			t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
		}

		cf, err := config.LoadConfigFile(path)
		if err != nil {
			t.Fatalf("template does not load: %v", err)
		}
		if len(cf.Defaults.IgnorePatterns) == 0 {
			t.Error("expected default ignore patterns in the template")
		}
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".a11yscan")
		if err := os.WriteFile(path, []byte("sites: {}\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := runInit(t, "-o", path); err == nil || !strings.Contains(err.Error(), "already exists") {
			t.Errorf("expected already exists error, got %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "sites: {}\n" {
			t.Error("existing file was modified")
		}
	})

	t.Run("force overwrites", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".a11yscan")
		if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := runInit(t, "-o", path, "-f"); err != nil {
			t.Fatalf("init -f error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if string(data) == "old" {
			t.Error("expected the file to be overwritten")
		}
	})
}
