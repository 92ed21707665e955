package main

import (
	"slices"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "a11yscan" {
			t.Errorf("expected use 'a11yscan', got %q", cmd.Use)
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage || !cmd.SilenceErrors {
			t.Error("expected SilenceUsage and SilenceErrors")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		var names []string
		for _, sub := range cmd.Commands() {
			names = append(names, sub.Name())
		}
		for _, want := range []string{"audit", "combine", "score", "history", "taxonomy", "init", "version"} {
			if !slices.Contains(names, want) {
				t.Errorf("expected %s subcommand, got %v", want, names)
			}
		}
	})
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList([]string{"pa11y,axe", " lighthouse ", ",", ""})
	want := []string{"pa11y", "axe", "lighthouse"}
	if !slices.Equal(got, want) {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
}

// TestNewViperEnv cannot run in parallel because it sets environment variables.
func TestNewViperEnv(t *testing.T) {
	t.Setenv("A11YSCAN_MAX_PAGES", "7")
	t.Setenv("A11YSCAN_TOOLS", "axe,pa11y")

	cmd := NewAuditCmd()
	v, err := newViper(cmd)
	if err != nil {
		t.Fatalf("newViper() error = %v", err)
	}
	if got := v.GetInt("max-pages"); got != 7 {
		t.Errorf("max-pages = %d, want 7", got)
	}

	cfg, err := buildAuditConfig(v, []string{"https://example.com"})
	if err != nil {
		t.Fatalf("buildAuditConfig() error = %v", err)
	}
	if len(cfg.Tools) != 2 {
		t.Errorf("expected 2 tools from the environment, got %v", cfg.Tools)
	}

	if err := cmd.Flags().Set("max-pages", "3"); err != nil {
		t.Fatal(err)
	}
	if got := v.GetInt("max-pages"); got != 3 {
		t.Errorf("flag should win over environment, got %d", got)
	}
}
