// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/playbymail/lslopt/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("non-existent file", func(t *testing.T) {
		cfg, err := config.Load("non-existent-file.json", false)
		if err != nil {
			t.Errorf("expected no error for non-existent file, got %v", err)
		}
		if cfg == nil {
			t.Fatalf("expected non-nil config")
		}
		if !cfg.Options.Optimize {
			t.Errorf("expected default Optimize to be true")
		}
	})

	t.Run("directory error", func(t *testing.T) {
		tmpDir := t.TempDir()
		_, err := config.Load(tmpDir, false)
		if err == nil {
			t.Errorf("expected error for directory, got nil")
		}
	})

	t.Run("empty config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.json")

		if err := os.WriteFile(configFile, []byte("{}"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, false)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if !cfg.Options.Optimize {
			t.Errorf("expected default Optimize to survive an empty override file")
		}
	})

	t.Run("partial config", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.json")

		testConfig := config.Config{
			Options: config.Options_t{ShrinkNames: true},
		}
		data, err := json.Marshal(testConfig)
		if err != nil {
			t.Fatalf("failed to marshal test config: %v", err)
		}
		if err := os.WriteFile(configFile, data, 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, false)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if !cfg.Options.ShrinkNames {
			t.Errorf("expected ShrinkNames to be true")
		}
		// Default options not present in the override file survive.
		if !cfg.Options.Optimize {
			t.Errorf("expected Optimize to remain true (default)")
		}
		if cfg.Options.Inline {
			t.Errorf("expected Inline to remain false (default)")
		}
	})

	t.Run("full config", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.json")

		testConfig := config.Config{
			Options: config.Options_t{
				EnableSwitch: true,
				Inline:       true,
			},
			Output: config.Output_t{OutputDir: "out", StorePath: "sessions.db"},
		}
		data, err := json.Marshal(testConfig)
		if err != nil {
			t.Fatalf("failed to marshal test config: %v", err)
		}
		if err := os.WriteFile(configFile, data, 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, false)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if !cfg.Options.Inline {
			t.Errorf("expected Inline to be true")
		}
		if cfg.Output.OutputDir != "out" {
			t.Errorf("expected OutputDir %q, got %q", "out", cfg.Output.OutputDir)
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.json")

		if err := os.WriteFile(configFile, []byte("invalid json"), 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, true)
		if err != nil {
			t.Errorf("expected no error for invalid JSON, got %v", err)
		}
		if !cfg.Options.Optimize {
			t.Errorf("expected default config when JSON is invalid")
		}
	})
}

func TestCopyNonZeroFields(t *testing.T) {
	// copyNonZeroFields isn't exported; exercise it indirectly through Load.
	t.Run("copy only non-zero fields", func(t *testing.T) {
		tmpDir := t.TempDir()
		configFile := filepath.Join(tmpDir, "config.json")

		testConfig := config.Config{
			Options: config.Options_t{ShrinkNames: true},
		}
		data, err := json.Marshal(testConfig)
		if err != nil {
			t.Fatalf("failed to marshal test config: %v", err)
		}
		if err := os.WriteFile(configFile, data, 0644); err != nil {
			t.Fatalf("failed to create test file: %v", err)
		}

		cfg, err := config.Load(configFile, true)
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if !cfg.Options.ShrinkNames {
			t.Errorf("expected ShrinkNames to be true")
		}
		if cfg.Options.Inline {
			t.Errorf("expected Inline to remain false (default)")
		}
	})
}

func TestApplyPragmas(t *testing.T) {
	src := []byte("#pragma OPT +Optimize,-EnableSwitch\ndefault() {}\n")
	out := config.ApplyPragmas(config.Options_t{EnableSwitch: true}, src)
	if !out.Optimize {
		t.Errorf("expected Optimize to be enabled by pragma")
	}
	if out.EnableSwitch {
		t.Errorf("expected EnableSwitch to be disabled by pragma")
	}
}
