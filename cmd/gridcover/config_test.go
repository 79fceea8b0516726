package main

import (
	"path/filepath"
	"testing"
)

func TestWriteConfigThenParseConfigRoundTrips(t *testing.T) {
	conf := *DefaultConf
	conf.Seed = 42
	conf.Radius = 0.5
	conf.ColorTheme = "blue"

	path := filepath.Join(t.TempDir(), "args.toml")
	if err := WriteConfig(path, &conf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := ParseConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Seed != 42 || loaded.Radius != 0.5 || loaded.ColorTheme != "blue" {
		t.Errorf("round-tripped config = %+v, want Seed=42 Radius=0.5 ColorTheme=blue", loaded)
	}
}

func TestParseConfigMissingFileKeepsDefaultsWithError(t *testing.T) {
	conf, err := ParseConfig("/nonexistent/args.toml")
	if err == nil {
		t.Error("expected an error for a missing args file")
	}
	if conf.Speed != DefaultConf.Speed {
		t.Errorf("expected defaults preserved even on error, got Speed=%v", conf.Speed)
	}
}

func TestPaperDimsExplicitMMOverridesPaperSize(t *testing.T) {
	conf := *DefaultConf
	conf.ImageWidth = 100
	conf.ImageHeight = 50
	conf.DPI = 300
	w, h := paperDims(&conf)
	if w <= 0 || h <= 0 {
		t.Fatalf("paperDims = %d,%d, want positive", w, h)
	}
	// 100x50mm at 300 DPI: PixelsAt truncates each side on its own,
	// 1181.10 -> 1181 and 590.55 -> 590 (A4 would give 2480x3507).
	if w != 1181 || h != 590 {
		t.Errorf("paperDims = %d,%d, want 1181,590 from the explicit 100x50mm override", w, h)
	}
}

func TestPaperDimsFallsBackToNamedSize(t *testing.T) {
	conf := *DefaultConf
	conf.PaperSize = "A3"
	conf.ImageWidth, conf.ImageHeight = 0, 0
	w, h := paperDims(&conf)
	if w <= 0 || h <= 0 {
		t.Fatalf("paperDims = %d,%d, want positive", w, h)
	}
}

func TestMergeUnsetFlagsPrefersCLIOverArgsFile(t *testing.T) {
	cmd := newRootCommand()
	if err := cmd.Flags().Set("seed", "123"); err != nil {
		t.Fatal(err)
	}

	conf := *DefaultConf
	conf.Seed = 123 // the flag.Set above mutated the command's own conf, not this copy
	loaded := *DefaultConf
	loaded.Seed = 999
	loaded.Radius = 0.9

	mergeUnsetFlags(cmd, &conf, &loaded)

	if conf.Seed != 123 {
		t.Errorf("Seed = %d, want 123 (CLI-set flag should win over args file)", conf.Seed)
	}
	if conf.Radius != 0.9 {
		t.Errorf("Radius = %v, want 0.9 (unset flag should take the args file value)", conf.Radius)
	}
}
