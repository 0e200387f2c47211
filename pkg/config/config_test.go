package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-drift/motion/pkg/frame"
)

func TestDefaultSettings(t *testing.T) {
	s := Default()
	if s.Pools.Tweens != 64 {
		t.Errorf("Pools.Tweens = %d, want 64", s.Pools.Tweens)
	}
	if s.Pools.Groups != 8 {
		t.Errorf("Pools.Groups = %d, want 8", s.Pools.Groups)
	}
	if s.Defaults.Phase != "update" {
		t.Errorf("Defaults.Phase = %q, want update", s.Defaults.Phase)
	}
	if !s.Defaults.Recyclable {
		t.Error("Defaults.Recyclable should default to true")
	}
	if s.Verbose {
		t.Error("Verbose should default to false")
	}
}

func TestLoadOptionalMissingFile(t *testing.T) {
	s, err := LoadOptional(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOptional failed: %v", err)
	}
	if *s != Default() {
		t.Errorf("missing file should yield defaults, got %+v", s)
	}
}

func TestLoadOptionalParsesFile(t *testing.T) {
	dir := t.TempDir()
	content := `pools:
  tweens: 16
  groups: 2
defaults:
  phase: physics
  recyclable: false
verbose: true
`
	if err := os.WriteFile(filepath.Join(dir, "motion.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadOptional(dir)
	if err != nil {
		t.Fatalf("LoadOptional failed: %v", err)
	}
	if s.Pools.Tweens != 16 || s.Pools.Groups != 2 {
		t.Errorf("Pools = %+v, want tweens 16, groups 2", s.Pools)
	}
	if s.Defaults.Phase != "physics" {
		t.Errorf("Defaults.Phase = %q, want physics", s.Defaults.Phase)
	}
	if s.Defaults.Recyclable {
		t.Error("explicit recyclable: false should override the default")
	}
	if !s.Verbose {
		t.Error("Verbose should be parsed")
	}
	if s.DefaultPhase() != frame.PhasePhysics {
		t.Errorf("DefaultPhase = %v, want physics", s.DefaultPhase())
	}
}

func TestLoadOptionalRejectsUnknownPhase(t *testing.T) {
	dir := t.TempDir()
	content := "defaults:\n  phase: render\n"
	if err := os.WriteFile(filepath.Join(dir, "motion.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptional(dir); err == nil {
		t.Error("unknown phase name should fail validation")
	}
}

func TestLoadOptionalRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "motion.yaml"), []byte("pools: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOptional(dir); err == nil {
		t.Error("malformed yaml should fail")
	}
}

func TestValidateNegativePoolSizes(t *testing.T) {
	s := Default()
	s.Pools.Tweens = -1
	if err := s.Validate(); err == nil {
		t.Error("negative pool size should fail validation")
	}
}

func TestDefaultPhaseFallsBackToUpdate(t *testing.T) {
	s := Settings{Defaults: DefaultSettings{Phase: "nonsense"}}
	if got := s.DefaultPhase(); got != frame.PhaseUpdate {
		t.Errorf("DefaultPhase = %v, want update fallback", got)
	}
}
