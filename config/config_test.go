package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.Folder != "output" {
		t.Errorf("expected default output folder output, got %s", cfg.Output.Folder)
	}
	if len(cfg.Input.Patterns) != 1 || cfg.Input.Patterns[0] != "**/*.xml" {
		t.Errorf("expected default pattern **/*.xml, got %v", cfg.Input.Patterns)
	}
	if cfg.Report.Format != ReportText {
		t.Errorf("expected default report format text, got %s", cfg.Report.Format)
	}
	if cfg.Species.CaseSensitive {
		t.Error("expected case insensitive species by default")
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing output folder",
			modify:  func(c *Config) { c.Output.Folder = "" },
			wantErr: true,
		},
		{
			name:    "no input patterns",
			modify:  func(c *Config) { c.Input.Patterns = nil },
			wantErr: true,
		},
		{
			name:    "unknown report format",
			modify:  func(c *Config) { c.Report.Format = "pdf" },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Watch.Debounce = -time.Second },
			wantErr: true,
		},
		{
			name:    "nats without subject",
			modify:  func(c *Config) { c.NATS.URL = "nats://localhost:4222"; c.NATS.Subject = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
kinetics:
  folder: "/data/kinetics/POLIMI"
  remote_folder: "/cluster/kinetics/POLIMI"
input:
  folder: "/data/respecth"
  patterns:
    - "ignition/**/*.xml"
    - "jsr/*.xml"
output:
  folder: "/data/out"
species:
  database: "/data/species.xml"
  case_sensitive: true
report:
  format: markdown
nats:
  url: "nats://test:4222"
watch:
  debounce: 2s
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Kinetics.Folder != "/data/kinetics/POLIMI" {
		t.Errorf("expected kinetics folder /data/kinetics/POLIMI, got %s", cfg.Kinetics.Folder)
	}
	if cfg.DictionaryKineticsFolder() != "/cluster/kinetics/POLIMI" {
		t.Errorf("expected remote kinetics folder, got %s", cfg.DictionaryKineticsFolder())
	}
	if len(cfg.Input.Patterns) != 2 {
		t.Errorf("expected 2 input patterns, got %d", len(cfg.Input.Patterns))
	}
	if !cfg.Species.CaseSensitive {
		t.Error("expected case sensitive species")
	}
	if cfg.Report.Format != ReportMarkdown {
		t.Errorf("expected report format markdown, got %s", cfg.Report.Format)
	}
	// Defaults survive for keys the file does not set
	if cfg.Report.File != "Report.txt" {
		t.Errorf("expected default report file, got %s", cfg.Report.File)
	}
	if cfg.NATS.Subject != "respecth.conversions" {
		t.Errorf("expected default subject, got %s", cfg.NATS.Subject)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("expected debounce 2s, got %v", cfg.Watch.Debounce)
	}
}

func TestLoadFromFile_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("output: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadFromFile(filepath.Join(tmpDir, "missing.yaml")); err == nil {
		t.Error("expected read error")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Kinetics: KineticsConfig{
			Folder: "/override/kinetics",
		},
		Species: SpeciesConfig{
			CaseSensitive: true,
		},
	}

	base.Merge(override)

	if base.Kinetics.Folder != "/override/kinetics" {
		t.Errorf("expected kinetics folder /override/kinetics, got %s", base.Kinetics.Folder)
	}
	// Output folder should remain from base since override didn't set it
	if base.Output.Folder != "output" {
		t.Errorf("expected output folder to remain default, got %s", base.Output.Folder)
	}
	if !base.Species.CaseSensitive {
		t.Error("expected case sensitive after merge")
	}

	base.Merge(nil)
	if base.Kinetics.Folder != "/override/kinetics" {
		t.Error("merging nil should not change the config")
	}
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kinetics.Folder = "/local/kin"
	cfg.Output.Folder = "/local/out"

	if got := cfg.DictionaryKineticsFolder(); got != "/local/kin" {
		t.Errorf("expected local kinetics folder, got %s", got)
	}
	if got := cfg.SimulationOutputFolder("x1"); got != filepath.Join("/local/out", "x1") {
		t.Errorf("expected local output folder, got %s", got)
	}
	if got := cfg.ReportPath(); got != filepath.Join("/local/out", "Report.txt") {
		t.Errorf("expected report in output folder, got %s", got)
	}

	cfg.Output.RemoteFolder = "/remote/out"
	if got := cfg.SimulationOutputFolder("x1"); got != filepath.Join("/remote/out", "x1") {
		t.Errorf("expected remote output folder, got %s", got)
	}

	cfg.Report.File = "/tmp/report.md"
	if got := cfg.ReportPath(); got != "/tmp/report.md" {
		t.Errorf("expected absolute report path, got %s", got)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Kinetics.Folder = "/saved/kinetics"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Kinetics.Folder != "/saved/kinetics" {
		t.Errorf("expected kinetics folder /saved/kinetics, got %s", loaded.Kinetics.Folder)
	}
}

func TestLoader_Load(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	project := t.TempDir()
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(prevWD) })

	userCfg := DefaultConfig()
	userCfg.Kinetics.Folder = "/user/kin"
	userCfg.Output.Folder = "/user/out"
	if err := userCfg.SaveToFile(filepath.Join(home, UserConfigDir, UserConfigFile)); err != nil {
		t.Fatal(err)
	}

	projectYAML := "output:\n  folder: /project/out\n"
	if err := os.WriteFile(filepath.Join(project, ProjectConfigFile), []byte(projectYAML), 0644); err != nil {
		t.Fatal(err)
	}

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("report:\n  format: html\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := NewLoader(nil).Load(explicit)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Kinetics.Folder != "/user/kin" {
		t.Errorf("expected user kinetics folder, got %s", cfg.Kinetics.Folder)
	}
	if cfg.Output.Folder != "/project/out" {
		t.Errorf("expected project output folder, got %s", cfg.Output.Folder)
	}
	if cfg.Report.Format != ReportHTML {
		t.Errorf("expected html report from explicit file, got %s", cfg.Report.Format)
	}
	if cfg.Input.Folder == "" {
		t.Error("expected input folder to fall back to the working directory")
	}

	if _, err := NewLoader(nil).Load(filepath.Join(home, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
