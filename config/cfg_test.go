package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"

	"themegen/common"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Build.Version != "1.8.16" {
		t.Errorf("Build.Version = %q, want 1.8.16", cfg.Build.Version)
	}
	if cfg.Build.OutputNameTemplate != "jquery-ui-{{ .Version }}.custom.css" {
		t.Errorf("OutputNameTemplate = %q, template must not be expanded", cfg.Build.OutputNameTemplate)
	}
	if cfg.Build.ThemeRollerURL != "http://jqueryui.com/themeroller/" {
		t.Errorf("ThemeRollerURL = %q", cfg.Build.ThemeRollerURL)
	}
	if cfg.Build.Scope.Selector != "" {
		t.Errorf("Scope.Selector = %q, want empty", cfg.Build.Scope.Selector)
	}
	if got := strings.Join(cfg.Build.Scope.AllowedPrefixes, " "); got != "* html body" {
		t.Errorf("AllowedPrefixes = %q", got)
	}

	want := map[string]common.SubstitutionPolicy{
		"font-family": common.SubstitutionPolicyWholeValue,
		"filter":      common.SubstitutionPolicyFilterPair,
	}
	if len(cfg.Template.Policies) != len(want) {
		t.Fatalf("Policies = %v, want %v", cfg.Template.Policies, want)
	}
	for k, v := range want {
		if cfg.Template.Policies[k] != v {
			t.Errorf("Policies[%q] = %q, want %q", k, cfg.Template.Policies[k], v)
		}
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
template:
  policies:
    font-family: default
    background-image: whole-value
build:
  version: "1.8.20"
  output_dir: ` + filepath.Join(tmpDir, "out") + `
  dir_name_transliterate: true
  scope:
    selector: ".my-scope"
    allowed_prefixes: ["html"]
logging:
  console:
    level: debug
  file:
    level: debug
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: overwrite
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Build.Version != "1.8.20" {
		t.Errorf("Build.Version = %q, want 1.8.20", cfg.Build.Version)
	}
	if !cfg.Build.DirNameTransliterate {
		t.Error("Expected DirNameTransliterate to be true")
	}
	if cfg.Build.Scope.Selector != ".my-scope" {
		t.Errorf("Scope.Selector = %q", cfg.Build.Scope.Selector)
	}
	if len(cfg.Build.Scope.AllowedPrefixes) != 1 || cfg.Build.Scope.AllowedPrefixes[0] != "html" {
		t.Errorf("AllowedPrefixes = %v, want [html]", cfg.Build.Scope.AllowedPrefixes)
	}
	// values absent from file keep their defaults
	if cfg.Build.ThemeRollerURL != "http://jqueryui.com/themeroller/" {
		t.Errorf("ThemeRollerURL = %q", cfg.Build.ThemeRollerURL)
	}
	if cfg.Template.Policies["font-family"] != common.SubstitutionPolicyDefault {
		t.Errorf("Policies[font-family] = %q, want default", cfg.Template.Policies["font-family"])
	}
	if cfg.Template.Policies["background-image"] != common.SubstitutionPolicyWholeValue {
		t.Errorf("Policies[background-image] = %q, want whole-value", cfg.Template.Policies["background-image"])
	}
	if cfg.Logging.FileLogger.Mode != "overwrite" {
		t.Errorf("FileLogger.Mode = %q", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "invalid yaml",
			content: `version: 1
build:
  version: "1"
  invalid indent
`,
		},
		{
			name: "unknown field",
			content: `version: 1
unknown_field: value
`,
		},
		{
			name:    "wrong version",
			content: "version: 2\n",
		},
		{
			name: "unknown policy",
			content: `version: 1
template:
  policies:
    color: replace-all
`,
		},
		{
			name: "bad url",
			content: `version: 1
build:
  themeroller_url: "not a url"
`,
		},
		{
			name: "empty prefix",
			content: `version: 1
build:
  scope:
    allowed_prefixes: ["html", ""]
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("LoadConfiguration() expected error")
			}
		})
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// Verify it's valid YAML by trying to unmarshal
	cfg := &Config{}
	_, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Template: TemplateConfig{
			Policies: map[string]common.SubstitutionPolicy{"filter": common.SubstitutionPolicyFilterPair},
		},
		Build: BuildConfig{
			Version:   "1.8.16",
			OutputDir: "output",
			Scope:     ScopeConfig{Selector: "#main"},
		},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "filter: filter-pair") {
		t.Errorf("Dump() = %s, want policy in text form", data)
	}

	// Verify we can load it back
	cfg2 := &Config{}
	_, err = unmarshalConfig(data, cfg2, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}

	if cfg2.Version != cfg.Version {
		t.Errorf("Version mismatch after dump/load: got %d, want %d", cfg2.Version, cfg.Version)
	}
	if cfg2.Build.Scope.Selector != "#main" {
		t.Errorf("Scope.Selector after dump/load = %q", cfg2.Build.Scope.Selector)
	}
	if cfg2.Template.Policies["filter"] != common.SubstitutionPolicyFilterPair {
		t.Errorf("Policies after dump/load = %v", cfg2.Template.Policies)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		data := []byte(`version: 1`)
		cfg := &Config{}

		result, err := unmarshalConfig(data, cfg, false)
		if err != nil {
			t.Errorf("unmarshalConfig() error = %v", err)
		}

		if result == nil {
			t.Fatal("unmarshalConfig() returned nil")
		}

		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		data := []byte(`invalid: [yaml`)
		cfg := &Config{}

		_, err := unmarshalConfig(data, cfg, false)
		if err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"UI lightness", "UI lightness"},
		{"a" + string(os.PathSeparator) + "b", "ab"},
		{"", "_bad_file_name_"},
		{string(os.PathSeparator), "_bad_file_name_"},
	}

	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
