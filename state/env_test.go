package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"themegen/common"
	"themegen/config"
)

func TestEnvFromContext(t *testing.T) {
	env := EnvFromContext(ContextWithEnv(context.Background()))
	if env.start.IsZero() {
		t.Error("start time not set")
	}

	defer func() {
		if r := recover(); r == nil {
			t.Error("EnvFromContext() without env did not panic")
		}
	}()
	EnvFromContext(context.Background())
}

func TestLocalEnv_Uptime(t *testing.T) {
	env := &LocalEnv{start: time.Now().Add(-time.Minute)}
	if got := env.Uptime(); got < time.Minute {
		t.Errorf("Uptime() = %v, want at least a minute", got)
	}
}

func TestLocalEnv_StdLog(t *testing.T) {
	tests := []struct {
		name     string
		log      *zap.Logger
		redirect bool
	}{
		{"redirect and restore", zaptest.NewLogger(t), true},
		{"restore only", zaptest.NewLogger(t), false},
		{"no logger", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &LocalEnv{Log: tt.log}
			if tt.redirect {
				env.RedirectStdLog()
				if got := env.restoreStdLog != nil; got != (tt.log != nil) {
					t.Errorf("restoreStdLog set = %v with logger %v", got, tt.log != nil)
				}
			}
			env.RestoreStdLog()
		})
	}
}

func TestLocalEnv_Engine(t *testing.T) {
	env := &LocalEnv{
		Cfg: &config.Config{Template: config.TemplateConfig{
			Policies: map[string]common.SubstitutionPolicy{"background": common.SubstitutionPolicyWholeValue},
		}},
		Log: zaptest.NewLogger(t),
	}

	policies := env.Engine().Policies()
	if policies.Lookup("background") != common.SubstitutionPolicyWholeValue {
		t.Errorf("configured policy lost: %v", policies)
	}
	if policies.Lookup("filter") != common.SubstitutionPolicyFilterPair {
		t.Errorf("built-in policy lost: %v", policies)
	}

	// no configuration
	if got := (&LocalEnv{}).Engine().Policies().Lookup("font-family"); got != common.SubstitutionPolicyWholeValue {
		t.Errorf("Lookup(font-family) = %q without configuration", got)
	}
}

func TestLocalEnv_Defaults(t *testing.T) {
	dir := t.TempDir()
	configured := filepath.Join(dir, "defaults.json")
	if err := os.WriteFile(configured, []byte(`{"ffDefault": "Verdana", "cornerRadius": "4px"}`), 0644); err != nil {
		t.Fatal(err)
	}
	override := filepath.Join(dir, "defaults.yaml")
	if err := os.WriteFile(override, []byte("ffDefault: Arial\n"), 0644); err != nil {
		t.Fatal(err)
	}

	env := &LocalEnv{
		Cfg: &config.Config{Template: config.TemplateConfig{DefaultsPath: configured}},
		Log: zaptest.NewLogger(t),
	}

	values, err := env.Defaults("")
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}
	if values["ffDefault"] != "Verdana" || values["cornerRadius"] != "4px" {
		t.Errorf("Defaults() = %v", values)
	}

	values, err = env.Defaults(override)
	if err != nil {
		t.Fatalf("Defaults(override) error = %v", err)
	}
	if len(values) != 1 || values["ffDefault"] != "Arial" {
		t.Errorf("Defaults(override) = %v", values)
	}

	values, err = (&LocalEnv{}).Defaults("")
	if err != nil || values != nil {
		t.Errorf("Defaults() without configuration = %v, %v", values, err)
	}

	if _, err := env.Defaults(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Defaults(missing) expected error")
	}
}

func TestLocalEnv_Integration(t *testing.T) {
	ctx := ContextWithEnv(context.Background())
	env := EnvFromContext(ctx)
	env.Cfg = &config.Config{Version: 1}
	env.Log = zaptest.NewLogger(t)

	env.RedirectStdLog()
	defer env.RestoreStdLog()

	// nil report and empty configuration are valid for rendering
	rendered, err := env.Engine().Render([]byte(".a{color:red/*{fc}*/}"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if rendered != ".a{color:red}" {
		t.Errorf("Render() = %q", rendered)
	}
	if values, err := env.Defaults(""); err != nil || values != nil {
		t.Errorf("Defaults() = %v, %v", values, err)
	}
}
