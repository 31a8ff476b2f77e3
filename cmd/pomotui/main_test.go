package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/pomotui/internal/config"
	"github.com/verte-zerg/pomotui/internal/model"
)

func intPtr(v int) *int          { return &v }
func boolPtr(v bool) *bool       { return &v }
func stringPtr(v string) *string { return &v }

func TestResolveConfigDefaults(t *testing.T) {
	cmd := newRootCmd()
	cfg, err := resolveConfig(cmd, config.FileConfig{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Work != 25*time.Minute || cfg.Break != 5*time.Minute {
		t.Fatalf("unexpected durations: %v %v", cfg.Work, cfg.Break)
	}
	if cfg.Tick != 200*time.Millisecond {
		t.Fatalf("unexpected tick: %v", cfg.Tick)
	}
	if !cfg.Autostart || cfg.HideImage || cfg.NoSound || cfg.NoNotify || cfg.NoHistory {
		t.Fatalf("unexpected switches: %+v", cfg)
	}
}

func TestResolveConfigFlagBeatsFile(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("work", "50"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileCfg := config.FileConfig{}
	fileCfg.Timer.Work = intPtr(30)
	fileCfg.Timer.Break = intPtr(10)
	fileCfg.Timer.Autostart = boolPtr(false)
	fileCfg.Timer.Tick = stringPtr("100ms")
	fileCfg.Sound.File = stringPtr("/tmp/ding.mp3")
	fileCfg.Notify.Disabled = boolPtr(true)

	cfg, err := resolveConfig(cmd, fileCfg)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Work != 50*time.Minute {
		t.Fatalf("flag should win, got %v", cfg.Work)
	}
	if cfg.Break != 10*time.Minute {
		t.Fatalf("file should override default, got %v", cfg.Break)
	}
	if cfg.Autostart {
		t.Fatalf("autostart=false in file should disable autostart")
	}
	if cfg.Tick != 100*time.Millisecond {
		t.Fatalf("unexpected tick: %v", cfg.Tick)
	}
	if cfg.SoundFile != "/tmp/ding.mp3" || !cfg.NoNotify {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestResolveConfigRejectsBadInput(t *testing.T) {
	cmd := newRootCmd()
	fileCfg := config.FileConfig{}
	fileCfg.Timer.Tick = stringPtr("fast")
	if _, err := resolveConfig(cmd, fileCfg); err == nil {
		t.Fatalf("expected error for invalid tick")
	}

	cmd = newRootCmd()
	if err := cmd.Flags().Set("break", "-1"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if _, err := resolveConfig(cmd, config.FileConfig{}); err == nil {
		t.Fatalf("expected error for negative break")
	}
}

func TestValidateConfig(t *testing.T) {
	base := model.Config{Work: time.Minute, Break: time.Minute, Tick: 200 * time.Millisecond}
	if err := validateConfig(base); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := map[string]model.Config{
		"both zero": {Tick: base.Tick},
		"zero tick": {Work: time.Minute},
		"slow tick": {Work: time.Minute, Tick: 2 * time.Second},
		"bad sound": {Work: time.Minute, Tick: base.Tick, SoundFile: "bell.flac"},
	}
	for name, cfg := range cases {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	muted := base
	muted.SoundFile = "bell.flac"
	muted.NoSound = true
	if err := validateConfig(muted); err != nil {
		t.Fatalf("sound file is ignored when sound is off: %v", err)
	}

	breakOnly := base
	breakOnly.Work = 0
	if err := validateConfig(breakOnly); err != nil {
		t.Fatalf("a zero work interval is allowed: %v", err)
	}
}

func TestHistoryConfig(t *testing.T) {
	cfg, err := historyConfig("2026-03-01", 7)
	if err != nil {
		t.Fatalf("history config: %v", err)
	}
	if cfg.Days != 7 || cfg.Since == nil || cfg.Since.Day() != 1 || cfg.Since.Month() != time.March {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := historyConfig("03/01/2026", 0); err == nil {
		t.Fatalf("expected error for malformed date")
	}
	if _, err := historyConfig("", -1); err == nil {
		t.Fatalf("expected error for negative days")
	}
}

func TestDefaultConfigTemplateParses(t *testing.T) {
	tpl := defaultConfigTemplate()
	if !strings.Contains(tpl, "[timer]") || !strings.Contains(tpl, "work = 25") {
		t.Fatalf("unexpected template:\n%s", tpl)
	}

	uncommented := strings.NewReplacer("# work", "work", "# tick", "tick").Replace(tpl)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(uncommented), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Timer.Work == nil || *cfg.Timer.Work != 25 {
		t.Fatalf("unexpected work: %v", cfg.Timer.Work)
	}
	if cfg.Timer.Tick == nil || *cfg.Timer.Tick != "200ms" {
		t.Fatalf("unexpected tick: %v", cfg.Timer.Tick)
	}
}

func TestOpenLogFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "pomotui", "pomotui.log")
	f, err := openLogFile(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("log file missing: %v", err)
	}
}
