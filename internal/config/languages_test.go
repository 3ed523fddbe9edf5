package config

import (
	"path/filepath"
	"testing"
)

func TestLanguagesMatch(t *testing.T) {
	cfg := DefaultLanguages()

	if got := cfg.Match("main.go"); got == nil || got.Name != "go" {
		t.Fatalf("Match main.go = %#v, want go", got)
	}
	if got := cfg.Match("go.mod"); got == nil || got.Name != "go" {
		t.Fatalf("Match go.mod = %#v, want go", got)
	}
	if got := cfg.Match("deploy.yml"); got == nil || got.Name != "yaml" {
		t.Fatalf("Match deploy.yml = %#v, want yaml", got)
	}
	if got := cfg.Match(".bashrc"); got == nil || got.Name != "bash" {
		t.Fatalf("Match .bashrc = %#v, want bash", got)
	}
	if got := cfg.Match("unknown.txt"); got != nil {
		t.Fatalf("Match unknown.txt = %#v, want nil", got)
	}
}

func TestLoadLanguagesUserWins(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("OXED_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "languages.toml"), `
[[language]]
name = "golang"
file-types = ["go"]
`)

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if got := cfg.Match("main.go"); got == nil || got.Name != "golang" {
		t.Fatalf("Match main.go = %#v, want golang", got)
	}
	if got := cfg.Match("conf.toml"); got == nil || got.Name != "toml" {
		t.Fatalf("Match conf.toml = %#v, want toml", got)
	}
}

func TestLoadLanguagesMissingUsesBuiltin(t *testing.T) {
	t.Setenv("OXED_CONFIG_HOME", t.TempDir())

	cfg, err := LoadLanguages()
	if err != nil {
		t.Fatalf("LoadLanguages error: %v", err)
	}
	if len(cfg.Languages) == 0 {
		t.Fatalf("Languages empty, want builtin set")
	}
}
