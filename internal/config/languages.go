package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Language struct {
	Name      string   `toml:"name"`
	FileTypes []string `toml:"file-types"`
}

type Languages struct {
	Languages []Language `toml:"language"`
}

// Match resolves a path to a language by extension or exact file name.
func (l Languages) Match(path string) *Language {
	base := filepath.Base(path)
	baseLower := strings.ToLower(base)
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
	for i := range l.Languages {
		lang := &l.Languages[i]
		for _, ft := range lang.FileTypes {
			ftLower := strings.ToLower(ft)
			if ftLower == ext || ftLower == baseLower {
				return lang
			}
			if strings.HasPrefix(ftLower, ".") && strings.TrimPrefix(ftLower, ".") == ext {
				return lang
			}
		}
	}
	return nil
}

// DefaultLanguages covers the grammars compiled into the highlighter.
func DefaultLanguages() Languages {
	return Languages{
		Languages: []Language{
			{Name: "go", FileTypes: []string{"go", "go.mod", "go.sum"}},
			{Name: "toml", FileTypes: []string{"toml"}},
			{Name: "yaml", FileTypes: []string{"yaml", "yml"}},
			{Name: "bash", FileTypes: []string{"sh", "bash", ".bashrc", ".profile"}},
			{Name: "json", FileTypes: []string{"json"}},
			{Name: "markdown", FileTypes: []string{"md", "markdown"}},
		},
	}
}

// LoadLanguages merges languages.toml entries ahead of the builtin
// set, so a user mapping wins on Match order.
func LoadLanguages() (Languages, error) {
	builtin := DefaultLanguages()
	path, err := LanguagesPath()
	if err != nil {
		return builtin, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return builtin, nil
		}
		return builtin, err
	}

	var cfg Languages
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return builtin, err
	}
	cfg.Languages = append(cfg.Languages, builtin.Languages...)
	return cfg, nil
}

func LanguagesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "languages.toml"), nil
}
