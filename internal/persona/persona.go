// Package persona holds the system prompts used for the stylized rewrite.
package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const FileName = "personas.yaml"

const (
	DefaultTranslator = "You are a Bangalore techie translator. Turn these full search result lines (URL - snippet) into super strong Bangalore English with heavy slang like 'da', 'macha', 'ayyo', 'garam', 'saar', 'yaar'. Make both the title-like part (before '-') and description (after '-') sound like a witty, sarcastic Bangalore techie chatting with a friend. Output ONLY the translated lines, each as 'URL - translated title/description', no extra text or labels. If a URL is not provided or invalid, use '#' for the URL. If the snippet is missing, use a placeholder. Ensure each line is properly formatted."
	DefaultCommenter  = "You are Sudeep, a sarcastic Bangalore techie. Generate one single, funny, sarcastic comment roasting the person searching, in strong Bangalore English with heavy slang like 'da', 'macha', 'ayyo', 'garam', 'saar', 'yaar'. Theme it around high temperature and techie life, keep it short, witty, and roast the searcher directly, no numbers or lists. If the search query is technical, roast them for searching something obvious or basic. If it's about food, roast them for being hungry or ordering."
)

// Set is the pair of system prompts. Empty fields fall back to the defaults.
type Set struct {
	Translator string `yaml:"translator"`
	Commenter  string `yaml:"commenter"`
}

func Default() Set {
	return Set{Translator: DefaultTranslator, Commenter: DefaultCommenter}
}

// Load reads a YAML persona file.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, err
	}
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return Set{}, fmt.Errorf("parse persona file %s: %w", path, err)
	}
	return set.WithDefaults(), nil
}

// ReadFromDisk looks for personas.yaml in the working directory and its
// parents.
func ReadFromDisk() (Set, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Set{}, err
	}
	path, err := findInParents(cwd, FileName)
	if err != nil {
		return Set{}, err
	}
	return Load(path)
}

// WithDefaults trims both prompts and fills empty ones with the defaults.
func (s Set) WithDefaults() Set {
	s.Translator = strings.TrimSpace(s.Translator)
	s.Commenter = strings.TrimSpace(s.Commenter)
	if s.Translator == "" {
		s.Translator = DefaultTranslator
	}
	if s.Commenter == "" {
		s.Commenter = DefaultCommenter
	}
	return s
}

func findInParents(startDir string, filename string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, filename)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}
