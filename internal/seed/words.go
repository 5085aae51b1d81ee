// Package seed generates mock articles and loads them into the database for
// development.
package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WordLists is the raw material mock articles are assembled from.
type WordLists struct {
	Titles     []string `yaml:"titles"`
	Sentences  []string `yaml:"sentences"`
	Categories []string `yaml:"categories"`
	Comments   []string `yaml:"comments"`
}

// LoadWordLists reads the YAML word lists at path.
func LoadWordLists(path string) (*WordLists, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed data: %w", err)
	}
	var words WordLists
	if err := yaml.Unmarshal(raw, &words); err != nil {
		return nil, fmt.Errorf("parse seed data %s: %w", path, err)
	}
	if err := words.validate(); err != nil {
		return nil, fmt.Errorf("seed data %s: %w", path, err)
	}
	return &words, nil
}

func (w *WordLists) validate() error {
	switch {
	case len(w.Titles) == 0:
		return errors.New("no titles")
	case len(w.Sentences) < 2:
		return errors.New("at least two sentences are required")
	case len(w.Categories) == 0:
		return errors.New("no categories")
	case len(w.Comments) == 0:
		return errors.New("no comments")
	}
	return nil
}
