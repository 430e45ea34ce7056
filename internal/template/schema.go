package template

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema is a setup preset as stored in YAML.
type Schema struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Structure   string `yaml:"struttura"`
	Rules       string `yaml:"regole"`
}

// LoadSchema reads and parses a template file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes a template document, rejecting unknown keys.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	dec := yaml.NewDecoder(bytesReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return &s, nil
}
