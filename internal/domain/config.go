package domain

import (
	"strings"
	"time"
)

// Configuration is the setup record captured by the wizard. It is created once
// and cleared on reset; it is never partially updated.
type Configuration struct {
	FilePath  string    `json:"file_path"`
	FileName  string    `json:"file_name"`
	Structure string    `json:"struttura"`
	Rules     string    `json:"regole"`
	Template  string    `json:"template"`
	CreatedAt time.Time `json:"created_at"`
}

// SetupFields holds the raw wizard input before validation.
type SetupFields struct {
	FilePath  string
	FileName  string
	Structure string
	Rules     string
	Template  string
}

// Validate checks that all required setup fields are present.
func (f SetupFields) Validate() error {
	if strings.TrimSpace(f.FilePath) == "" {
		return &FieldError{Field: "file_path", Reason: "schedule file is required", Cause: ErrMissingUpload}
	}
	if strings.TrimSpace(f.FileName) == "" {
		return &FieldError{Field: "file_name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(f.Structure) == "" {
		return &FieldError{Field: "struttura", Reason: "must not be empty"}
	}
	if strings.TrimSpace(f.Rules) == "" {
		return &FieldError{Field: "regole", Reason: "must not be empty"}
	}
	if strings.TrimSpace(f.Template) == "" {
		return &FieldError{Field: "template", Reason: "must not be empty"}
	}
	return nil
}

// NewConfiguration validates fields and stamps the creation time.
func NewConfiguration(f SetupFields, now time.Time) (*Configuration, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &Configuration{
		FilePath:  f.FilePath,
		FileName:  f.FileName,
		Structure: f.Structure,
		Rules:     f.Rules,
		Template:  f.Template,
		CreatedAt: now,
	}, nil
}

// Fields returns the configuration keyed by its JSON names.
func (c *Configuration) Fields() map[string]any {
	return map[string]any{
		"file_path":  c.FilePath,
		"file_name":  c.FileName,
		"struttura":  c.Structure,
		"regole":     c.Rules,
		"template":   c.Template,
		"created_at": c.CreatedAt,
	}
}
