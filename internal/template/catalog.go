package template

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrNotFound indicates no template matches the requested selector.
var ErrNotFound = errors.New("template not found")

// Template sources.
const (
	SourceBuiltin = "builtin"
	SourceUser    = "user"
)

// Entry is a loaded template with its listing index and origin.
type Entry struct {
	Index  int
	Path   string
	Source string
	Schema *Schema
}

// Catalog holds builtin templates plus any user templates found on disk.
// A user template replaces the builtin with the same id.
type Catalog struct {
	entries []Entry
}

// LoadCatalog reads the builtins and every *.yaml / *.yml file in userDir.
// A missing userDir is not an error; invalid user files are skipped.
func LoadCatalog(userDir string) (*Catalog, error) {
	byID := map[string]Entry{}

	builtins, err := fs.Glob(builtinFS, "builtin/*.yaml")
	if err != nil {
		return nil, err
	}
	for _, name := range builtins {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading builtin template %s: %w", name, err)
		}
		schema, err := ParseSchema(data)
		if err != nil {
			return nil, fmt.Errorf("builtin template %s: %w", name, err)
		}
		byID[schema.ID] = Entry{Path: name, Source: SourceBuiltin, Schema: schema}
	}

	if userDir != "" {
		for _, pattern := range []string{"*.yaml", "*.yml"} {
			files, err := filepath.Glob(filepath.Join(userDir, pattern))
			if err != nil {
				return nil, err
			}
			for _, file := range files {
				schema, err := LoadSchema(file)
				if err != nil || len(ValidateSchema(schema)) > 0 {
					continue // skip invalid templates
				}
				byID[schema.ID] = Entry{Path: file, Source: SourceUser, Schema: schema}
			}
		}
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	c := &Catalog{entries: make([]Entry, 0, len(ids))}
	for i, id := range ids {
		e := byID[id]
		e.Index = i + 1
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// Entries returns the templates ordered by id.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Resolve finds a template by id, display name, file stem or list index.
func (c *Catalog) Resolve(selector string) (*Entry, error) {
	input := strings.TrimSpace(selector)
	if input == "" {
		return nil, fmt.Errorf("template name is required: %w", ErrNotFound)
	}

	for i := range c.entries {
		e := &c.entries[i]
		stem := strings.TrimSuffix(path.Base(filepath.ToSlash(e.Path)), filepath.Ext(e.Path))
		if strings.EqualFold(e.Schema.ID, input) ||
			strings.EqualFold(e.Schema.Name, input) ||
			strings.EqualFold(stem, input) {
			return e, nil
		}
	}

	if n, err := strconv.Atoi(input); err == nil {
		for i := range c.entries {
			if c.entries[i].Index == n {
				return &c.entries[i], nil
			}
		}
	}

	return nil, fmt.Errorf("%q: %w", selector, ErrNotFound)
}

// WriteUserTemplate stores schema as <dir>/<id>.yaml after validating it.
func WriteUserTemplate(dir string, data []byte) (string, error) {
	schema, err := ParseSchema(data)
	if err != nil {
		return "", err
	}
	if errs := ValidateSchema(schema); len(errs) > 0 {
		return "", errors.Join(errs...)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating templates dir: %w", err)
	}
	dest := filepath.Join(dir, schema.ID+".yaml")
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("writing template: %w", err)
	}
	return dest, nil
}

func bytesReader(data []byte) io.Reader {
	return bytes.NewReader(data)
}
