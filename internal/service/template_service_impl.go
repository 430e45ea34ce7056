package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/elfshift/internal/domain"
	tmpl "github.com/alexanderramin/elfshift/internal/template"
)

type templateService struct {
	templateDir string
}

// NewTemplateService serves the builtin presets plus the YAML files found in
// templateDir. The directory is re-read on every call so new files show up
// without a restart.
func NewTemplateService(templateDir string) TemplateService {
	return &templateService{templateDir: templateDir}
}

func (s *templateService) List(ctx context.Context) ([]domain.Template, error) {
	catalog, err := tmpl.LoadCatalog(s.templateDir)
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}

	entries := catalog.Entries()
	templates := make([]domain.Template, 0, len(entries))
	for _, e := range entries {
		templates = append(templates, toDomainTemplate(e))
	}
	return templates, nil
}

func (s *templateService) Get(ctx context.Context, name string) (*domain.Template, error) {
	catalog, err := tmpl.LoadCatalog(s.templateDir)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	entry, err := catalog.Resolve(name)
	if err != nil {
		return nil, err
	}
	t := toDomainTemplate(*entry)
	return &t, nil
}

func toDomainTemplate(e tmpl.Entry) domain.Template {
	return domain.Template{
		ID:          e.Schema.ID,
		Name:        e.Schema.Name,
		Description: e.Schema.Description,
		Structure:   e.Schema.Structure,
		Rules:       e.Schema.Rules,
		Source:      e.Source,
	}
}
