package template

import (
	"fmt"
	"regexp"
	"strings"
)

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateSchema checks a Schema for structural errors.
// Returns a slice of errors (empty if valid).
func ValidateSchema(schema *Schema) []error {
	var errs []error

	if schema.ID == "" {
		errs = append(errs, fmt.Errorf("template id is required"))
	} else if !idPattern.MatchString(schema.ID) {
		errs = append(errs, fmt.Errorf("template id %q must be lowercase letters, digits, '_' or '-'", schema.ID))
	}
	if strings.TrimSpace(schema.Name) == "" {
		errs = append(errs, fmt.Errorf("template name is required"))
	}
	if strings.TrimSpace(schema.Structure) == "" {
		errs = append(errs, fmt.Errorf("struttura is required"))
	}
	if strings.TrimSpace(schema.Rules) == "" {
		errs = append(errs, fmt.Errorf("regole is required"))
	}

	return errs
}
