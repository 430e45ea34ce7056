package intelligence

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/llm"
)

// Payload failure kinds reported by PayloadError.
const (
	PayloadEmpty          = "empty"
	PayloadJSONSyntax     = "json_syntax"
	PayloadSchemaMismatch = "schema_mismatch"
	PayloadMissingField   = "missing_field"
	PayloadWrongType      = "wrong_type"
)

// PayloadError reports why an agent payload could not be turned into
// substitutions. It unwraps to domain.ErrEmptyResult or
// domain.ErrSchemaValidation.
type PayloadError struct {
	Kind   string
	Detail string
	Err    error
}

func (e *PayloadError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v (%s)", e.Err, e.Kind)
	}
	return fmt.Sprintf("%v (%s): %s", e.Err, e.Kind, e.Detail)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// PayloadKind returns the failure kind carried by err, or "" when err is not
// a payload failure.
func PayloadKind(err error) string {
	var pe *PayloadError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// ValidateResponse runs extraction and validation over a raw agent response.
// Native list data is validated directly; anything else is extracted to text
// first. The extracted text is returned alongside for debug rendering.
func ValidateResponse(resp llm.Response) ([]domain.Substitution, string, error) {
	if rows, ok := llm.StructuredPayload(resp); ok {
		subs, err := ValidateSubstitutions(rows)
		return subs, resp.String(), err
	}
	text := llm.Extract(resp)
	subs, err := ValidateSubstitutions(text)
	return subs, text, err
}

// ValidateSubstitutions validates payload against the substitution schema as
// a whole sequence. Strings are decoded as strict JSON; structured values are
// validated directly. Any invalid element rejects the whole payload, and a
// failure always returns an empty result.
func ValidateSubstitutions(payload any) ([]domain.Substitution, error) {
	var items []json.RawMessage

	switch p := payload.(type) {
	case nil:
		return nil, emptyPayload("no payload")
	case []domain.Substitution:
		if len(p) == 0 {
			return nil, emptyPayload("empty list")
		}
		return p, nil
	case string:
		s := strings.TrimSpace(p)
		if s == "" {
			return nil, emptyPayload("blank text")
		}
		if !json.Valid([]byte(s)) {
			return nil, &PayloadError{Kind: PayloadJSONSyntax, Detail: "not valid JSON", Err: domain.ErrSchemaValidation}
		}
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return nil, &PayloadError{Kind: PayloadSchemaMismatch, Detail: "expected a JSON array", Err: domain.ErrSchemaValidation}
		}
	case []any:
		items = make([]json.RawMessage, 0, len(p))
		for i, v := range p {
			data, err := json.Marshal(v)
			if err != nil {
				return nil, &PayloadError{Kind: PayloadWrongType, Detail: fmt.Sprintf("item %d: %v", i, err), Err: domain.ErrSchemaValidation}
			}
			items = append(items, data)
		}
	default:
		return nil, &PayloadError{Kind: PayloadWrongType, Detail: fmt.Sprintf("unsupported payload %T", payload), Err: domain.ErrSchemaValidation}
	}

	if len(items) == 0 {
		return nil, emptyPayload("empty list")
	}

	subs := make([]domain.Substitution, 0, len(items))
	for i, item := range items {
		var s domain.Substitution
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, itemError(i, err)
		}
		subs = append(subs, s)
	}
	return subs, nil
}

func emptyPayload(detail string) error {
	return &PayloadError{Kind: PayloadEmpty, Detail: detail, Err: domain.ErrEmptyResult}
}

func itemError(i int, err error) error {
	kind := PayloadSchemaMismatch
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		switch fe.Reason {
		case "field required":
			kind = PayloadMissingField
		case "expected a JSON object":
			kind = PayloadSchemaMismatch
		default:
			kind = PayloadWrongType
		}
	}
	return &PayloadError{Kind: kind, Detail: fmt.Sprintf("item %d: %v", i, err), Err: domain.ErrSchemaValidation}
}
