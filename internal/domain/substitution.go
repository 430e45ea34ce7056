package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Substitution is one resolved coverage action produced by the code-generation
// agent. Hour is always an integer regardless of how the agent encoded it.
type Substitution struct {
	Day         string  `json:"giorno"`
	Hour        int     `json:"ora"`
	Department  string  `json:"reparto"`
	Absent      string  `json:"assente"`
	AbsentHat   *string `json:"cappello_assente"`
	Substitute  string  `json:"sostituto"`
	AppliedRule string  `json:"regola_applicata"`
	Reasoning   string  `json:"reasoning,omitempty"`
}

// requiredTextFields lists the string fields every substitution must carry.
var requiredTextFields = []string{"giorno", "reparto", "assente", "sostituto", "regola_applicata"}

// UnmarshalJSON decodes a substitution strictly: required fields must be
// present and non-null, text fields must be strings, and "ora" must be an
// integer or a textual numeral.
func (s *Substitution) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &FieldError{Field: "substitution", Reason: "expected a JSON object", Cause: ErrSchemaValidation}
	}

	text := make(map[string]string, len(requiredTextFields))
	for _, name := range requiredTextFields {
		v, err := requiredString(raw, name)
		if err != nil {
			return err
		}
		text[name] = v
	}

	hourRaw, ok := raw["ora"]
	if !ok || isNull(hourRaw) {
		return &FieldError{Field: "ora", Reason: "field required", Cause: ErrSchemaValidation}
	}
	hour, err := ParseHour(hourRaw)
	if err != nil {
		return &FieldError{Field: "ora", Reason: err.Error(), Cause: ErrSchemaValidation}
	}

	var hat *string
	if v, ok := raw["cappello_assente"]; ok && !isNull(v) {
		var h string
		if err := json.Unmarshal(v, &h); err != nil {
			return &FieldError{Field: "cappello_assente", Reason: "must be a string", Cause: ErrSchemaValidation}
		}
		hat = &h
	}

	var reasoning string
	if v, ok := raw["reasoning"]; ok && !isNull(v) {
		if err := json.Unmarshal(v, &reasoning); err != nil {
			return &FieldError{Field: "reasoning", Reason: "must be a string", Cause: ErrSchemaValidation}
		}
	}

	*s = Substitution{
		Day:         text["giorno"],
		Hour:        hour,
		Department:  text["reparto"],
		Absent:      text["assente"],
		AbsentHat:   hat,
		Substitute:  text["sostituto"],
		AppliedRule: text["regola_applicata"],
		Reasoning:   reasoning,
	}
	return nil
}

// ParseHour coerces a JSON value into an hour. Integers and integral floats
// are accepted as-is; strings must hold a base-10 integer.
func ParseHour(raw json.RawMessage) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0, fmt.Errorf("empty value")
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return 0, fmt.Errorf("invalid string: %v", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, fmt.Errorf("%q is not a valid integer", s)
		}
		return n, nil
	case 't', 'f', 'n', '[', '{':
		return 0, fmt.Errorf("must be an integer")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var num json.Number
	if err := dec.Decode(&num); err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	if n, err := num.Int64(); err == nil {
		if n > math.MaxInt || n < math.MinInt {
			return 0, fmt.Errorf("%s is out of range", num.String())
		}
		return int(n), nil
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s is not a whole number", num.String())
	}
	// float64(math.MaxInt) rounds up to 2^63, which already overflows int.
	if f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0, fmt.Errorf("%s is out of range", num.String())
	}
	return int(f), nil
}

// HatLabel returns the absent worker's hat attribute or an empty string.
func (s Substitution) HatLabel() string {
	if s.AbsentHat == nil {
		return ""
	}
	return *s.AbsentHat
}

func requiredString(raw map[string]json.RawMessage, name string) (string, error) {
	v, ok := raw[name]
	if !ok || isNull(v) {
		return "", &FieldError{Field: name, Reason: "field required", Cause: ErrSchemaValidation}
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", &FieldError{Field: name, Reason: "must be a string", Cause: ErrSchemaValidation}
	}
	return s, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
