package intelligence

import (
	"encoding/json"
	"testing"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRow = `{"giorno":"Lunedì","ora":4,"reparto":"PE","assente":"Scintillino","cappello_assente":"Verde","sostituto":"Brillastella","regola_applicata":"Ora Jolly","reasoning":"Jolly alla 4^ ora"}`

func TestValidateSubstitutions_ValidArray(t *testing.T) {
	subs, err := ValidateSubstitutions("[" + validRow + "," + validRow + "]")

	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, 4, subs[0].Hour)
	assert.Equal(t, "Brillastella", subs[0].Substitute)
	assert.Equal(t, "Verde", subs[0].HatLabel())
}

func TestValidateSubstitutions_HourCoercion(t *testing.T) {
	tests := []struct {
		name    string
		ora     string
		want    int
		wantErr bool
	}{
		{name: "integer", ora: `4`, want: 4},
		{name: "numeral string", ora: `"4"`, want: 4},
		{name: "padded numeral", ora: `" 4 "`, want: 4},
		{name: "integral float", ora: `4.0`, want: 4},
		{name: "word", ora: `"abc"`, wantErr: true},
		{name: "fraction", ora: `4.5`, wantErr: true},
		{name: "bool", ora: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := `[{"giorno":"Lunedì","ora":` + tt.ora + `,"reparto":"PE","assente":"A","sostituto":"B","regola_applicata":"R"}]`

			subs, err := ValidateSubstitutions(payload)

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrSchemaValidation)
				assert.Equal(t, PayloadWrongType, PayloadKind(err))
				assert.Empty(t, subs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, subs[0].Hour)
		})
	}
}

func TestValidateSubstitutions_Failures(t *testing.T) {
	tests := []struct {
		name     string
		payload  any
		sentinel error
		kind     string
	}{
		{name: "nil", payload: nil, sentinel: domain.ErrEmptyResult, kind: PayloadEmpty},
		{name: "blank text", payload: "  \n", sentinel: domain.ErrEmptyResult, kind: PayloadEmpty},
		{name: "empty array", payload: "[]", sentinel: domain.ErrEmptyResult, kind: PayloadEmpty},
		{name: "empty native list", payload: []any{}, sentinel: domain.ErrEmptyResult, kind: PayloadEmpty},
		{name: "malformed json", payload: `[{"giorno":`, sentinel: domain.ErrSchemaValidation, kind: PayloadJSONSyntax},
		{name: "prose", payload: "Ecco fatto!", sentinel: domain.ErrSchemaValidation, kind: PayloadJSONSyntax},
		{name: "object not array", payload: validRow, sentinel: domain.ErrSchemaValidation, kind: PayloadSchemaMismatch},
		{name: "array of numbers", payload: `[1,2]`, sentinel: domain.ErrSchemaValidation, kind: PayloadSchemaMismatch},
		{name: "missing sostituto", payload: `[{"giorno":"Lunedì","ora":1,"reparto":"PE","assente":"A","regola_applicata":"R"}]`, sentinel: domain.ErrSchemaValidation, kind: PayloadMissingField},
		{name: "null reparto", payload: `[{"giorno":"Lunedì","ora":1,"reparto":null,"assente":"A","sostituto":"B","regola_applicata":"R"}]`, sentinel: domain.ErrSchemaValidation, kind: PayloadMissingField},
		{name: "unsupported type", payload: 42, sentinel: domain.ErrSchemaValidation, kind: PayloadWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subs, err := ValidateSubstitutions(tt.payload)

			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.kind, PayloadKind(err))
			assert.Empty(t, subs)
		})
	}
}

func TestValidateSubstitutions_OneBadElementRejectsAll(t *testing.T) {
	bad := `{"giorno":"Lunedì","ora":"abc","reparto":"PE","assente":"A","sostituto":"B","regola_applicata":"R"}`

	subs, err := ValidateSubstitutions("[" + validRow + "," + bad + "]")

	assert.ErrorIs(t, err, domain.ErrSchemaValidation)
	assert.Contains(t, err.Error(), "item 1")
	assert.Nil(t, subs)
}

func TestValidateSubstitutions_NativeData(t *testing.T) {
	var rows []any
	require.NoError(t, json.Unmarshal([]byte("["+validRow+"]"), &rows))

	subs, err := ValidateSubstitutions(rows)

	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Scintillino", subs[0].Absent)
}

func TestValidateResponse_FencedBlock(t *testing.T) {
	resp := llm.BlockList{Blocks: []llm.Block{
		llm.ContentBlock{Content: "```json\n[" + validRow + "]\n```"},
	}}

	subs, text, err := ValidateResponse(resp)

	require.NoError(t, err)
	assert.Len(t, subs, 1)
	assert.Equal(t, "["+validRow+"]", text)
}

func TestValidateResponse_StructuredOpaque(t *testing.T) {
	resp := llm.ParseResponse([]byte(`{"content":[[` + validRow + `]]}`))

	subs, _, err := ValidateResponse(resp)

	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, 4, subs[0].Hour)
}

func TestValidateResponse_EmptyArray(t *testing.T) {
	subs, text, err := ValidateResponse(llm.TextBlock{Text: "```json\n[]\n```"})

	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Equal(t, "[]", text)
	assert.Empty(t, subs)
}
