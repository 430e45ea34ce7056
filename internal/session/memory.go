package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/elfshift/internal/domain"
)

// Turn is one role-tagged entry in the conversation log.
type Turn struct {
	Role      domain.Role `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// memoryDocument is the serialized form of the turn log.
type memoryDocument struct {
	Turns []Turn `json:"turns"`
}

// Memory is the conversation log plus the application context accumulated
// from successful calculations. Substitutions accumulate across turns while
// the last request pointer is overwritten.
type Memory struct {
	turns           []Turn
	substitutions   []domain.Substitution
	contexts        []domain.ConversationalContext
	lastRequest     string
	lastCalculation time.Time
	now             func() time.Time
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return newMemoryWithClock(time.Now)
}

func newMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{now: now}
}

// AddUserMessage appends a user turn.
func (m *Memory) AddUserMessage(text string) {
	m.addTurn(domain.RoleUser, text)
}

// AddAssistantMessage appends an assistant turn.
func (m *Memory) AddAssistantMessage(text string) {
	m.addTurn(domain.RoleAssistant, text)
}

func (m *Memory) addTurn(role domain.Role, text string) {
	m.turns = append(m.turns, Turn{Role: role, Content: text, Timestamp: m.now()})
}

// Turns returns a copy of the conversation log.
func (m *Memory) Turns() []Turn {
	out := make([]Turn, len(m.turns))
	copy(out, m.turns)
	return out
}

// SaveCalculationContext appends subs to the accumulated list and replaces
// the last request and calculation time.
func (m *Memory) SaveCalculationContext(request string, subs []domain.Substitution, code string) {
	ts := m.now()
	m.substitutions = append(m.substitutions, subs...)
	m.lastRequest = request
	m.lastCalculation = ts
	m.contexts = append(m.contexts, domain.ConversationalContext{
		Request:       request,
		Substitutions: append([]domain.Substitution(nil), subs...),
		GeneratedCode: code,
		Timestamp:     ts,
	})
}

// LastSubstitutions returns every substitution accumulated so far.
func (m *Memory) LastSubstitutions() []domain.Substitution {
	out := make([]domain.Substitution, len(m.substitutions))
	copy(out, m.substitutions)
	return out
}

// LastRequest returns the request text of the most recent calculation.
func (m *Memory) LastRequest() string {
	return m.lastRequest
}

// Contexts returns the per-turn calculation history.
func (m *Memory) Contexts() []domain.ConversationalContext {
	out := make([]domain.ConversationalContext, len(m.contexts))
	copy(out, m.contexts)
	return out
}

// HasSubstitutions reports whether any substitution has been accumulated.
func (m *Memory) HasSubstitutions() bool {
	return len(m.substitutions) > 0
}

// SubstitutionsSummary renders the accumulated context as prompt text.
func (m *Memory) SubstitutionsSummary() string {
	if len(m.substitutions) == 0 {
		return "Nessuna sostituzione calcolata in precedenza."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Ultima richiesta**: %s\n", orNA(m.lastRequest))
	calc := "N/A"
	if !m.lastCalculation.IsZero() {
		calc = m.lastCalculation.Format("2006-01-02 15:04:05")
	}
	fmt.Fprintf(&b, "**Calcolo**: %s\n", calc)
	fmt.Fprintf(&b, "**Sostituzioni calcolate** (%d):\n\n", len(m.substitutions))

	for i, s := range m.substitutions {
		fmt.Fprintf(&b, "%d. %s (%s, %s ora %d) → %s [%s]\n",
			i+1, s.Absent, s.Department, s.Day, s.Hour, s.Substitute, s.AppliedRule)
		if s.Reasoning != "" {
			fmt.Fprintf(&b, "   Reasoning: %s\n", s.Reasoning)
		}
	}
	return b.String()
}

// SubstitutionsJSON returns the accumulated substitutions as indented JSON.
func (m *Memory) SubstitutionsJSON() string {
	subs := m.substitutions
	if subs == nil {
		subs = []domain.Substitution{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(subs); err != nil {
		return "[]"
	}
	return strings.TrimRight(buf.String(), "\n")
}

// ClearAll drops both the conversation log and the accumulated context.
func (m *Memory) ClearAll() {
	m.turns = nil
	m.ClearContextOnly()
}

// ClearContextOnly drops the accumulated context and keeps the turns.
func (m *Memory) ClearContextOnly() {
	m.substitutions = nil
	m.contexts = nil
	m.lastRequest = ""
	m.lastCalculation = time.Time{}
}

// RestoreSubstitutions seeds the accumulated context, as after a snapshot
// load. Unlike SaveCalculationContext it records no per-turn context.
func (m *Memory) RestoreSubstitutions(request string, subs []domain.Substitution, at time.Time) {
	m.substitutions = append([]domain.Substitution(nil), subs...)
	m.contexts = nil
	m.lastRequest = request
	m.lastCalculation = at
}

// ExportMemory serializes the conversation log.
func (m *Memory) ExportMemory() (string, error) {
	data, err := json.Marshal(memoryDocument{Turns: m.Turns()})
	if err != nil {
		return "", fmt.Errorf("exporting memory: %w", err)
	}
	return string(data), nil
}

// ImportMemory replaces the conversation log with the one in text. The log
// is untouched when text cannot be decoded.
func (m *Memory) ImportMemory(text string) error {
	var doc memoryDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return fmt.Errorf("importing memory: %w", err)
	}
	m.turns = doc.Turns
	return nil
}

// ConversationLength returns the number of turns, or 0 when there is no log.
func (m *Memory) ConversationLength() int {
	if m == nil || m.turns == nil {
		return 0
	}
	return len(m.turns)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
