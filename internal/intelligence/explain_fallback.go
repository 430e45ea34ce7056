package intelligence

import (
	"fmt"
	"strings"
)

// DeterministicExplanation lists the stored rows and the rule each one
// applied, without using the LLM.
func DeterministicExplanation(in ExplainInput) *Explanation {
	if len(in.Substitutions) == 0 {
		return &Explanation{
			Text:   "Nessuna sostituzione calcolata in precedenza: non c'è ancora niente da spiegare.",
			Source: SourceDeterministic,
		}
	}

	var b strings.Builder
	if in.Request != "" {
		fmt.Fprintf(&b, "Richiesta: %s\n\n", in.Request)
	}
	fmt.Fprintf(&b, "Ho calcolato %d sostituzioni:\n", len(in.Substitutions))
	for i, s := range in.Substitutions {
		fmt.Fprintf(&b, "%d. %s sostituisce %s (%s, %s ora %d) secondo la regola \"%s\"",
			i+1, s.Substitute, s.Absent, s.Department, s.Day, s.Hour, s.AppliedRule)
		if s.Reasoning != "" {
			fmt.Fprintf(&b, ": %s", s.Reasoning)
		}
		b.WriteString("\n")
	}
	if q := strings.TrimSpace(in.Question); q != "" {
		fmt.Fprintf(&b, "\n(Spiegazione dettagliata non disponibile per: %q)\n", q)
	}
	return &Explanation{Text: strings.TrimRight(b.String(), "\n"), Source: SourceDeterministic}
}
