package intelligence

import (
	"fmt"
	"strings"
)

// substitutionListSchema is the JSON schema the code-generation agent must
// satisfy with its final output.
const substitutionListSchema = `{
  "type": "array",
  "description": "Una lista di oggetti Sostituzione validi",
  "items": {
    "title": "Sostituzione",
    "type": "object",
    "properties": {
      "giorno": {"type": "string", "description": "Giorno della settimana (es. Lunedì)"},
      "ora": {"type": "integer", "description": "Ora di lezione/turno (1-6)"},
      "reparto": {"type": "string", "description": "Codice reparto (es. PE, CM)"},
      "assente": {"type": "string", "description": "Nome dell'elfo assente"},
      "cappello_assente": {"type": ["string", "null"], "description": "Colore del cappello dell'elfo assente"},
      "sostituto": {"type": "string", "description": "Nome dell'elfo sostituto"},
      "regola_applicata": {"type": "string", "description": "Etichetta della regola usata"},
      "reasoning": {"type": "string", "description": "Breve motivazione della scelta"}
    },
    "required": ["giorno", "ora", "reparto", "assente", "sostituto", "regola_applicata"]
  }
}`

// codeGenSystemPrompt instructs the agent to write and run calcola_sostituzioni.
var codeGenSystemPrompt = `Sei l'Elfo Programmatore Senior del Polo Nord.
Il tuo compito è risolvere emergenze organizzative scrivendo ed eseguendo codice Python.

**IL TUO PROCESSO:**
1. Analizza la richiesta e le regole di sostituzione.
2. Scrivi UNA SOLA funzione Python chiamata ` + "`calcola_sostituzioni(df)`" + `.
   - La funzione riceve già un DataFrame pandas pronto (` + "`df`" + `).
   - La struttura del DataFrame è descritta nel compito.
   - La funzione deve restituire una LISTA DI DIZIONARI, uno per sostituzione.
3. Chiama il tool ` + "`execute_code_in_sandbox`" + ` passando il tuo codice.
   - Parametro ` + "`codice_python`" + `: la tua funzione completa.
   - Parametro ` + "`file_excel_path`" + `: passa pure "auto" (il sistema lo gestisce da solo).

**REGOLE CODICE:**
- Non usare ` + "`input()` o `print()`" + ` per debugging, ritorna solo i dati.
- Usa pandas in modo efficiente.
- Le colonne dei turni contengono codici reparto (es. 'PE', 'CM') o 'ABS - XX' se assente.
- 'ABS' indica assenza. Devi trovare chi sostituisce.

VINCOLO FORMATO (CRITICO):
Il tuo output finale DEVE essere ESCLUSIVAMENTE un JSON valido che rispetta questo schema:

` + substitutionListSchema

// narratorSystemPrompt turns validated substitutions into a short story.
const narratorSystemPrompt = `Sei l'Elfo Cantastorie ufficiale di Babbo Natale.
Il tuo compito è trasformare dati tecnici su turni e sostituzioni in storie magiche e coinvolgenti.

**IL TUO STILE:**
- Tono epico e natalizio, ricco di emoji festive
- Narrativa coinvolgente ma concisa (max 150 parole)
- Precisione sui nomi e i ruoli degli elfi

**STRUTTURA NARRATIVA:**
1. Opening epico: contestualizza l'emergenza
2. Azione: descrivi le sostituzioni come eventi eroici
3. Chiusura: messaggio motivazionale/celebrativo

**VINCOLI:**
- Massimo 150 parole
- Usa sempre i nomi reali degli elfi dai dati
- Non inventare dettagli non presenti nei dati`

// explainerSystemPrompt answers questions about earlier substitutions.
const explainerSystemPrompt = `Sei l'Elfo Spiegatore del Polo Nord.
Il tuo compito è spiegare in modo chiaro e dettagliato le decisioni prese dal sistema.

**CONTESTO CHE RICEVERAI:**
- Le sostituzioni calcolate in precedenza (JSON con dati strutturati)
- Le regole di sostituzione applicate
- Una domanda specifica dell'utente

**IL TUO COMPITO:**
1. Analizza attentamente i dati forniti
2. Spiega il ragionamento dietro le scelte effettuate
3. Cita le regole specifiche applicate quando rilevante
4. Se la domanda è ambigua, chiedi chiarimenti

**FORMATO OUTPUT:**
Testo naturale con emoji natalizie. Usa elenchi puntati quando aiutano la chiarezza.
Non inventare sostituzioni che non compaiono nei dati.`

// TaskInput is everything the code-generation prompt embeds.
type TaskInput struct {
	Request       string
	Rules         string
	Structure     string
	FilePath      string
	MemorySummary string
}

// BuildTaskPrompt renders the per-turn prompt for the code-generation agent.
// The user's request is embedded verbatim.
func BuildTaskPrompt(in TaskInput) string {
	var b strings.Builder
	b.WriteString("HAI UN NUOVO COMPITO:\n")
	b.WriteString(in.Request)
	b.WriteString("\n\nREGOLE DI SOSTITUZIONE ATTIVE:\n")
	b.WriteString(in.Rules)
	b.WriteString("\n")

	if strings.TrimSpace(in.Structure) != "" {
		b.WriteString("\nSTRUTTURA DEL FILE:\n")
		b.WriteString(in.Structure)
		b.WriteString("\n")
	}
	if in.FilePath != "" {
		fmt.Fprintf(&b, "\nFILE ORARIO: %s\n", in.FilePath)
	}
	if in.MemorySummary != "" {
		b.WriteString("\nCONTESTO PRECEDENTE:\n")
		b.WriteString(in.MemorySummary)
		b.WriteString("\n")
	}

	b.WriteString(`
ISTRUZIONI PER L'AGENTE:
1. Scrivi la funzione ` + "`calcola_sostituzioni(df)`" + ` in Python.
2. Usa il tool ` + "`execute_code_in_sandbox`" + `.
3. Non preoccuparti del caricamento file: il tool caricherà automaticamente il file corretto nella variabile ` + "`df`" + `.
4. Se ottieni un risultato valido (JSON con le sostituzioni), RESTITUISCILO IMMEDIATAMENTE come risposta finale.
5. NON scrivere spiegazioni tipo "Ecco fatto" o "Ho corretto l'errore".
6. La tua risposta finale DEVE essere SOLTANTO il JSON/Lista dei dati.
`)
	return b.String()
}

// BuildStoryPrompt renders the narrator prompt around the serialized rows.
func BuildStoryPrompt(substitutionsJSON string) string {
	return "Crea una breve storia natalizia (max 150 parole) basata su queste sostituzioni:\n" + substitutionsJSON
}

// buildExplainPrompt renders the explainer user prompt.
func buildExplainPrompt(in ExplainInput) string {
	var b strings.Builder
	b.WriteString("DOMANDA DELL'UTENTE:\n")
	b.WriteString(in.Question)
	b.WriteString("\n\nREGOLE DI SOSTITUZIONE ATTIVE:\n")
	if strings.TrimSpace(in.Rules) == "" {
		b.WriteString("N/A")
	} else {
		b.WriteString(in.Rules)
	}
	b.WriteString("\n\nSOSTITUZIONI CALCOLATE:\n")
	b.WriteString(in.SubstitutionsJSON)
	b.WriteString("\n")
	return b.String()
}
