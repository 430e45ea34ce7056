package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/alexanderramin/elfshift/internal/intelligence"
	"github.com/alexanderramin/elfshift/internal/session"
)

// User-facing turn messages.
const (
	FallbackMessage      = "⚠️ Non sono riuscito a calcolare sostituzioni valide."
	NotConfiguredMessage = "⚙️ Sistema non configurato: completa prima il setup."
	systemErrorPrefix    = "❌ Errore sistema: "
	systemErrorHint      = "Riprova tra poco o attiva /debug per i dettagli."
)

// TurnState is a step of the per-turn state machine.
type TurnState string

const (
	StateAwaitingInput     TurnState = "awaiting_input"
	StateGeneratingCode    TurnState = "generating_code"
	StateValidatingPayload TurnState = "validating_payload"
	StateNarrationPending  TurnState = "narration_pending"
	StateFailed            TurnState = "failed"
	StateIdle              TurnState = "idle"
)

// TurnOutcome classifies how a turn ended.
type TurnOutcome string

const (
	OutcomeAnswered      TurnOutcome = "answered"
	OutcomeNoResult      TurnOutcome = "no_result"
	OutcomeError         TurnOutcome = "error"
	OutcomeNotConfigured TurnOutcome = "not_configured"
)

// TurnOptions tweak a single turn.
type TurnOptions struct {
	Debug bool
}

// TurnResult is everything the caller needs to render a finished turn.
type TurnResult struct {
	Outcome       TurnOutcome
	Message       string
	Story         *intelligence.Story
	Substitutions []domain.Substitution
	RawPayload    string
	Err           error
	ErrorKind     string
	PayloadKind   string
	States        []TurnState
	Duration      time.Duration
	CostEUR       float64
}

// FinalState is the last state the turn passed through before returning to
// AwaitingInput.
func (r *TurnResult) FinalState() TurnState {
	if r == nil || len(r.States) == 0 {
		return StateAwaitingInput
	}
	return r.States[len(r.States)-1]
}

// Agents groups the external collaborators a chat turn talks to.
type Agents struct {
	CodeGen   intelligence.CodeGenService
	Narrator  intelligence.NarrationService
	Explainer intelligence.ExplainService
}

type chatService struct {
	agents   Agents
	logger   *slog.Logger
	observer UseCaseObserver
}

func NewChatService(agents Agents, logger *slog.Logger, observers ...UseCaseObserver) ChatService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &chatService{
		agents:   agents,
		logger:   logger,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *chatService) HandleMessage(ctx context.Context, conv *session.Conversation, text string, opts TurnOptions) (res *TurnResult) {
	startedAt := time.Now()
	res = &TurnResult{States: []TurnState{StateAwaitingInput}}

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic during turn: %v", r)
			s.logger.ErrorContext(ctx, "turn_panic", "panic", r)
			res.fail(StateFailed, OutcomeError, err, systemMessage(err, opts.Debug))
		}
		res.Duration = time.Since(startedAt)
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "chat-turn",
			StartedAt: startedAt,
			Duration:  res.Duration,
			Success:   res.Outcome == OutcomeAnswered,
			Err:       res.Err,
			Fields: map[string]any{
				"state":         string(res.FinalState()),
				"outcome":       string(res.Outcome),
				"substitutions": len(res.Substitutions),
			},
		})
	}()

	cfg, ok := conv.Store.Configuration()
	if !ok {
		res.fail(StateFailed, OutcomeNotConfigured, domain.ErrNotConfigured, NotConfiguredMessage)
		return res
	}

	conv.Store.AddMessage(domain.RoleUser, text, nil)
	conv.Memory.AddUserMessage(text)

	input := intelligence.TaskInput{
		Request:   text,
		Rules:     cfg.Rules,
		Structure: cfg.Structure,
		FilePath:  cfg.FilePath,
	}
	if conv.Memory.HasSubstitutions() {
		input.MemorySummary = conv.Memory.SubstitutionsSummary()
	}

	res.States = append(res.States, StateGeneratingCode)
	gen, err := s.agents.CodeGen.Generate(ctx, input)
	if err != nil {
		res.fail(StateFailed, OutcomeError, err, systemMessage(err, opts.Debug))
		return res
	}
	res.CostEUR += gen.CostEUR

	res.States = append(res.States, StateValidatingPayload)
	subs, raw, err := intelligence.ValidateResponse(gen.Response)
	res.RawPayload = raw
	if err != nil {
		res.PayloadKind = intelligence.PayloadKind(err)
		if opts.Debug {
			s.logger.DebugContext(ctx, "payload_rejected",
				"kind", res.PayloadKind,
				"error", err.Error(),
				"raw", raw,
			)
		}
		msg := FallbackMessage
		if opts.Debug {
			msg += "\n\nContenuto grezzo:\n" + raw
		}
		res.fail(StateFailed, OutcomeNoResult, err, msg)
		return res
	}
	res.Substitutions = subs

	res.States = append(res.States, StateNarrationPending)
	story, err := s.agents.Narrator.Narrate(ctx, subs)
	if err != nil {
		res.fail(StateFailed, OutcomeError, err, systemMessage(err, opts.Debug))
		return res
	}
	res.CostEUR += story.CostEUR
	res.Story = story
	res.Message = story.Text

	conv.Store.AddMessage(domain.RoleAssistant, story.Text, subs)
	conv.Memory.AddAssistantMessage(story.Text)
	conv.Memory.SaveCalculationContext(text, subs, "")
	conv.Store.UpdateMetrics(len(subs), time.Since(startedAt), res.CostEUR)

	res.Outcome = OutcomeAnswered
	res.States = append(res.States, StateIdle)
	s.logger.InfoContext(ctx, "turn_answered",
		"substitutions", len(subs),
		"story_hash", story.Hash,
		"cost_eur", res.CostEUR,
	)
	return res
}

func (s *chatService) Explain(ctx context.Context, conv *session.Conversation, question string) (*intelligence.Explanation, error) {
	if s.agents.Explainer == nil {
		return nil, errors.New("explainer not configured")
	}
	in := intelligence.ExplainInput{
		Question:      question,
		Request:       conv.Memory.LastRequest(),
		Substitutions: conv.Memory.LastSubstitutions(),
	}
	if cfg, ok := conv.Store.Configuration(); ok {
		in.Rules = cfg.Rules
	}
	return s.agents.Explainer.Explain(ctx, in)
}

func (r *TurnResult) fail(state TurnState, outcome TurnOutcome, err error, msg string) {
	r.Outcome = outcome
	r.Err = err
	r.ErrorKind = domain.ErrorKind(err)
	r.Message = msg
	r.Substitutions = nil
	r.Story = nil
	r.States = append(r.States, state)
}

// systemMessage keeps the error chain for debug mode; otherwise the user
// sees only the error kind.
func systemMessage(err error, debug bool) string {
	if debug {
		return systemErrorPrefix + fmt.Sprintf("%s: %v", domain.ErrorKind(err), err)
	}
	return systemErrorPrefix + fmt.Sprintf("%s. %s", domain.ErrorKind(err), systemErrorHint)
}
