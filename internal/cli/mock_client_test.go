package cli

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/elfshift/internal/db"
	"github.com/alexanderramin/elfshift/internal/intelligence"
	"github.com/alexanderramin/elfshift/internal/llm"
	"github.com/alexanderramin/elfshift/internal/repository"
	"github.com/alexanderramin/elfshift/internal/service"
	"github.com/alexanderramin/elfshift/internal/session"
	"github.com/alexanderramin/elfshift/internal/testutil"
)

const (
	fencedSubstitution = "```json\n" +
		`[{"giorno":"Lunedì","ora":"4","reparto":"PE","assente":"Scintillino","cappello_assente":"Rosso",` +
		`"sostituto":"Brillastella","regola_applicata":"Ora Jolly","reasoning":"Brillastella aveva l'ora Jolly"}]` +
		"\n```"
	storyText = "Nel laboratorio innevato, Brillastella prese il posto di Scintillino."
)

// scriptedLLMClient answers per task so one client can stand in for every
// agent. It is safe for the goroutines the TUI driver runs commands in.
type scriptedLLMClient struct {
	mu       sync.Mutex
	outputs  map[llm.TaskType]llm.Response
	errs     map[llm.TaskType]error
	requests []llm.GenerateRequest
}

func newScriptedClient() *scriptedLLMClient {
	return &scriptedLLMClient{
		outputs: map[llm.TaskType]llm.Response{
			llm.TaskCodeGen: llm.TextBlock{Text: fencedSubstitution},
			llm.TaskNarrate: llm.BlockList{Blocks: []llm.Block{llm.TextBlock{Text: storyText}}},
			llm.TaskExplain: llm.TextBlock{Text: "Brillastella aveva l'ora Jolly libera."},
		},
		errs: map[llm.TaskType]error{},
	}
}

func (m *scriptedLLMClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if err := m.errs[req.Task]; err != nil {
		return nil, err
	}
	out, ok := m.outputs[req.Task]
	if !ok {
		return nil, fmt.Errorf("no scripted output for %s", req.Task)
	}
	return &llm.GenerateResponse{Output: out, Model: "gpt-4o", CostEUR: 0.01}, nil
}

func (m *scriptedLLMClient) Available(context.Context) bool { return true }

func (m *scriptedLLMClient) set(task llm.TaskType, out llm.Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outputs[task] = out
}

func (m *scriptedLLMClient) fail(task llm.TaskType, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[task] = err
}

func (m *scriptedLLMClient) count(task llm.TaskType) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.requests {
		if r.Task == task {
			n++
		}
	}
	return n
}

func (m *scriptedLLMClient) lastPrompt(task llm.TaskType) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].Task == task {
			return m.requests[i].UserPrompt
		}
	}
	return ""
}

// testEnv is an App wired to an in-memory archive, temp directories and the
// scripted client.
type testEnv struct {
	app      *App
	client   *scriptedLLMClient
	schedule string
	logs     *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	home := t.TempDir()
	client := newScriptedClient()

	agents := service.Agents{
		CodeGen:   intelligence.NewCodeGenService(client, llm.NoopObserver{}),
		Narrator:  intelligence.NewNarrationService(client, llm.NoopObserver{}),
		Explainer: intelligence.NewExplainService(client, llm.NoopObserver{}),
	}
	logs := &bytes.Buffer{}
	observer := service.NewLogUseCaseObserver(logs)

	app := &App{
		Chat:      service.NewChatService(agents, nil, observer),
		Snapshots: service.NewSnapshotService(repository.NewSQLiteSnapshotRepo(database), db.NewSQLiteUnitOfWork(database), observer),
		Templates: service.NewTemplateService(filepath.Join(home, "templates")),
		Sessions:  session.NewRegistry(),
		LLM:       llm.DefaultConfig(),
		Paths: Paths{
			Home:        home,
			DataDir:     filepath.Join(home, "data"),
			TemplateDir: filepath.Join(home, "templates"),
			DBPath:      db.MemoryPath,
			HistoryFile: filepath.Join(home, "chat_history"),
		},
		Now: func() time.Time { return testutil.FixedNow },
	}

	return &testEnv{
		app:      app,
		client:   client,
		schedule: testutil.NewTestScheduleFile(t, t.TempDir()),
		logs:     logs,
	}
}

// configuredConversation opens a conversation set up with the polo_nord
// template and the test schedule.
func (e *testEnv) configuredConversation(t *testing.T) *session.Conversation {
	t.Helper()
	conv := e.app.Sessions.Open()
	if err := configureConversation(context.Background(), e.app, conv, setupInput{Schedule: e.schedule, Template: "polo_nord"}); err != nil {
		t.Fatalf("configure conversation: %v", err)
	}
	return conv
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
