package session

import (
	"testing"
	"time"

	"github.com/alexanderramin/elfshift/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 12, 24, 8, 30, 0, 0, time.UTC)

func fixedClock() func() time.Time {
	return func() time.Time { return testNow }
}

func validSetup() domain.SetupFields {
	return domain.SetupFields{
		FilePath:  "data/orario_20251224_083000.xlsx",
		FileName:  "orario.xlsx",
		Structure: "Nome Elfo | Cappello | LUN_1..MAR_6",
		Rules:     "1. Ora Jolly: chi ha Jolly copre per primo.",
		Template:  "polo_nord",
	}
}

func TestStore_Setup(t *testing.T) {
	s := newStoreWithClock(fixedClock())
	require.False(t, s.IsConfigured())

	require.NoError(t, s.Setup(validSetup()))

	assert.True(t, s.IsConfigured())
	assert.Equal(t, "orario.xlsx", s.Get("file_name", nil))
	assert.Equal(t, testNow, s.Get("created_at", nil))
	assert.Equal(t, "polo_nord", s.GetString("template", "N/A"))
	assert.Equal(t, "fallback", s.Get("unknown", "fallback"))
}

func TestStore_Setup_MissingUploadLeavesStoreUnchanged(t *testing.T) {
	s := NewStore()
	f := validSetup()
	f.FilePath = ""

	err := s.Setup(f)

	assert.ErrorIs(t, err, domain.ErrMissingUpload)
	assert.False(t, s.IsConfigured())
	assert.Equal(t, "N/A", s.Get("regole", "N/A"))
}

func TestStore_AddMessage_AppendsWithTimestamp(t *testing.T) {
	s := newStoreWithClock(fixedClock())
	subs := []domain.Substitution{{Day: "LUN", Hour: 4, Substitute: "Brillastella"}}

	s.AddMessage(domain.RoleUser, "Scintillino è malato", nil)
	s.AddMessage(domain.RoleAssistant, "Ho Ho Ho", subs)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.False(t, msgs[0].HasMetadata())
	assert.Equal(t, testNow, msgs[1].Timestamp)
	assert.Equal(t, subs, msgs[1].Metadata)
}

func TestStore_Messages_ReturnsCopy(t *testing.T) {
	s := NewStore()
	s.AddMessage(domain.RoleUser, "a", nil)

	msgs := s.Messages()
	msgs[0].Content = "changed"

	assert.Equal(t, "a", s.Messages()[0].Content)
}

func TestStore_Reset_ClearsConfigAndHistoryKeepsMetrics(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Setup(validSetup()))
	s.AddMessage(domain.RoleUser, "a", nil)
	s.UpdateMetrics(1, time.Second, 0.01)

	s.Reset()

	assert.False(t, s.IsConfigured())
	assert.Empty(t, s.Messages())
	assert.Equal(t, 1, s.Metrics().TotalRequests)
}

func TestStore_UpdateMetrics_ArithmeticMean(t *testing.T) {
	s := newStoreWithClock(fixedClock())

	s.UpdateMetrics(1, 2*time.Second, 0)
	s.UpdateMetrics(1, 4*time.Second, 0)
	s.UpdateMetrics(1, 6*time.Second, 0)

	m := s.Metrics()
	assert.Equal(t, 3, m.TotalRequests)
	assert.Equal(t, 4.0, m.AvgResponseSeconds)
	assert.Equal(t, testNow, m.LastUpdated)
}

func TestStore_GetAll(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Setup(validSetup()))
	s.AddMessage(domain.RoleUser, "a", nil)

	all := s.GetAll()

	assert.Equal(t, true, all["configured"])
	assert.Equal(t, "orario.xlsx", all["file_name"])
	assert.Len(t, all["messages"], 1)
	assert.IsType(t, domain.SystemMetrics{}, all["metrics"])
}
