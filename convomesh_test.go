package convomesh

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/convomesh/core"
	"github.com/hupe1980/convomesh/orchestrator"
	"github.com/hupe1980/convomesh/storage"
)

func TestConvoMesh_Lifecycle(t *testing.T) {
	mesh := New()
	ctx := context.Background()

	coordinator := core.AgentID{ID: "coord", SwarmID: "sw", Type: "coordinator"}
	worker := core.AgentID{ID: "worker", SwarmID: "sw", Type: "worker", Instance: 1}

	var seen []core.Message
	mesh.On(core.EventMessage, func(_ context.Context, ev core.Event) error {
		seen = append(seen, *ev.Message)
		return nil
	})

	session, err := mesh.CreateConversation(ctx, orchestrator.CreateConfig{
		Title:               "Design Review",
		InitialParticipants: []core.AgentID{coordinator},
	})
	require.NoError(t, err)
	assert.Equal(t, core.StatusActive, session.Status)
	assert.Equal(t, map[string]int{"coord": 0}, session.Metrics.ParticipationByAgent)

	require.NoError(t, mesh.JoinConversation(ctx, session.ID, worker))

	_, err = mesh.SendMessage(ctx, core.Message{
		ConversationID: session.ID,
		FromAgent:      worker,
		Type:           core.MessageAnswer,
		Content:        "done",
	})
	require.NoError(t, err)
	require.Len(t, seen, 1)

	outcomes, err := mesh.TerminateConversation(ctx, session.ID, "wrap up")
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, core.OutcomeSolution, outcomes[0].Type)

	// Evicted from the live set but still readable as a durable record.
	assert.Empty(t, mesh.GetActiveSessions())
	record, err := mesh.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, core.StatusCompleted, record.Status)
	require.NotNil(t, record.EndTime)
	assert.NotEmpty(t, record.Outcomes)

	history, err := mesh.GetConversationHistory(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	stats, err := mesh.Store().GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CompletedSessions)
	assert.Equal(t, 1, stats.TotalMessages)
}

func TestConvoMesh_DurableStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mesh.db")
	mesh := New(func(o *Options) {
		o.Storage = storage.Config{Path: path}
	})
	ctx := context.Background()

	agent := core.AgentID{ID: "a1", SwarmID: "sw", Type: "worker"}
	session, err := mesh.CreateConversation(ctx, orchestrator.CreateConfig{
		Title:               "durable",
		InitialParticipants: []core.AgentID{agent},
	})
	require.NoError(t, err)

	// A fresh mesh over the same file sees the stored record.
	other := New(func(o *Options) {
		o.Storage = storage.Config{Path: path}
	})
	record, err := other.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", record.Title)

	ids, err := other.Store().GetParticipantSessions(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{session.ID}, ids)
}
