package reportstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fairness-auditor/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_SaveLoad(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "results", "agents"))
	created := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	report := entity.AgentReport{
		Role:      entity.AgentRoleSupervisor,
		Text:      "(1) Global performance\n- bullet\n---\nnot front matter",
		RunID:     "run-42",
		Model:     "gpt-4.1-mini",
		CreatedAt: created,
	}

	require.NoError(t, store.Save(context.Background(), report))
	assert.True(t, store.Exists(entity.AgentRoleSupervisor))
	assert.FileExists(t, filepath.Join(store.Dir(), "supervisor.md"))

	got, err := store.Load(context.Background(), entity.AgentRoleSupervisor)
	require.NoError(t, err)
	assert.Equal(t, report.Text, got.Text)
	assert.Equal(t, "run-42", got.RunID)
	assert.Equal(t, "gpt-4.1-mini", got.Model)
	assert.True(t, created.Equal(got.CreatedAt))
	assert.Equal(t, entity.AgentRoleSupervisor, got.Role)
}

func TestFileStore_SaveReplaces(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, entity.AgentReport{Role: entity.AgentRoleRace, Text: "first"}))
	require.NoError(t, store.Save(ctx, entity.AgentReport{Role: entity.AgentRoleRace, Text: "second"}))

	got, err := store.Load(ctx, entity.AgentRoleRace)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Text)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "agent_race.md", entries[0].Name())
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := New(t.TempDir())

	_, err := store.Load(context.Background(), entity.AgentRoleSex)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, store.Exists(entity.AgentRoleSex))
}

func TestFileStore_PlainTextFile(t *testing.T) {
	store := New(t.TempDir())
	require.NoError(t, os.WriteFile(store.Path(entity.AgentRolePerformance), []byte("Accuracy 0.68.\n"), 0644))

	got, err := store.Load(context.Background(), entity.AgentRolePerformance)
	require.NoError(t, err)
	assert.Equal(t, "Accuracy 0.68.", got.Text)
	assert.Equal(t, entity.AgentRolePerformance, got.Role)
}

func TestFileStore_List(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, entity.AgentReport{Role: entity.AgentRolePerformance, Text: "p"}))
	require.NoError(t, store.Save(ctx, entity.AgentReport{Role: entity.AgentRoleRace, Text: "r"}))

	reports, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, entity.AgentRoleRace, reports[0].Role)
	assert.Equal(t, entity.AgentRolePerformance, reports[1].Role)
}

func TestFileStore_RejectsUnknownRole(t *testing.T) {
	store := New(t.TempDir())

	err := store.Save(context.Background(), entity.AgentReport{Role: "navigation", Text: "x"})
	assert.Error(t, err)
}
