package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenRouter, cfg.LLM.Provider)
	assert.Equal(t, 6, cfg.Digest.TopK)
	assert.Equal(t, filepath.Join("outputs", "fairness_by_race.csv"), cfg.RaceTablePath())
	assert.Equal(t, filepath.Join("outputs", "results", "agents"), cfg.ReportsDir())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auditor.yaml")
	content := `
output_dir: build/out
inputs:
  race_table: data/race.csv
  race_column: ethnicity
llm:
  provider: gemini
  model: gemini-2.5-flash
  timeout: 45s
digest:
  top_k: 4
  grounding_check: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("LLM_MODEL", "gemini-2.5-pro")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "build/out", cfg.OutputDir)
	assert.Equal(t, "data/race.csv", cfg.RaceTablePath())
	assert.Equal(t, filepath.Join("build/out", "fairness_by_sex.csv"), cfg.SexTablePath())
	assert.Equal(t, "ethnicity", cfg.Inputs.RaceColumn)
	assert.Equal(t, "y_true", cfg.Inputs.TrueLabelColumn)
	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, 45*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 4, cfg.Digest.TopK)
	assert.True(t, cfg.Digest.GroundingCheck)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "loading config file")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LLM.Provider = "bedrock"
	cfg.Digest.TopK = 0
	cfg.Inputs.SexColumn = " "

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid llm provider: bedrock")
	assert.Contains(t, err.Error(), "top_k must be positive")
	assert.Contains(t, err.Error(), "sex_column must not be empty")
}
