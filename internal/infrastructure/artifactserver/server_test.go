package artifactserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/dataset"
	"fairness-auditor/internal/infrastructure/logger"
	"fairness-auditor/internal/infrastructure/reportstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()

	metricsPath := filepath.Join(dir, "metrics.json")
	require.NoError(t, os.WriteFile(metricsPath, []byte(`{"model":"LR","accuracy":0.68,"n_test":1852}`), 0644))

	racePath := filepath.Join(dir, "fairness_by_race.csv")
	require.NoError(t, dataset.WriteGroupTable(racePath, entity.GroupRateTable{
		Attribute: entity.GroupRace,
		Rows:      []entity.GroupRateRow{{GroupValue: "Asian", N: 5, RateSet: entity.RateSet{TN: 5, TNR: 1}}},
	}))

	store := reportstore.New(filepath.Join(dir, "results", "agents"))
	require.NoError(t, store.Save(context.Background(), entity.AgentReport{
		Role: entity.AgentRoleRace, Text: "- Asian has FPR 0.0000", RunID: "run-1", Model: "m",
	}))

	srv := New(Sources{
		MetricsPath: metricsPath,
		Tables: map[entity.GroupKey]string{
			entity.GroupRace: racePath,
			entity.GroupSex:  filepath.Join(dir, "fairness_by_sex.csv"),
		},
		Reports: store,
	}, logger.NewNop())

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]string
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/healthz", &body))
	assert.Equal(t, "ok", body["status"])
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)

	var body map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/metrics", &body))
	assert.Equal(t, "LR", body["model"])
	assert.Equal(t, 1852.0, body["n_test"])
}

func TestTables(t *testing.T) {
	ts := newTestServer(t)

	var table entity.GroupRateTable
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/tables/race", &table))
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Asian", table.Rows[0].GroupValue)
	assert.Equal(t, 5, table.Rows[0].TN)

	var errBody ErrorResponse
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/tables/sex", &errBody))
	assert.Equal(t, "table not available", errBody.Error)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/tables/age", &errBody))
}

func TestReports(t *testing.T) {
	ts := newTestServer(t)

	var list []map[string]any
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/reports", &list))
	require.Len(t, list, 1)
	assert.Equal(t, "race", list[0]["role"])
	assert.Equal(t, "agent_race.md", list[0]["file"])

	resp, err := http.Get(ts.URL + "/api/reports/race")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")

	var report entity.AgentReport
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/api/reports/race?format=json", &report))
	assert.Equal(t, "run-1", report.RunID)

	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/reports/supervisor", nil))
	assert.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/api/reports/unknown", nil))
}
