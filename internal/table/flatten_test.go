package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/models"
)

func TestFlatten(t *testing.T) {
	flat := Flatten(map[string]any{
		"lr": 0.001,
		"model": map[string]any{
			"type": "disrnn",
			"size": map[string]any{
				"latents": 5.0,
			},
		},
	})

	assert.Equal(t, map[string]any{
		"lr":                 0.001,
		"model.type":         "disrnn",
		"model.size.latents": 5.0,
	}, flat)
}

func TestFlattenEmpty(t *testing.T) {
	assert.Empty(t, Flatten(nil))
	assert.Empty(t, Flatten(map[string]any{}))
}

func TestRunsToTable(t *testing.T) {
	runs := []models.RunInfo{
		{
			ID:        "r1",
			Name:      "run-1",
			State:     "finished",
			Tags:      []string{"disrnn", "mouse"},
			Config:    map[string]any{"model": map[string]any{"type": "disrnn"}},
			Summary:   map[string]any{"likelihood": 0.95},
			CreatedAt: "2026-01-01T00:00:00",
			Project:   "test",
			Entity:    "AIND-disRNN",
			URL:       "https://wandb.ai/AIND-disRNN/test/runs/r1",
		},
		{
			ID:      "r2",
			Name:    "run-2",
			State:   "running",
			Config:  map[string]any{"lr": 0.001},
			Project: "test",
			Entity:  "AIND-disRNN",
		},
	}

	tab := RunsToTable(runs)
	assert.Equal(t, []string{
		"id", "name", "state", "created_at", "tags", "project", "entity", "url",
		"config.lr", "config.model.type", "summary.likelihood",
	}, tab.Columns)

	require.Len(t, tab.Rows, 2)
	assert.Equal(t, []string{
		"r1", "run-1", "finished", "2026-01-01T00:00:00Z", "disrnn,mouse",
		"test", "AIND-disRNN", "https://wandb.ai/AIND-disRNN/test/runs/r1",
		"", "disrnn", "0.95",
	}, tab.Rows[0])
	assert.Equal(t, []string{
		"r2", "run-2", "running", "", "",
		"test", "AIND-disRNN", "",
		"0.001", "", "",
	}, tab.Rows[1])
}

func TestRunsToTableEmpty(t *testing.T) {
	tab := RunsToTable(nil)
	assert.Equal(t, runBaseColumns, tab.Columns)
	assert.Empty(t, tab.Rows)
}

func TestHistoryToTable(t *testing.T) {
	rows := []models.HistoryRow{
		{"_step": 0.0, "_timestamp": 1767225600.0, "loss": 1.5},
		{"_step": 1.0, "_timestamp": 1767225660.0, "loss": 1.2, "accuracy": 0.8},
	}

	tab := HistoryToTable(rows)
	assert.Equal(t, []string{"_step", "_timestamp", "accuracy", "loss"}, tab.Columns)
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, []string{"0", "2026-01-01T00:00:00Z", "", "1.5"}, tab.Rows[0])
	assert.Equal(t, []string{"1", "2026-01-01T00:01:00Z", "0.8", "1.2"}, tab.Rows[1])
}

func TestNormalizeTimestamp(t *testing.T) {
	assert.Equal(t, "2026-01-01T00:00:00Z", NormalizeTimestamp("2026-01-01T00:00:00"))
	assert.Equal(t, "2026-01-01T00:00:00Z", NormalizeTimestamp("2026-01-01T00:00:00.123456"))
	assert.Equal(t, "2025-12-31T15:00:00Z", NormalizeTimestamp("2026-01-01T00:00:00+09:00"))
	// Unparseable values pass through unchanged.
	assert.Equal(t, "not a date", NormalizeTimestamp("not a date"))
	assert.Equal(t, "", NormalizeTimestamp(""))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "hello", FormatValue("hello"))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "0.95", FormatValue(0.95))
	assert.Equal(t, "42", FormatValue(42.0))
	assert.Equal(t, `["a","b"]`, FormatValue([]any{"a", "b"}))
}
