// Package table flattens run collections and history rows into tabular
// form for export.
package table

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/models"
)

// Table is a rectangular view of run or history data. Every row has one
// cell per column; cells for missing keys are empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Flatten collapses a nested map into a single level with dot-separated
// keys, e.g. {"model": {"type": "disrnn"}} becomes {"model.type": "disrnn"}.
func Flatten(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	flattenInto("", in, out)
	return out
}

func flattenInto(prefix string, in map[string]any, out map[string]any) {
	for key, val := range in {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := val.(map[string]any); ok {
			flattenInto(name, nested, out)
			continue
		}
		out[name] = val
	}
}

// runBaseColumns come first and in this order; flattened config and summary
// columns follow, sorted.
var runBaseColumns = []string{"id", "name", "state", "created_at", "tags", "project", "entity", "url"}

// RunsToTable flattens a run collection into a table. Config keys are
// prefixed "config.", summary keys "summary.", both dot-flattened.
// Timestamps are normalized to RFC3339 UTC.
func RunsToTable(runs []models.RunInfo) *Table {
	flat := make([]map[string]any, 0, len(runs))
	extra := make(map[string]bool)

	for _, run := range runs {
		row := map[string]any{
			"id":         run.ID,
			"name":       run.Name,
			"state":      run.State,
			"created_at": NormalizeTimestamp(run.CreatedAt),
			"tags":       strings.Join(run.Tags, ","),
			"project":    run.Project,
			"entity":     run.Entity,
			"url":        run.URL,
		}
		for key, val := range Flatten(run.Config) {
			row["config."+key] = val
			extra["config."+key] = true
		}
		for key, val := range Flatten(run.Summary) {
			row["summary."+key] = val
			extra["summary."+key] = true
		}
		flat = append(flat, row)
	}

	columns := append([]string{}, runBaseColumns...)
	columns = append(columns, sortedKeys(extra)...)
	return build(columns, flat)
}

// historyLeadColumns are service bookkeeping keys, pinned to the front when
// present.
var historyLeadColumns = []string{"_step", "_timestamp", "_runtime"}

// HistoryToTable flattens history rows into a table. The _timestamp column
// (epoch seconds) is normalized to RFC3339 UTC; metric columns are sorted.
func HistoryToTable(rows []models.HistoryRow) *Table {
	flat := make([]map[string]any, 0, len(rows))
	lead := make(map[string]bool)
	metrics := make(map[string]bool)

	for _, row := range rows {
		out := Flatten(row)
		if ts, ok := out["_timestamp"].(float64); ok {
			out["_timestamp"] = epochToRFC3339(ts)
		}
		for key := range out {
			if strings.HasPrefix(key, "_") {
				lead[key] = true
			} else {
				metrics[key] = true
			}
		}
		flat = append(flat, out)
	}

	columns := make([]string, 0, len(lead)+len(metrics))
	for _, key := range historyLeadColumns {
		if lead[key] {
			columns = append(columns, key)
			delete(lead, key)
		}
	}
	columns = append(columns, sortedKeys(lead)...)
	columns = append(columns, sortedKeys(metrics)...)
	return build(columns, flat)
}

func build(columns []string, rows []map[string]any) *Table {
	t := &Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = FormatValue(row[col])
		}
		t.Rows = append(t.Rows, cells)
	}
	return t
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// timestampLayouts cover the formats the API emits: RFC3339 with and
// without fractional seconds, and zone-less ISO8601.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// NormalizeTimestamp reformats a timestamp string to RFC3339 UTC. Values
// that match no known layout are returned unchanged.
func NormalizeTimestamp(value string) string {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return value
}

func epochToRFC3339(seconds float64) string {
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(frac*1e9)).UTC().Format(time.RFC3339)
}

// FormatValue renders a decoded JSON value as a table cell. Composite
// values are re-encoded as JSON.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(encoded)
	}
}
