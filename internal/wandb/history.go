package wandb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/models"
)

// DefaultHistorySamples matches the sampling default of the official client.
const DefaultHistorySamples = 500

const historyQuery = `
query RunHistory($entity: String!, $project: String!, $name: String!, $samples: Int!) {
  project(name: $project, entityName: $entity) {
    run(name: $name) {
      history(samples: $samples)
    }
  }
}`

type historyData struct {
	Project *struct {
		Run *struct {
			History []string `json:"history"`
		} `json:"run"`
	} `json:"project"`
}

// GetRunHistory fetches the sampled time-series history of a run. Each row
// arrives from the API as a JSON-encoded line and is decoded into a map.
// samples <= 0 uses the default sample count.
func (c *Client) GetRunHistory(ctx context.Context, runID, project string, samples int) ([]models.HistoryRow, error) {
	proj, err := c.config.ResolveProject(project)
	if err != nil {
		return nil, err
	}

	if samples <= 0 {
		samples = DefaultHistorySamples
	}

	var data historyData
	variables := map[string]any{
		"entity":  c.config.Entity,
		"project": proj,
		"name":    runID,
		"samples": samples,
	}
	if err := c.gql(ctx, historyQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to get history for %s: %w", c.runPath(proj, runID), err)
	}
	if data.Project == nil {
		return nil, fmt.Errorf("project %s/%s not found", c.config.Entity, proj)
	}
	if data.Project.Run == nil {
		return nil, fmt.Errorf("run %s not found", c.runPath(proj, runID))
	}

	rows := make([]models.HistoryRow, 0, len(data.Project.Run.History))
	for i, line := range data.Project.Run.History {
		var row models.HistoryRow
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("failed to decode history row %d for %s: %w", i, c.runPath(proj, runID), err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}
