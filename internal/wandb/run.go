package wandb

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/models"
)

const defaultPerPage = 50

// DefaultOrder sorts runs most recent first.
const DefaultOrder = "-created_at"

// In the tracking API schema a run's `name` field is its opaque ID and
// `displayName` is the human-readable name.
const runFields = `
        name
        displayName
        state
        tags
        config
        summaryMetrics
        createdAt`

const runsQuery = `
query Runs($entity: String!, $project: String!, $filters: JSONString, $order: String, $first: Int!, $after: String) {
  project(name: $project, entityName: $entity) {
    runs(filters: $filters, order: $order, first: $first, after: $after) {
      edges {
        node {` + runFields + `
        }
      }
      pageInfo {
        endCursor
        hasNextPage
      }
    }
  }
}`

const runQuery = `
query Run($entity: String!, $project: String!, $name: String!) {
  project(name: $project, entityName: $entity) {
    run(name: $name) {` + runFields + `
    }
  }
}`

type runNode struct {
	Name           string   `json:"name"`
	DisplayName    string   `json:"displayName"`
	State          string   `json:"state"`
	Tags           []string `json:"tags"`
	Config         string   `json:"config"`
	SummaryMetrics string   `json:"summaryMetrics"`
	CreatedAt      string   `json:"createdAt"`
}

type runsData struct {
	Project *struct {
		Runs struct {
			Edges []struct {
				Node runNode `json:"node"`
			} `json:"edges"`
			PageInfo pageInfo `json:"pageInfo"`
		} `json:"runs"`
	} `json:"project"`
}

type runData struct {
	Project *struct {
		Run *runNode `json:"run"`
	} `json:"project"`
}

// ListRunsOptions controls run listing. Zero values mean: default project,
// no filters, most recent first, 50 runs per page.
type ListRunsOptions struct {
	Project string
	Filters map[string]any
	Order   string
	PerPage int
}

// GetRuns lists runs of a project, following cursor pagination until the
// listing is exhausted. Filters are a MongoDB-style query passed through to
// the API unchanged.
func (c *Client) GetRuns(ctx context.Context, opts ListRunsOptions) ([]models.RunInfo, error) {
	project, err := c.config.ResolveProject(opts.Project)
	if err != nil {
		return nil, err
	}

	order := opts.Order
	if order == "" {
		order = DefaultOrder
	}
	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}

	filters := opts.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	encodedFilters, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filters: %w", err)
	}

	runs := make([]models.RunInfo, 0)
	cursor := ""

	for {
		variables := map[string]any{
			"entity":  c.config.Entity,
			"project": project,
			"filters": string(encodedFilters),
			"order":   order,
			"first":   perPage,
		}
		if cursor != "" {
			variables["after"] = cursor
		}

		var data runsData
		if err := c.gql(ctx, runsQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("failed to list runs for %s/%s: %w", c.config.Entity, project, err)
		}
		if data.Project == nil {
			return nil, fmt.Errorf("project %s/%s not found", c.config.Entity, project)
		}

		for _, edge := range data.Project.Runs.Edges {
			info, err := c.toRunInfo(&edge.Node, project)
			if err != nil {
				return nil, err
			}
			runs = append(runs, *info)
		}

		if !data.Project.Runs.PageInfo.HasNextPage {
			break
		}
		cursor = data.Project.Runs.PageInfo.EndCursor
	}

	return runs, nil
}

// GetRun fetches metadata for a single run. An empty project falls back to
// the configured default.
func (c *Client) GetRun(ctx context.Context, runID, project string) (*models.RunInfo, error) {
	proj, err := c.config.ResolveProject(project)
	if err != nil {
		return nil, err
	}

	var data runData
	variables := map[string]any{
		"entity":  c.config.Entity,
		"project": proj,
		"name":    runID,
	}
	if err := c.gql(ctx, runQuery, variables, &data); err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", c.runPath(proj, runID), err)
	}
	if data.Project == nil {
		return nil, fmt.Errorf("project %s/%s not found", c.config.Entity, proj)
	}
	if data.Project.Run == nil {
		return nil, fmt.Errorf("run %s not found", c.runPath(proj, runID))
	}

	return c.toRunInfo(data.Project.Run, proj)
}

// toRunInfo converts an API run node to the local RunInfo struct.
func (c *Client) toRunInfo(node *runNode, project string) (*models.RunInfo, error) {
	cfg, err := decodeRunConfig(node.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config for run %s: %w", node.Name, err)
	}

	summary, err := decodeJSONMap(node.SummaryMetrics)
	if err != nil {
		return nil, fmt.Errorf("failed to decode summary for run %s: %w", node.Name, err)
	}

	tags := node.Tags
	if tags == nil {
		tags = []string{}
	}

	return &models.RunInfo{
		ID:        node.Name,
		Name:      node.DisplayName,
		State:     node.State,
		Tags:      tags,
		Config:    cfg,
		Summary:   summary,
		CreatedAt: node.CreatedAt,
		URL:       c.runURL(project, node.Name),
		Project:   project,
		Entity:    c.config.Entity,
	}, nil
}

// decodeJSONMap decodes a JSONString field into a map. The API encodes
// config and summary as JSON strings rather than objects.
func decodeJSONMap(encoded string) (map[string]any, error) {
	if encoded == "" {
		return map[string]any{}, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(encoded), &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// decodeRunConfig decodes the config JSONString and unwraps the service's
// per-key {"value": ..., "desc": ...} envelope.
func decodeRunConfig(encoded string) (map[string]any, error) {
	raw, err := decodeJSONMap(encoded)
	if err != nil {
		return nil, err
	}

	cfg := make(map[string]any, len(raw))
	for key, val := range raw {
		if wrapped, ok := val.(map[string]any); ok {
			if inner, ok := wrapped["value"]; ok {
				cfg[key] = inner
				continue
			}
		}
		cfg[key] = val
	}
	return cfg, nil
}
