package wandb

import (
	"context"
	"fmt"
)

// Projects are called "models" in the tracking API schema for historical
// reasons.
const projectsQuery = `
query Projects($entity: String!, $first: Int!, $after: String) {
  models(entityName: $entity, first: $first, after: $after) {
    edges {
      node {
        name
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}`

type projectsData struct {
	Models struct {
		Edges []struct {
			Node struct {
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo pageInfo `json:"pageInfo"`
	} `json:"models"`
}

// GetProjects lists the names of all projects under the configured entity.
func (c *Client) GetProjects(ctx context.Context) ([]string, error) {
	names := make([]string, 0)
	cursor := ""

	for {
		variables := map[string]any{
			"entity": c.config.Entity,
			"first":  100,
		}
		if cursor != "" {
			variables["after"] = cursor
		}

		var data projectsData
		if err := c.gql(ctx, projectsQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("failed to list projects for %s: %w", c.config.Entity, err)
		}

		for _, edge := range data.Models.Edges {
			names = append(names, edge.Node.Name)
		}

		if !data.Models.PageInfo.HasNextPage {
			break
		}
		cursor = data.Models.PageInfo.EndCursor
	}

	return names, nil
}
