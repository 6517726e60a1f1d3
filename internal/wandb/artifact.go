package wandb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/models"
)

// DefaultArtifactType is the artifact type produced by the training
// pipeline.
const DefaultArtifactType = "training-output"

// DefaultOutputDir is the base directory artifacts are downloaded into; each
// run gets a subdirectory named after its ID.
const DefaultOutputDir = "./artifacts"

const artifactsQuery = `
query RunArtifacts($entity: String!, $project: String!, $name: String!, $after: String) {
  project(name: $project, entityName: $entity) {
    run(name: $name) {
      outputArtifacts(first: 50, after: $after) {
        edges {
          node {
            versionIndex
            artifactType {
              name
            }
            artifactSequence {
              name
            }
            files {
              edges {
                node {
                  name
                  directUrl
                }
              }
            }
          }
        }
        pageInfo {
          endCursor
          hasNextPage
        }
      }
    }
  }
}`

type artifactFileNode struct {
	Name      string `json:"name"`
	DirectURL string `json:"directUrl"`
}

type artifactNode struct {
	VersionIndex int `json:"versionIndex"`
	ArtifactType struct {
		Name string `json:"name"`
	} `json:"artifactType"`
	ArtifactSequence struct {
		Name string `json:"name"`
	} `json:"artifactSequence"`
	Files struct {
		Edges []struct {
			Node artifactFileNode `json:"node"`
		} `json:"edges"`
	} `json:"files"`
}

type artifactsData struct {
	Project *struct {
		Run *struct {
			OutputArtifacts struct {
				Edges []struct {
					Node artifactNode `json:"node"`
				} `json:"edges"`
				PageInfo pageInfo `json:"pageInfo"`
			} `json:"outputArtifacts"`
		} `json:"run"`
	} `json:"project"`
}

// DownloadOptions controls artifact download. Zero values mean: default
// project, DefaultOutputDir, DefaultArtifactType, all files.
type DownloadOptions struct {
	Project      string
	OutputDir    string
	ArtifactType string

	// Files restricts the download to the named entries. Entries an
	// artifact does not contain are skipped silently.
	Files []string
}

// DownloadRunArtifacts downloads the logged artifacts of a run whose type
// matches the filter. Each artifact lands under
// <output_dir>/<run_id>/<artifact_name>/.
func (c *Client) DownloadRunArtifacts(ctx context.Context, runID string, opts DownloadOptions) ([]models.ArtifactInfo, error) {
	proj, err := c.config.ResolveProject(opts.Project)
	if err != nil {
		return nil, err
	}

	artifactType := opts.ArtifactType
	if artifactType == "" {
		artifactType = DefaultArtifactType
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = DefaultOutputDir
	}

	artifacts, err := c.listRunArtifacts(ctx, proj, runID)
	if err != nil {
		return nil, err
	}

	results := make([]models.ArtifactInfo, 0)
	for _, artifact := range artifacts {
		if artifact.ArtifactType.Name != artifactType {
			continue
		}

		downloadPath := filepath.Join(outputDir, runID, artifact.ArtifactSequence.Name)
		downloaded, err := c.downloadArtifactFiles(ctx, &artifact, downloadPath, opts.Files)
		if err != nil {
			return nil, fmt.Errorf("failed to download artifact %s: %w", artifact.ArtifactSequence.Name, err)
		}

		results = append(results, models.ArtifactInfo{
			Name:         artifact.ArtifactSequence.Name,
			Type:         artifact.ArtifactType.Name,
			Version:      fmt.Sprintf("v%d", artifact.VersionIndex),
			DownloadPath: downloadPath,
			RunID:        runID,
			Files:        downloaded,
		})
	}

	return results, nil
}

// DownloadArtifacts batch-downloads artifacts for multiple runs, returning
// a map keyed by run ID.
func (c *Client) DownloadArtifacts(ctx context.Context, runIDs []string, opts DownloadOptions) (map[string][]models.ArtifactInfo, error) {
	results := make(map[string][]models.ArtifactInfo)
	for _, runID := range runIDs {
		artifacts, err := c.DownloadRunArtifacts(ctx, runID, opts)
		if err != nil {
			return nil, err
		}
		results[runID] = artifacts
	}
	return results, nil
}

// listRunArtifacts fetches all logged output artifacts of a run.
func (c *Client) listRunArtifacts(ctx context.Context, project, runID string) ([]artifactNode, error) {
	artifacts := make([]artifactNode, 0)
	cursor := ""

	for {
		variables := map[string]any{
			"entity":  c.config.Entity,
			"project": project,
			"name":    runID,
		}
		if cursor != "" {
			variables["after"] = cursor
		}

		var data artifactsData
		if err := c.gql(ctx, artifactsQuery, variables, &data); err != nil {
			return nil, fmt.Errorf("failed to list artifacts for %s: %w", c.runPath(project, runID), err)
		}
		if data.Project == nil {
			return nil, fmt.Errorf("project %s/%s not found", c.config.Entity, project)
		}
		if data.Project.Run == nil {
			return nil, fmt.Errorf("run %s not found", c.runPath(project, runID))
		}

		for _, edge := range data.Project.Run.OutputArtifacts.Edges {
			artifacts = append(artifacts, edge.Node)
		}

		if !data.Project.Run.OutputArtifacts.PageInfo.HasNextPage {
			break
		}
		cursor = data.Project.Run.OutputArtifacts.PageInfo.EndCursor
	}

	return artifacts, nil
}

// downloadArtifactFiles writes artifact files under downloadPath and returns
// the names actually downloaded. When a file selection is given, names the
// artifact does not contain are skipped.
func (c *Client) downloadArtifactFiles(ctx context.Context, artifact *artifactNode, downloadPath string, selection []string) ([]string, error) {
	entries := make(map[string]artifactFileNode, len(artifact.Files.Edges))
	order := make([]string, 0, len(artifact.Files.Edges))
	for _, edge := range artifact.Files.Edges {
		entries[edge.Node.Name] = edge.Node
		order = append(order, edge.Node.Name)
	}

	wanted := order
	if len(selection) > 0 {
		wanted = selection
	}

	downloaded := make([]string, 0, len(wanted))
	for _, name := range wanted {
		entry, ok := entries[name]
		if !ok {
			c.log.Debugf("artifact %s has no file %s, skipping", artifact.ArtifactSequence.Name, name)
			continue
		}
		if err := c.downloadFile(ctx, entry.DirectURL, filepath.Join(downloadPath, entry.Name)); err != nil {
			return nil, fmt.Errorf("failed to download file %s: %w", entry.Name, err)
		}
		downloaded = append(downloaded, entry.Name)
	}

	return downloaded, nil
}

// downloadFile fetches a signed URL and writes the body to destPath. Signed
// URLs carry their own authorization, so no auth header is attached.
func (c *Client) downloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("download failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := c.fs.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(destPath), err)
	}

	dest, err := c.fs.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer dest.Close()

	if _, err := io.Copy(dest, resp.Body); err != nil {
		return fmt.Errorf("failed to write file %s: %w", destPath, err)
	}

	return nil
}
