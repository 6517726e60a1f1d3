package wandb

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// artifactStubHandler serves the artifact listing for a run and the file
// contents behind the direct URLs it hands out.
func artifactStubHandler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "contents of %s", r.URL.Path)
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		req := decodeGQL(t, r)
		runID := req.Variables["name"].(string)
		base := "http://" + r.Host
		respondGQL(t, w, fmt.Sprintf(`{
			"project": {
				"run": {
					"outputArtifacts": {
						"edges": [
							{"node": {
								"versionIndex": 0,
								"artifactType": {"name": "training-output"},
								"artifactSequence": {"name": "disrnn-output-%[1]s"},
								"files": {"edges": [
									{"node": {"name": "params.json", "directUrl": "%[2]s/files/%[1]s/params.json"}},
									{"node": {"name": "output_summary.csv", "directUrl": "%[2]s/files/%[1]s/output_summary.csv"}}
								]}
							}},
							{"node": {
								"versionIndex": 3,
								"artifactType": {"name": "dataset"},
								"artifactSequence": {"name": "input-data"},
								"files": {"edges": [
									{"node": {"name": "data.parquet", "directUrl": "%[2]s/files/%[1]s/data.parquet"}}
								]}
							}}
						],
						"pageInfo": {"endCursor": "", "hasNextPage": false}
					}
				}
			}
		}`, runID, base))
	})
	return mux
}

func TestDownloadRunArtifacts(t *testing.T) {
	client := newTestClient(t, artifactStubHandler(t))

	results, err := client.DownloadRunArtifacts(context.Background(), "abc123", DownloadOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)

	artifact := results[0]
	assert.Equal(t, "disrnn-output-abc123", artifact.Name)
	assert.Equal(t, "training-output", artifact.Type)
	assert.Equal(t, "v0", artifact.Version)
	assert.Equal(t, "abc123", artifact.RunID)
	assert.Equal(t, "artifacts/abc123/disrnn-output-abc123", artifact.DownloadPath)
	assert.Equal(t, []string{"params.json", "output_summary.csv"}, artifact.Files)

	content, err := afero.ReadFile(client.fs, "artifacts/abc123/disrnn-output-abc123/params.json")
	require.NoError(t, err)
	assert.Equal(t, "contents of /files/abc123/params.json", string(content))

	exists, err := afero.Exists(client.fs, "artifacts/abc123/disrnn-output-abc123/output_summary.csv")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDownloadRunArtifactsFiltersByType(t *testing.T) {
	client := newTestClient(t, artifactStubHandler(t))

	results, err := client.DownloadRunArtifacts(context.Background(), "abc123", DownloadOptions{
		ArtifactType: "dataset",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "input-data", results[0].Name)
	assert.Equal(t, "v3", results[0].Version)

	// The training-output artifact must not have been downloaded.
	exists, err := afero.Exists(client.fs, "artifacts/abc123/disrnn-output-abc123/params.json")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDownloadRunArtifactsNoMatch(t *testing.T) {
	client := newTestClient(t, artifactStubHandler(t))

	results, err := client.DownloadRunArtifacts(context.Background(), "abc123", DownloadOptions{
		ArtifactType: "model-checkpoint",
	})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDownloadRunArtifactsCustomOutputDir(t *testing.T) {
	client := newTestClient(t, artifactStubHandler(t))

	results, err := client.DownloadRunArtifacts(context.Background(), "abc123", DownloadOptions{
		OutputDir: "/tmp/my-output",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "/tmp/my-output/abc123/disrnn-output-abc123", results[0].DownloadPath)

	exists, err := afero.Exists(client.fs, "/tmp/my-output/abc123/disrnn-output-abc123/params.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDownloadRunArtifactsSelectedFiles(t *testing.T) {
	client := newTestClient(t, artifactStubHandler(t))

	results, err := client.DownloadRunArtifacts(context.Background(), "abc123", DownloadOptions{
		Files: []string{"params.json"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, []string{"params.json"}, results[0].Files)

	exists, err := afero.Exists(client.fs, "artifacts/abc123/disrnn-output-abc123/output_summary.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDownloadRunArtifactsSkipsMissingFiles(t *testing.T) {
	client := newTestClient(t, artifactStubHandler(t))

	results, err := client.DownloadRunArtifacts(context.Background(), "abc123", DownloadOptions{
		Files: []string{"nonexistent.json"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Files)
}

func TestDownloadArtifactsBatch(t *testing.T) {
	client := newTestClient(t, artifactStubHandler(t))

	results, err := client.DownloadArtifacts(context.Background(), []string{"r1", "r2"}, DownloadOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Len(t, results["r1"], 1)
	require.Len(t, results["r2"], 1)
	assert.Equal(t, "r1", results["r1"][0].RunID)
	assert.Equal(t, "disrnn-output-r1", results["r1"][0].Name)
	assert.Equal(t, "r2", results["r2"][0].RunID)
	assert.Equal(t, "artifacts/r2/disrnn-output-r2", results["r2"][0].DownloadPath)
}

func TestDownloadArtifactsEmptyRunList(t *testing.T) {
	client := newTestClient(t, artifactStubHandler(t))

	results, err := client.DownloadArtifacts(context.Background(), nil, DownloadOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestDownloadRunArtifactsRunNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondGQL(t, w, `{"project": {"run": null}}`)
	}))

	_, err := client.DownloadRunArtifacts(context.Background(), "missing", DownloadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestDownloadFileReportsHTTPFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "expired", http.StatusForbidden)
	})
	mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		base := "http://" + r.Host
		respondGQL(t, w, fmt.Sprintf(`{
			"project": {
				"run": {
					"outputArtifacts": {
						"edges": [{"node": {
							"versionIndex": 0,
							"artifactType": {"name": "training-output"},
							"artifactSequence": {"name": "disrnn-output-abc123"},
							"files": {"edges": [
								{"node": {"name": "params.json", "directUrl": "%s/files/params.json"}}
							]}
						}}],
						"pageInfo": {"endCursor": "", "hasNextPage": false}
					}
				}
			}
		}`, base))
	})
	client := newTestClient(t, mux)

	_, err := client.DownloadRunArtifacts(context.Background(), "abc123", DownloadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}
