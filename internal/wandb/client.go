package wandb

import (
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/AllenNeuralDynamics/wandb-result-access/internal/config"
)

const defaultTimeout = 30 * time.Second

// Client is a read-side client for the W&B tracking API. All queries go
// through the GraphQL endpoint; artifact files are fetched from the signed
// URLs the API hands out.
type Client struct {
	config *config.Config
	http   *http.Client
	fs     afero.Fs
	log    logrus.FieldLogger
}

func NewClient(cfg *config.Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: timeout},
		fs:     afero.NewOsFs(),
		log:    logrus.StandardLogger(),
	}, nil
}

// Entity returns the entity the client is scoped to.
func (c *Client) Entity() string {
	return c.config.Entity
}

// runPath builds the run address in the form entity/project/run_id.
func (c *Client) runPath(project, runID string) string {
	return fmt.Sprintf("%s/%s/%s", c.config.Entity, project, runID)
}

// runURL builds the web UI URL for a run.
func (c *Client) runURL(project, runID string) string {
	return fmt.Sprintf("%s/%s/%s/runs/%s", c.config.AppURL(), c.config.Entity, project, runID)
}
