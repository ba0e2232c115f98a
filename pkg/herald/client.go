package herald

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ControlPlaneClient calls the control plane's deployment and action-log API
// on Herald's behalf, authenticating as the herald-service OAuth2 client.
type ControlPlaneClient struct {
	baseURL    string
	httpClient *http.Client
}

// ClientConfig configures a ControlPlaneClient.
type ClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	TokenURL     string
}

// NewControlPlaneClient builds a client that attaches a client-credentials
// bearer token to every request, refreshing it automatically as it expires.
func NewControlPlaneClient(cfg ClientConfig) *ControlPlaneClient {
	oauthCfg := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: httpTimeout})
	return &ControlPlaneClient{
		baseURL:    cfg.BaseURL,
		httpClient: oauthCfg.Client(ctx),
	}
}

type deploymentListResponse struct {
	Deployments []struct {
		ID uuid.UUID `json:"id"`
	} `json:"deployments"`
}

// ListDeployments returns the IDs of every deployment placed on dataPlaneID.
func (c *ControlPlaneClient) ListDeployments(ctx context.Context, dataPlaneID uuid.UUID) ([]uuid.UUID, error) {
	url := fmt.Sprintf("%s/api/v1/dataplanes/%s/deployments", c.baseURL, dataPlaneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building list_deployments request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling list_deployments: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("control plane returned HTTP %d for list_deployments", resp.StatusCode)
	}

	var result deploymentListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding list_deployments response: %w", err)
	}

	ids := make([]uuid.UUID, len(result.Deployments))
	for i, d := range result.Deployments {
		ids[i] = d.ID
	}
	return ids, nil
}

type claimActionsRequest struct {
	DataPlaneID  uuid.UUID `json:"dataplane_id"`
	Max          int       `json:"max"`
	LeaseSeconds int       `json:"lease_seconds"`
}

type claimActionsResponse struct {
	Actions []ControlPlaneAction `json:"actions"`
}

// ClaimActions leases up to max pending actions for deploymentID.
func (c *ControlPlaneClient) ClaimActions(ctx context.Context, dataPlaneID, deploymentID uuid.UUID, max int, leaseSeconds int) ([]ControlPlaneAction, error) {
	body, err := json.Marshal(claimActionsRequest{DataPlaneID: dataPlaneID, Max: max, LeaseSeconds: leaseSeconds})
	if err != nil {
		return nil, fmt.Errorf("marshalling claim_actions request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/deployments/%s/actions/claim", c.baseURL, deploymentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building claim_actions request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling claim_actions: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("control plane returned HTTP %d for claim_actions", resp.StatusCode)
	}

	var result claimActionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding claim_actions response: %w", err)
	}
	return result.Actions, nil
}

// MarkPublished reports a successful publish back to the control plane.
// Best-effort: callers log failures here rather than treating them as tick
// failures, since an un-acked action simply re-leases after expiry.
func (c *ControlPlaneClient) MarkPublished(ctx context.Context, deploymentID, actionID uuid.UUID) error {
	url := fmt.Sprintf("%s/api/v1/deployments/%s/actions/%s/published", c.baseURL, deploymentID, actionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("building mark_published request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling mark_published: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("control plane returned HTTP %d for mark_published", resp.StatusCode)
	}
	return nil
}

// httpTimeout bounds every control-plane call Herald makes.
const httpTimeout = 10 * time.Second
