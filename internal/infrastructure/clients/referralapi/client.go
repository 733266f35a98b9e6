package referralapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/Caretransitiondesign/internal/domain/entities"
	"github.com/zatekoja/Caretransitiondesign/pkg/retry"
)

// Client is the external data-access collaborator that owns referral
// outcome history. Retry and timeout policy live here, on the boundary,
// so the risk engine consuming the data stays free of network concerns.
type Client interface {
	ListReferrals(ctx context.Context, patientID string) ([]*entities.Referral, error)
	Health(ctx context.Context) error
}

// HTTPClient implements Client against the collaborator's REST surface
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	retryCfg   retry.Config
}

// NewHTTPClient creates a new referral history API client
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retryCfg: retry.QuickConfig(),
	}
}

type referralRow struct {
	ID         string    `json:"id"`
	PatientID  string    `json:"patientId"`
	ProviderID string    `json:"providerId,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type listReferralsResponse struct {
	Data  []referralRow `json:"data"`
	Count int           `json:"count"`
}

// ListReferrals fetches past referral outcomes for a patient
func (c *HTTPClient) ListReferrals(ctx context.Context, patientID string) ([]*entities.Referral, error) {
	endpoint := fmt.Sprintf("%s/api/referrals?patientId=%s", c.baseURL, url.QueryEscape(patientID))

	var body []byte
	err := retry.DoWithLog(ctx, c.retryCfg, "ReferralAPI",
		func() error {
			var err error
			body, err = c.get(ctx, endpoint)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Int("attempt", attempt).Err(err).Dur("next_delay", nextDelay).
				Str("patient_id", patientID).
				Msg("referral history fetch failed, retrying")
		},
	)
	if err != nil {
		return nil, err
	}

	var resp listReferralsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode referral list: %w", err)
	}

	referrals := make([]*entities.Referral, 0, len(resp.Data))
	for _, row := range resp.Data {
		referrals = append(referrals, &entities.Referral{
			ID:         row.ID,
			PatientID:  row.PatientID,
			ProviderID: row.ProviderID,
			Status:     entities.ReferralStatus(row.Status),
			CreatedAt:  row.CreatedAt,
			UpdatedAt:  row.UpdatedAt,
		})
	}

	return referrals, nil
}

// Health checks whether the collaborator is reachable
func (c *HTTPClient) Health(ctx context.Context) error {
	_, err := c.get(ctx, c.baseURL+"/health")
	return err
}

func (c *HTTPClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
