package ledgersdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Client calls the ledger HTTP API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AccountResponse, error) {
	form := url.Values{}
	form.Set("username", req.Username)
	form.Set("email", req.Email)
	form.Set("password", req.Password)
	if req.Referral != "" {
		form.Set("referral", req.Referral)
	}

	resp, err := c.doForm(ctx, http.MethodPost, "/v1/accounts", form)
	if err != nil {
		return nil, err
	}

	var acc AccountResponse
	if err := decodeJSON(resp, &acc, http.StatusCreated); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) GetAccount(ctx context.Context, userID string) (*AccountResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/accounts/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}

	var acc AccountResponse
	if err := decodeJSON(resp, &acc, http.StatusOK); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) SetPayoutAddress(ctx context.Context, userID, address string) (*AccountResponse, error) {
	form := url.Values{}
	form.Set("payout_address", address)

	resp, err := c.doForm(ctx, http.MethodPut, "/v1/accounts/"+url.PathEscape(userID)+"/payout-address", form)
	if err != nil {
		return nil, err
	}

	var acc AccountResponse
	if err := decodeJSON(resp, &acc, http.StatusOK); err != nil {
		return nil, err
	}
	return &acc, nil
}

// SubmitProof uploads a task proof image for the administrator to review.
func (c *Client) SubmitProof(ctx context.Context, userID, filename string, proof io.Reader) (*ProofResponse, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("user_id", userID); err != nil {
		return nil, err
	}
	if proof != nil {
		part, err := mw.CreateFormFile("proof", filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, proof); err != nil {
			return nil, fmt.Errorf("failed to copy proof: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/proofs", &body, map[string]string{
		"Content-Type": mw.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var ack ProofResponse
	if err := decodeJSON(resp, &ack, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &ack, nil
}

// RequestWithdrawal asks for a payout. The returned withdrawal is Pending.
func (c *Client) RequestWithdrawal(ctx context.Context, userID string, amount decimal.Decimal) (*WithdrawalResponse, error) {
	form := url.Values{}
	form.Set("user_id", userID)
	form.Set("amount", amount.String())

	resp, err := c.doForm(ctx, http.MethodPost, "/v1/withdrawals", form)
	if err != nil {
		return nil, err
	}

	var w WithdrawalResponse
	if err := decodeJSON(resp, &w, http.StatusAccepted); err != nil {
		return nil, err
	}
	return &w, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) doForm(ctx context.Context, method, path string, form url.Values) (*http.Response, error) {
	return c.doRequest(ctx, method, path, strings.NewReader(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
}

func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON decodes a JSON response into target, or returns an *APIError
// when the status is not the expected one.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
