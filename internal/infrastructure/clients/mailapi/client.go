package mailapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/haulmatch/freightquote-backend/internal/domain/providers"
	"github.com/haulmatch/freightquote-backend/pkg/config"
	apperrors "github.com/haulmatch/freightquote-backend/pkg/errors"
	"github.com/haulmatch/freightquote-backend/pkg/retry"
)

// Client is a thin HTTP client for the external mail provider's attachment
// API. It only fetches; the content is never interpreted here. Transport
// failures and 5xx responses are retried with backoff; 4xx responses are
// surfaced immediately.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retryCfg   retry.Config
}

// Ensure Client implements MailProvider
var _ providers.MailProvider = (*Client)(nil)

// NewClient creates a new mail API client
func NewClient(cfg *config.MailAPIConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retryCfg: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  100 * time.Millisecond,
			MaxDelay:      1 * time.Second,
			BackoffFactor: 2.0,
		},
	}
}

type attachmentListResponse struct {
	Attachments []providers.Attachment `json:"attachments"`
}

// ListAttachments lists attachment metadata for a message
func (c *Client) ListAttachments(ctx context.Context, messageID string) ([]providers.Attachment, error) {
	endpoint := fmt.Sprintf("%s/v1/messages/%s/attachments", c.baseURL, url.PathEscape(messageID))

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("message %s not found", messageID))
	}
	if status != http.StatusOK {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("mail provider returned status %d listing attachments", status), nil)
	}

	var parsed attachmentListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperrors.NewExternalError("failed to decode attachment list", err)
	}

	return parsed.Attachments, nil
}

// FetchAttachment downloads one attachment's content
func (c *Client) FetchAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/v1/messages/%s/attachments/%s/content",
		c.baseURL, url.PathEscape(messageID), url.PathEscape(attachmentID))

	body, status, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, apperrors.NewNotFoundError(
			fmt.Sprintf("attachment %s not found on message %s", attachmentID, messageID))
	}
	if status != http.StatusOK {
		return nil, apperrors.NewExternalError(
			fmt.Sprintf("mail provider returned status %d fetching attachment", status), nil)
	}

	return body, nil
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, int, error) {
	var body []byte
	var status int

	err := retry.Do(ctx, c.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		body, status = b, resp.StatusCode
		if status >= http.StatusInternalServerError {
			return fmt.Errorf("mail provider returned status %d", status)
		}
		return nil
	})
	if err != nil {
		return nil, 0, apperrors.NewExternalError("mail provider request failed", err)
	}

	return body, status, nil
}
