package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

type sendRequest struct {
	Recipient recipient `json:"recipient"`
	Message   message   `json:"message"`
}

type recipient struct {
	ID string `json:"id"`
}

type message struct {
	Text string `json:"text"`
}

// Client calls the Messenger Send API with a page access token.
type Client struct {
	apiURL      string
	accessToken string
	httpClient  *http.Client
	logger      *zap.Logger
}

func NewClient(apiURL, accessToken string, logger *zap.Logger) *Client {
	return &Client{
		apiURL:      apiURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		logger:      logger,
	}
}

// SendText delivers a plain text message to a page-scoped user id.
func (c *Client) SendText(ctx context.Context, recipientID, text string) error {
	body, err := json.Marshal(sendRequest{Recipient: recipient{ID: recipientID}, Message: message{Text: text}})
	if err != nil {
		return err
	}

	u, err := url.Parse(c.apiURL)
	if err != nil {
		return fmt.Errorf("invalid messenger api url: %w", err)
	}
	q := u.Query()
	q.Set("access_token", c.accessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("messenger send failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("messenger send returned %d: %s", resp.StatusCode, detail)
	}
	c.logger.Debug("Messenger reply sent", zap.String("recipientId", recipientID))
	return nil
}
