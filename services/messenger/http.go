package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"citaflow/config"
)

type httpMessenger struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewHTTPMessenger returns a Messenger that posts to the WhatsApp
// gateway's /v1/messages endpoint.
func NewHTTPMessenger() Messenger {
	return &httpMessenger{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: config.AppConfig.MessengerURL,
		token:   config.AppConfig.MessengerToken,
	}
}

func (m *httpMessenger) Send(ctx context.Context, destination, text, mediaURL string) error {
	payload := map[string]string{
		"number":  destination,
		"message": text,
	}
	if mediaURL != "" {
		payload["urlMedia"] = mediaURL
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}
