package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nonomnouns/clankpad/internal/domain"
)

// Sender posts frame notifications to per-token delivery URLs.
type Sender struct {
	httpClient *http.Client
}

func NewSender() *Sender {
	return &Sender{httpClient: &http.Client{Timeout: 15 * time.Second}}
}

type request struct {
	NotificationID string   `json:"notificationId"`
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	TargetURL      string   `json:"targetUrl"`
	Tokens         []string `json:"tokens"`
}

type response struct {
	Result domain.DeliveryResult `json:"result"`
}

// Send posts the payload to url for a single token and returns the endpoint's
// outcome classification. A non-2xx response is a hard failure.
func (s *Sender) Send(ctx context.Context, url, token string, p domain.NotificationPayload) (*domain.DeliveryResult, error) {
	body, err := json.Marshal(request{
		NotificationID: p.NotificationID,
		Title:          p.Title,
		Body:           p.Body,
		TargetURL:      p.TargetURL,
		Tokens:         []string{token},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("notification delivery failed: %s", resp.Status)
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode delivery response: %w", err)
	}
	return &out.Result, nil
}
