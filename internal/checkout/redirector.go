package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"unitrader/internal/session"
)

const defaultTimeout = 10 * time.Second

// HTTPRedirector talks to the hosted payment page over its JSON API.
type HTTPRedirector struct {
	url    string
	client *http.Client
}

func NewHTTPRedirector(url string) *HTTPRedirector {
	return &HTTPRedirector{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

type redirectorLine struct {
	ItemID    string  `json:"item_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type redirectorRequest struct {
	Lines []redirectorLine `json:"lines"`
}

type redirectorResponse struct {
	ID string `json:"id"`
}

func (r *HTTPRedirector) CreateSession(ctx context.Context, cart []session.CartLine) (string, error) {
	payload := redirectorRequest{Lines: make([]redirectorLine, 0, len(cart))}
	for _, line := range cart {
		payload.Lines = append(payload.Lines, redirectorLine{
			ItemID:    line.ItemID.String(),
			Title:     line.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling cart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling payment collaborator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("payment collaborator returned status %d", resp.StatusCode)
	}

	var out redirectorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if out.ID == "" {
		return "", fmt.Errorf("payment collaborator returned empty session id")
	}
	return out.ID, nil
}
