package link

import (
	"bytes"
	"collection-route-service/internal/platform/httpx"
	"collection-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type publishRequest struct {
	Text string `json:"text"`
}

// HTTPPublisher posts {"text": link} to a fixed endpoint.
type HTTPPublisher struct {
	client *httpx.Client
	url    string
}

func NewHTTPPublisher(url string, client *httpx.Client) (*HTTPPublisher, error) {
	if url == "" {
		return nil, errors.New("publish url is empty")
	}
	if client == nil {
		client = httpx.NewClient(10*time.Second, 1)
	}
	return &HTTPPublisher{client: client, url: url}, nil
}

func (p *HTTPPublisher) Publish(ctx context.Context, link string) (err error) {
	defer obs.Time(ctx, "link.Publish")(&err)

	payload, err := json.Marshal(publishRequest{Text: link})
	if err != nil {
		return fmt.Errorf("marshal publish request: %w", err)
	}

	resp, err := p.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("publish link: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}
