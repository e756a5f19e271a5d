package snapshot

import (
	"collection-route-service/internal/domain"
	"collection-route-service/internal/platform/httpx"
	"collection-route-service/internal/platform/obs"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPSource fetches the current snapshot from a remote JSON endpoint.
type HTTPSource struct {
	client *httpx.Client
	url    string
}

func NewHTTPSource(url string, client *httpx.Client) (*HTTPSource, error) {
	if url == "" {
		return nil, errors.New("snapshot url is empty")
	}
	if client == nil {
		client = httpx.NewClient(15*time.Second, 1)
	}
	return &HTTPSource{client: client, url: url}, nil
}

func (s *HTTPSource) ListPickupPoints(ctx context.Context) (_ []domain.PickupPoint, err error) {
	defer obs.Time(ctx, "snapshot.ListPickupPoints")(&err)

	resp, err := s.client.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	defer resp.Body.Close()

	return Decode(resp.Body)
}
