package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// fetch runs one GET through the pipeline and returns the payload held
// under key. f may be nil.
func (a *API) fetch(ctx context.Context, resourcePath string, f Filter, key string) (json.RawMessage, error) {
	endpoint := a.baseURL + "/" + resourcePath
	if query := EncodeFilter(f); query != "" {
		endpoint += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", a.userAgent)

	if err := a.auth(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to authenticate request: %w", err)
	}

	start := time.Now()
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: endpoint, Err: err}
	}

	a.logger.Debug().
		Str("method", req.Method).
		Str("path", resourcePath).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("Forecast API request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Method:     req.Method,
			URL:        endpoint,
			Body:       string(body),
		}
	}

	return unwrap(body, key)
}

func getOne[T Entity](ctx context.Context, a *API, resourcePath, key string, f Filter) (T, error) {
	payload, err := a.fetch(ctx, resourcePath, f, key)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](payload)
}

func getList[T Entity](ctx context.Context, a *API, resourcePath, key string, f Filter) ([]T, error) {
	payload, err := a.fetch(ctx, resourcePath, f, key)
	if err != nil {
		return nil, err
	}
	return DecodeList[T](payload)
}
