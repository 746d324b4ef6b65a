package expand

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const userAgent = "graphkit/1.0 (+https://github.com/osintdash/graphkit)"

// maxBodyBytes caps how much of a provider response is read. Free OSINT
// endpoints occasionally return enormous payloads (crt.sh on wildcard
// queries); anything past the cap is discarded.
const maxBodyBytes = 4 << 20

// httpClient returns a client with sane timeouts for provider calls.
func httpClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON fetches url and decodes the response body into out. A non-2xx
// status is an error; adapters absorb it as a failed attempt.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	body, err := fetch(ctx, client, http.MethodGet, url, nil, "")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse %s: %w", url, err)
	}
	return nil
}

// postJSON sends a JSON payload and decodes the JSON response into out.
func postJSON(ctx context.Context, client *http.Client, url string, payload, out any) error {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	body, err := fetch(ctx, client, http.MethodPost, url, encoded, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse %s: %w", url, err)
	}
	return nil
}

// getText fetches url and returns the raw body, for line-oriented APIs.
func getText(ctx context.Context, client *http.Client, url string) (string, error) {
	body, err := fetch(ctx, client, http.MethodGet, url, nil, "")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func fetch(ctx context.Context, client *http.Client, method, url string, payload []byte, contentType string) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}
