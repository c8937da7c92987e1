package contact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ContentTypeForm is the media type of an encoded Payload.
const ContentTypeForm = "application/x-www-form-urlencoded"

// StatusError reports a non-2xx response from the form backend.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contact: form backend responded %d %s", e.Code, http.StatusText(e.Code))
}

// HTTPSubmitter posts payloads to a form-handling backend. Endpoint is
// normally the site root.
type HTTPSubmitter struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPSubmitter returns a submitter for endpoint with a bounded client timeout.
func NewHTTPSubmitter(endpoint string) *HTTPSubmitter {
	return &HTTPSubmitter{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Submit sends p as a urlencoded POST. Any 2xx response is success; the
// body is drained and ignored.
func (s *HTTPSubmitter) Submit(ctx context.Context, p Payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, strings.NewReader(p.Encode()))
	if err != nil {
		return fmt.Errorf("contact: build request: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeForm)

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("contact: post %s: %w", s.Endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
