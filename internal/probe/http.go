package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPProber GETs a URL and succeeds on any 2xx response.
type HTTPProber struct {
	URL    string
	Client *http.Client
}

func NewHTTP(url string, client *http.Client) *HTTPProber {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProber{URL: url, Client: client}
}

func (p *HTTPProber) Name() string {
	return fmt.Sprintf("http %s", p.URL)
}

func (p *HTTPProber) Probe(ctx context.Context, note func(string)) error {
	send(note, "making request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return fmt.Errorf("building HTTP request: %w", err)
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return fmt.Errorf("error making HTTP request: %w", err)
	}
	defer resp.Body.Close()

	send(note, fmt.Sprintf("response status: %s", resp.Status))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return fmt.Errorf("received HTTP error %q and unable to read body: %w", resp.Status, readErr)
		}
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("%s", msg)
	}

	return nil
}
