package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/confkit/go-conflate"
)

// HTTPOption configures the HTTP provider.
type HTTPOption func(*httpProvider)

// HTTPWithClient replaces the default http.DefaultClient.
func HTTPWithClient(client *http.Client) HTTPOption {
	return func(p *httpProvider) {
		if client != nil {
			p.client = client
		}
	}
}

// HTTPWithHeader adds a header to every request.
func HTTPWithHeader(key, value string) HTTPOption {
	return func(p *httpProvider) {
		if p.headers == nil {
			p.headers = http.Header{}
		}
		p.headers.Add(key, value)
	}
}

type httpProvider struct {
	url     string
	client  *http.Client
	headers http.Header
}

// HTTP returns a provider fetching a JSON document from url with a GET
// request. Timeouts and cancellation arrive through the load context.
func HTTP(url string, opts ...HTTPOption) conflate.Provider {
	p := &httpProvider{
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *httpProvider) Load(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("providers: build request for %s: %w", p.url, err)
	}
	for key, values := range p.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("providers: fetch %s: %w", p.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("providers: fetch %s: unexpected status %d", p.url, resp.StatusCode)
	}

	var fragment map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&fragment); err != nil {
		return nil, fmt.Errorf("providers: decode %s: %w", p.url, err)
	}
	return fragment, nil
}
