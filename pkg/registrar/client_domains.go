package registrar

import "context"

type listDomainsPayload struct {
	Start         string `json:"start"`
	IncludeLabels string `json:"includeLabels,omitempty"`
}

// ListDomains returns one page of the account's domains starting at offset start.
func (c *Client) ListDomains(ctx context.Context, start int, includeLabels bool) ([]Domain, error) {
	if start < 0 {
		start = 0
	}
	payload := listDomainsPayload{Start: itoa(start)}
	if includeLabels {
		payload.IncludeLabels = "yes"
	}
	endpoint := EndpointListDomains()
	return cached(ctx, c, domainsListKey(start, includeLabels), endpoint, payload, EnqueueOptions{}, func(body []byte) ([]Domain, error) {
		return decodeDomains(endpoint, body)
	})
}

// GetURLForwards returns the URL forwards configured for domain.
func (c *Client) GetURLForwards(ctx context.Context, domain string) ([]URLForward, error) {
	domain = normalizeDomain(domain)
	endpoint := EndpointURLForwards(domain)
	return cached(ctx, c, urlForwardsKey(domain), endpoint, nil, EnqueueOptions{}, func(body []byte) ([]URLForward, error) {
		return decodeURLForwards(endpoint, body)
	})
}

// GetNameServers returns the authoritative nameservers for domain.
func (c *Client) GetNameServers(ctx context.Context, domain string) ([]string, error) {
	domain = normalizeDomain(domain)
	endpoint := EndpointNameServers(domain)
	return cached(ctx, c, nameServersKey(domain), endpoint, nil, EnqueueOptions{}, func(body []byte) ([]string, error) {
		return decodeNameServers(endpoint, body)
	})
}
