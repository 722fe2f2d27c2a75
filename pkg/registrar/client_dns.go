package registrar

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// GetDNSRecords returns the DNS records of domain.
func (c *Client) GetDNSRecords(ctx context.Context, domain string) ([]DNSRecord, error) {
	domain = normalizeDomain(domain)
	endpoint := EndpointDNSRetrieve(domain)
	return cached(ctx, c, dnsRecordsKey(domain), endpoint, nil, EnqueueOptions{}, func(body []byte) ([]DNSRecord, error) {
		return decodeDNSRecords(endpoint, body)
	})
}

// CreateDNSRecord creates a record and returns its upstream id.
// The cached record list for domain is dropped on success.
func (c *Client) CreateDNSRecord(ctx context.Context, domain string, record NewDNSRecord) (string, error) {
	domain = normalizeDomain(domain)
	if err := validateNewRecord(record); err != nil {
		return "", err
	}
	endpoint := EndpointDNSCreate(domain)
	resp, err := c.queue.Do(ctx, endpoint, record, EnqueueOptions{})
	if err != nil {
		return "", err
	}
	id, err := decodeDNSCreate(endpoint, resp.Body)
	if err != nil {
		return "", err
	}
	c.cache.Delete(dnsRecordsKey(domain))
	return id, nil
}

func validateNewRecord(record NewDNSRecord) error {
	if strings.TrimSpace(record.Type) == "" {
		return fmt.Errorf("dns record type is required")
	}
	if strings.TrimSpace(record.Content) == "" {
		return fmt.Errorf("dns record content is required")
	}
	if record.TTL != "" {
		if _, err := strconv.Atoi(record.TTL); err != nil {
			return fmt.Errorf("dns record ttl must be numeric: %w", err)
		}
	}
	return nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
