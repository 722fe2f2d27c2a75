package registrar

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexBool decodes booleans the upstream encodes as true/false, 1/0, "1"/"0" or "yes"/"no".
type FlexBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *FlexBool) UnmarshalJSON(data []byte) error {
	value := strings.ToLower(strings.Trim(string(bytes.TrimSpace(data)), `"`))
	switch value {
	case "1", "true", "yes", "on":
		*b = true
	case "0", "false", "no", "off", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %q", value)
	}
	return nil
}

// flexInt decodes integers sent either as JSON numbers or numeric strings.
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if value == "" || value == "null" {
		*n = 0
		return nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer %q", value)
	}
	*n = flexInt(parsed)
	return nil
}

const (
	statusSuccess = "SUCCESS"
	statusError   = "ERROR"
)

// envelope carries the fields every upstream body shares.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type limitsBlock struct {
	TTL             flexInt `json:"TTL"`
	Limit           flexInt `json:"limit"`
	Used            flexInt `json:"used"`
	NaturalLanguage string  `json:"naturalLanguage"`
}

type pricingResponse struct {
	envelope
	Pricing map[string]TLDPrice `json:"pricing"`
}

type checkDomainResponse struct {
	envelope
	Response *struct {
		Avail          string `json:"avail"`
		Type           string `json:"type"`
		Price          string `json:"price"`
		FirstYearPromo string `json:"firstYearPromo"`
		RegularPrice   string `json:"regularPrice"`
		Premium        string `json:"premium"`
	} `json:"response"`
	Limits *limitsBlock `json:"limits"`
}

type listDomainsResponse struct {
	envelope
	Domains *[]Domain `json:"domains"`
}

type dnsRecordsResponse struct {
	envelope
	Records *[]DNSRecord `json:"records"`
}

type dnsCreateResponse struct {
	envelope
	ID json.Number `json:"id"`
}

type urlForwardsResponse struct {
	envelope
	Forwards *[]URLForward `json:"forwards"`
}

type nameServersResponse struct {
	envelope
	NS *[]string `json:"ns"`
}

type pingResponse struct {
	envelope
	YourIP string `json:"yourIp"`
}

// decodeBody unmarshals body into out, reporting shape problems as ValidationError.
func decodeBody(endpoint Endpoint, body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return &ValidationError{Endpoint: endpoint.Name, Reason: "decode response: " + err.Error()}
	}
	return nil
}

func decodePricing(endpoint Endpoint, body []byte) (PricingTable, error) {
	var resp pricingResponse
	if err := decodeBody(endpoint, body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Pricing) == 0 {
		return nil, &ValidationError{Endpoint: endpoint.Name, Reason: "pricing table is missing or empty"}
	}
	table := make(PricingTable, len(resp.Pricing))
	for tld, price := range resp.Pricing {
		if strings.TrimSpace(price.Registration) == "" {
			return nil, &ValidationError{Endpoint: endpoint.Name, Reason: "missing registration price for " + tld}
		}
		table[strings.ToLower(tld)] = price
	}
	return table, nil
}

func decodeAvailability(endpoint Endpoint, domain string, body []byte) (Availability, error) {
	var resp checkDomainResponse
	if err := decodeBody(endpoint, body, &resp); err != nil {
		return Availability{}, err
	}
	if resp.Response == nil {
		return Availability{}, &ValidationError{Endpoint: endpoint.Name, Reason: "response object is missing"}
	}
	avail, err := yesNo(resp.Response.Avail)
	if err != nil {
		return Availability{}, &ValidationError{Endpoint: endpoint.Name, Reason: "avail: " + err.Error()}
	}
	premium, err := yesNo(resp.Response.Premium)
	if err != nil {
		return Availability{}, &ValidationError{Endpoint: endpoint.Name, Reason: "premium: " + err.Error()}
	}
	promo, _ := yesNo(resp.Response.FirstYearPromo)
	return Availability{
		Domain:         domain,
		Available:      avail,
		Premium:        premium,
		Price:          resp.Response.Price,
		RegularPrice:   resp.Response.RegularPrice,
		FirstYearPromo: promo,
		Type:           resp.Response.Type,
	}, nil
}

func decodeDomains(endpoint Endpoint, body []byte) ([]Domain, error) {
	var resp listDomainsResponse
	if err := decodeBody(endpoint, body, &resp); err != nil {
		return nil, err
	}
	if resp.Domains == nil {
		return nil, &ValidationError{Endpoint: endpoint.Name, Reason: "domains list is missing"}
	}
	return *resp.Domains, nil
}

func decodeDNSRecords(endpoint Endpoint, body []byte) ([]DNSRecord, error) {
	var resp dnsRecordsResponse
	if err := decodeBody(endpoint, body, &resp); err != nil {
		return nil, err
	}
	if resp.Records == nil {
		return nil, &ValidationError{Endpoint: endpoint.Name, Reason: "records list is missing"}
	}
	return *resp.Records, nil
}

func decodeDNSCreate(endpoint Endpoint, body []byte) (string, error) {
	var resp dnsCreateResponse
	if err := decodeBody(endpoint, body, &resp); err != nil {
		return "", err
	}
	if resp.ID.String() == "" {
		return "", &ValidationError{Endpoint: endpoint.Name, Reason: "created record id is missing"}
	}
	return resp.ID.String(), nil
}

func decodeURLForwards(endpoint Endpoint, body []byte) ([]URLForward, error) {
	var resp urlForwardsResponse
	if err := decodeBody(endpoint, body, &resp); err != nil {
		return nil, err
	}
	if resp.Forwards == nil {
		return nil, &ValidationError{Endpoint: endpoint.Name, Reason: "forwards list is missing"}
	}
	return *resp.Forwards, nil
}

func decodeNameServers(endpoint Endpoint, body []byte) ([]string, error) {
	var resp nameServersResponse
	if err := decodeBody(endpoint, body, &resp); err != nil {
		return nil, err
	}
	if resp.NS == nil {
		return nil, &ValidationError{Endpoint: endpoint.Name, Reason: "nameserver list is missing"}
	}
	return *resp.NS, nil
}

func decodePing(endpoint Endpoint, body []byte) (PingResult, error) {
	var resp pingResponse
	if err := decodeBody(endpoint, body, &resp); err != nil {
		return PingResult{}, err
	}
	if resp.Status != statusSuccess {
		return PingResult{}, &ValidationError{Endpoint: endpoint.Name, Reason: "unexpected status " + strconv.Quote(resp.Status)}
	}
	return PingResult{YourIP: resp.YourIP}, nil
}

func yesNo(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "1":
		return true, nil
	case "no", "n", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected value %q", value)
	}
}
