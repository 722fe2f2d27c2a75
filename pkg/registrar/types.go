// Package registrar is a rate-aware, cached, retrying client for the registrar JSON API.
package registrar

import (
	"encoding/json"
	"time"
)

// Endpoint identifies an upstream operation.
//
// Name groups calls for rate-limit accounting (for example "domain/checkDomain"),
// while Path is the concrete URL suffix sent upstream.
type Endpoint struct {
	Name string
	Path string
}

// String returns the concrete path.
func (e Endpoint) String() string {
	return e.Path
}

// Upstream endpoint constructors.
var (
	EndpointPing    = Endpoint{Name: "ping", Path: "ping"}
	EndpointPricing = Endpoint{Name: "pricing/get", Path: "pricing/get"}
)

// EndpointCheckDomain returns the availability endpoint for domain.
func EndpointCheckDomain(domain string) Endpoint {
	return Endpoint{Name: "domain/checkDomain", Path: "domain/checkDomain/" + domain}
}

// EndpointListDomains returns the domain listing endpoint.
func EndpointListDomains() Endpoint {
	return Endpoint{Name: "domain/listAll", Path: "domain/listAll"}
}

// EndpointDNSRetrieve returns the DNS record read endpoint for domain.
func EndpointDNSRetrieve(domain string) Endpoint {
	return Endpoint{Name: "dns/retrieve", Path: "dns/retrieve/" + domain}
}

// EndpointDNSCreate returns the DNS record create endpoint for domain.
func EndpointDNSCreate(domain string) Endpoint {
	return Endpoint{Name: "dns/create", Path: "dns/create/" + domain}
}

// EndpointURLForwards returns the URL-forwarding read endpoint for domain.
func EndpointURLForwards(domain string) Endpoint {
	return Endpoint{Name: "domain/getUrlForwarding", Path: "domain/getUrlForwarding/" + domain}
}

// EndpointNameServers returns the nameserver read endpoint for domain.
func EndpointNameServers(domain string) Endpoint {
	return Endpoint{Name: "domain/getNs", Path: "domain/getNs/" + domain}
}

// Credentials authenticate every upstream call. Both fields travel in the request body.
type Credentials struct {
	APIKey    string
	SecretKey string
}

// Response is a successful upstream reply.
type Response struct {
	Body      json.RawMessage
	RateLimit *RateLimitInfo
}

// RateLimitInfo is rate-limit metadata reported by the upstream.
type RateLimitInfo struct {
	Remaining int
	Limit     int
	ResetTime time.Time
}

// TLDPrice holds upstream USD prices for a TLD, as strings exactly as reported.
type TLDPrice struct {
	Registration string `json:"registration"`
	Renewal      string `json:"renewal"`
	Transfer     string `json:"transfer"`
	Coupons      any    `json:"coupons,omitempty"`
}

// PricingTable maps a TLD (without dot) to its prices.
type PricingTable map[string]TLDPrice

// Availability is the result of a single-domain availability check.
type Availability struct {
	Domain         string `json:"domain"`
	Available      bool   `json:"available"`
	Premium        bool   `json:"premium"`
	Price          string `json:"price"`
	RegularPrice   string `json:"regularPrice"`
	FirstYearPromo bool   `json:"firstYearPromo"`
	Type           string `json:"type"`
}

// DomainLabel is a user-defined label attached to a domain.
type DomainLabel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// Domain is an entry of the account's domain listing.
type Domain struct {
	Domain       string        `json:"domain"`
	Status       string        `json:"status"`
	TLD          string        `json:"tld"`
	CreateDate   string        `json:"createDate"`
	ExpireDate   string        `json:"expireDate"`
	SecurityLock FlexBool      `json:"securityLock"`
	WhoisPrivacy FlexBool      `json:"whoisPrivacy"`
	AutoRenew    FlexBool      `json:"autoRenew"`
	NotLocal     FlexBool      `json:"notLocal"`
	Labels       []DomainLabel `json:"labels,omitempty"`
}

// DNSRecord is a DNS record as stored upstream.
type DNSRecord struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     string `json:"ttl,omitempty"`
	Prio    string `json:"prio,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// NewDNSRecord describes a record to create. Name is the subdomain part; empty means the apex.
type NewDNSRecord struct {
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     string `json:"ttl,omitempty"`
	Prio    string `json:"prio,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// URLForward is a configured URL forward.
type URLForward struct {
	ID          string   `json:"id"`
	Subdomain   string   `json:"subdomain"`
	Location    string   `json:"location"`
	Type        string   `json:"type"`
	IncludePath FlexBool `json:"includePath"`
	Wildcard    FlexBool `json:"wildcard"`
}

// PingResult reports the caller address seen by the upstream.
type PingResult struct {
	YourIP string `json:"yourIp"`
}
