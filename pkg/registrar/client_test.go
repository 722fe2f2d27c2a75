package registrar

import (
	"context"
	"errors"
	"testing"
	"time"

	"domainscout/internal/testutil"
)

func availableBody() map[string]any {
	return map[string]any{
		"status": "SUCCESS",
		"response": map[string]any{
			"avail":          "yes",
			"type":           "registration",
			"price":          "9.68",
			"firstYearPromo": "no",
			"regularPrice":   "9.68",
			"premium":        "no",
		},
	}
}

func newUpstreamClient(t *testing.T, up *testutil.FakeUpstream, clock *testutil.FakeClock, extra ...Option) *Client {
	t.Helper()
	queue := QueueOptions{Sleep: testutil.NewFakeSleeper(clock).Sleep}
	if clock != nil {
		queue.Now = clock.Now
	}
	opts := append([]Option{
		WithBaseURL(up.URL()),
		WithTimeout(time.Second),
		WithLogger(discardLogger()),
		WithQueueOptions(queue),
	}, extra...)
	client, err := NewClient(testCreds, opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	return client
}

func TestNewClientRequiresCredentials(t *testing.T) {
	for _, creds := range []Credentials{{}, {APIKey: "pk"}, {SecretKey: "sk"}, {APIKey: " ", SecretKey: "sk"}} {
		if _, err := NewClient(creds); !errors.Is(err, ErrMissingCredentials) {
			t.Fatalf("expected ErrMissingCredentials for %+v, got %v", creds, err)
		}
	}
}

func TestCheckAvailabilityIsCached(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.ReplyJSON("domain/checkDomain/x.com", availableBody())
	clock := testutil.NewFakeClock(testStart)
	client := newUpstreamClient(t, up, clock)
	ctx := testutil.Context(t, 0)

	for range 2 {
		avail, err := client.CheckAvailability(ctx, "X.com")
		if err != nil {
			t.Fatalf("check: %v", err)
		}
		if !avail.Available || avail.Premium || avail.Price != "9.68" || avail.Domain != "x.com" {
			t.Fatalf("unexpected availability %+v", avail)
		}
	}
	if calls := up.Calls("domain/checkDomain/x.com"); calls != 1 {
		t.Fatalf("expected one upstream call, got %d", calls)
	}

	clock.Advance(61 * time.Second)
	if _, err := client.CheckAvailability(ctx, "x.com"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if calls := up.Calls("domain/checkDomain/x.com"); calls != 2 {
		t.Fatalf("expected refetch after ttl, got %d calls", calls)
	}
}

func TestValidationFailuresAreNotCached(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.ReplyJSON("pricing/get", map[string]any{"status": "SUCCESS"})
	client := newUpstreamClient(t, up, nil)
	ctx := testutil.Context(t, 0)

	for range 2 {
		_, err := client.GetPricing(ctx)
		var valErr *ValidationError
		if !errors.As(err, &valErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	}
	if calls := up.Calls("pricing/get"); calls != 2 {
		t.Fatalf("expected each call to reach upstream, got %d", calls)
	}
	if stats := client.Status().Cache; stats.Total != 0 {
		t.Fatalf("expected nothing cached, got %+v", stats)
	}
}

func TestGetPricingNormalizesTLDs(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.ReplyJSON("pricing/get", map[string]any{
		"status": "SUCCESS",
		"pricing": map[string]any{
			"COM": map[string]any{"registration": "9.68", "renewal": "9.68", "transfer": "9.68"},
			"io":  map[string]any{"registration": "28.12", "renewal": "42.00", "transfer": "42.00"},
		},
	})
	client := newUpstreamClient(t, up, nil)

	table, err := client.GetPricing(testutil.Context(t, 0))
	if err != nil {
		t.Fatalf("pricing: %v", err)
	}
	if table["com"].Registration != "9.68" || table["io"].Renewal != "42.00" {
		t.Fatalf("unexpected table %+v", table)
	}
}

func TestCreateDNSRecordInvalidatesRecords(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.ReplyJSON("dns/retrieve/x.com", map[string]any{
		"status":  "SUCCESS",
		"records": []map[string]any{{"id": "1", "name": "x.com", "type": "A", "content": "203.0.113.1", "ttl": "600"}},
	})
	up.ReplyJSON("dns/create/x.com", map[string]any{"status": "SUCCESS", "id": 123456})
	client := newUpstreamClient(t, up, nil)
	ctx := testutil.Context(t, 0)

	records, err := client.GetDNSRecords(ctx, "x.com")
	if err != nil || len(records) != 1 || records[0].Content != "203.0.113.1" {
		t.Fatalf("unexpected records %+v %v", records, err)
	}
	if _, err := client.GetDNSRecords(ctx, "x.com"); err != nil {
		t.Fatalf("records: %v", err)
	}
	id, err := client.CreateDNSRecord(ctx, "x.com", NewDNSRecord{Name: "www", Type: "CNAME", Content: "x.com", TTL: "600"})
	if err != nil || id != "123456" {
		t.Fatalf("create: %q %v", id, err)
	}
	if _, err := client.GetDNSRecords(ctx, "x.com"); err != nil {
		t.Fatalf("records: %v", err)
	}
	if calls := up.Calls("dns/retrieve/x.com"); calls != 2 {
		t.Fatalf("expected refetch after create, got %d calls", calls)
	}
	created := up.Requests()[1].Body
	if created["type"] != "CNAME" || created["name"] != "www" {
		t.Fatalf("unexpected create payload %v", created)
	}
}

func TestCreateDNSRecordValidatesInput(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	client := newUpstreamClient(t, up, nil)
	if _, err := client.CreateDNSRecord(context.Background(), "x.com", NewDNSRecord{Type: "A"}); err == nil {
		t.Fatalf("expected missing content error")
	}
	if _, err := client.CreateDNSRecord(context.Background(), "x.com", NewDNSRecord{Type: "A", Content: "1.2.3.4", TTL: "soon"}); err == nil {
		t.Fatalf("expected ttl error")
	}
	if len(up.Requests()) != 0 {
		t.Fatalf("invalid records must not reach upstream")
	}
}

func TestListDomainsAndReads(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.ReplyJSON("domain/listAll", map[string]any{
		"status": "SUCCESS",
		"domains": []map[string]any{{
			"domain": "x.com", "status": "ACTIVE", "tld": "com", "autoRenew": 1, "securityLock": "1", "whoisPrivacy": "0",
		}},
	})
	up.ReplyJSON("domain/getUrlForwarding/x.com", map[string]any{
		"status":   "SUCCESS",
		"forwards": []map[string]any{{"id": "9", "subdomain": "", "location": "https://example.org", "type": "permanent", "includePath": "no", "wildcard": "yes"}},
	})
	up.ReplyJSON("domain/getNs/x.com", map[string]any{"status": "SUCCESS", "ns": []string{"ns1.example.net", "ns2.example.net"}})
	client := newUpstreamClient(t, up, nil)
	ctx := testutil.Context(t, 0)

	domains, err := client.ListDomains(ctx, 0, true)
	if err != nil || len(domains) != 1 || !bool(domains[0].AutoRenew) || bool(domains[0].WhoisPrivacy) {
		t.Fatalf("unexpected domains %+v %v", domains, err)
	}
	if body := up.Requests()[0].Body; body["start"] != "0" || body["includeLabels"] != "yes" {
		t.Fatalf("unexpected list payload %v", body)
	}
	forwards, err := client.GetURLForwards(ctx, "x.com")
	if err != nil || len(forwards) != 1 || !bool(forwards[0].Wildcard) || bool(forwards[0].IncludePath) {
		t.Fatalf("unexpected forwards %+v %v", forwards, err)
	}
	ns, err := client.GetNameServers(ctx, "x.com")
	if err != nil || len(ns) != 2 {
		t.Fatalf("unexpected nameservers %v %v", ns, err)
	}
	if stats := client.Status().Cache; stats.Active != 3 {
		t.Fatalf("expected three cached reads, got %+v", stats)
	}
	client.ClearCache()
	if stats := client.Status().Cache; stats.Total != 0 {
		t.Fatalf("expected cleared cache, got %+v", stats)
	}
}

func TestPingIsNeverCached(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.ReplyJSON("ping", map[string]any{"status": "SUCCESS", "yourIp": "203.0.113.9"})
	client := newUpstreamClient(t, up, nil)
	ctx := testutil.Context(t, 0)

	for range 2 {
		res, err := client.Ping(ctx)
		if err != nil || res.YourIP != "203.0.113.9" {
			t.Fatalf("unexpected ping %+v %v", res, err)
		}
	}
	if calls := up.Calls("ping"); calls != 2 {
		t.Fatalf("expected two upstream pings, got %d", calls)
	}
}

func TestUpstreamErrorsPropagate(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.ReplyJSON("domain/getNs/x.com", map[string]any{"status": "ERROR", "message": "Domain is not opted in to API access."})
	client := newUpstreamClient(t, up, nil)

	_, err := client.GetNameServers(testutil.Context(t, 0), "x.com")
	var apiErr *UpstreamAPIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Domain is not opted in to API access." {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if ErrorKind(err) != "upstream_error" {
		t.Fatalf("unexpected kind %s", ErrorKind(err))
	}
}

type countingCacheObserver struct {
	hits, misses map[string]int
}

func (c *countingCacheObserver) OnCacheHit(class string) { c.hits[class]++ }
func (c *countingCacheObserver) OnCacheMiss(class string) { c.misses[class]++ }

func TestClientReportsCacheLookups(t *testing.T) {
	up := testutil.NewFakeUpstream(t)
	up.ReplyJSON("domain/checkDomain/x.com", availableBody())
	obs := &countingCacheObserver{hits: map[string]int{}, misses: map[string]int{}}
	client := newUpstreamClient(t, up, nil, WithCacheObserver(obs))
	ctx := testutil.Context(t, 0)

	for range 3 {
		if _, err := client.CheckAvailability(ctx, "x.com"); err != nil {
			t.Fatalf("check: %v", err)
		}
	}
	if obs.misses["domain-check"] != 1 || obs.hits["domain-check"] != 2 {
		t.Fatalf("unexpected lookups hits=%v misses=%v", obs.hits, obs.misses)
	}
}
