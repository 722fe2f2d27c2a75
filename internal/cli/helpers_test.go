package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"domainscout/internal/config"
	"domainscout/internal/testutil"
)

const testConfigTemplate = `version: 1
api:
  base_url: %q
  api_key: "pk_test"
  secret_key: "sk_test"
  timeout_ms: 2000
queue:
  max_retries: 0
  base_delay_ms: 1
pricing:
  conversion_rate: 100
  markup_percent: 0.1
search:
  tlds: ["com", "net", "io"]
`

// clearEnv blanks the environment overrides for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvAPIKey, "")
	t.Setenv(config.EnvSecretKey, "")
	t.Setenv(config.EnvBaseURL, "")
}

// writeConfigFile writes body to .domainscout/config.yml under a temp dir.
func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := config.ConfigPath(t.TempDir())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// upstreamConfig returns a config path pointing at a fresh fake upstream.
func upstreamConfig(t *testing.T) (*testutil.FakeUpstream, string) {
	t.Helper()
	clearEnv(t)
	up := testutil.NewFakeUpstream(t)
	return up, writeConfigFile(t, fmt.Sprintf(testConfigTemplate, up.URL()))
}

// runCLI runs the CLI with a timeout and returns exit code and output.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := -1
	testutil.RunWithTimeout(t, testutil.DefaultTimeout, func() {
		code = Run(args, &stdout, &stderr)
	})
	return code, stdout.String(), stderr.String()
}

func pricingBody() map[string]any {
	return map[string]any{
		"status": "SUCCESS",
		"pricing": map[string]any{
			"com": map[string]any{"registration": "9.68", "renewal": "10.37", "transfer": "9.68"},
			"net": map[string]any{"registration": "11.48", "renewal": "12.52", "transfer": "11.48"},
			"io":  map[string]any{"registration": "28.12", "renewal": "42.00", "transfer": "42.00"},
		},
	}
}

func availabilityBody(avail string, price string) map[string]any {
	return map[string]any{
		"status": "SUCCESS",
		"response": map[string]any{
			"avail":          avail,
			"type":           "registration",
			"price":          price,
			"regularPrice":   price,
			"firstYearPromo": "no",
			"premium":        "no",
		},
	}
}
