package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func writePublishersFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}
	return path
}

func TestLoadRegistry(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_TOKEN", "secret-token")
	path := writePublishersFile(t, `
publishers:
  - id: site-webhook
    type: http
    http:
      url: https://hooks.example.com/news
      headers:
        Authorization: Bearer ${TEST_WEBHOOK_TOKEN}
  - id: snapshot-sqs
    type: queue
    enabled: false
    queue:
      provider: aws-sqs
      sqs:
        uri: https://sqs.us-east-1.amazonaws.com/123/news
        region: us-east-1
        access_key_id: AKIAEXAMPLE
        secret_access_key: examplesecret
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}

	if got := len(reg.All()); got != 2 {
		t.Fatalf("All returned %d configs, want 2", got)
	}

	webhook, ok := reg.ByID("site-webhook")
	if !ok {
		t.Fatal("site-webhook not found")
	}
	if webhook.HTTP == nil {
		t.Fatal("webhook http config missing")
	}
	if webhook.HTTP.Method != "POST" {
		t.Errorf("Method = %q, want default POST", webhook.HTTP.Method)
	}
	if webhook.HTTP.TimeoutSeconds != 5 {
		t.Errorf("TimeoutSeconds = %d, want default 5", webhook.HTTP.TimeoutSeconds)
	}
	if got := webhook.HTTP.Headers["Authorization"]; got != "Bearer secret-token" {
		t.Errorf("Authorization header = %q, env not expanded", got)
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "site-webhook" {
		t.Errorf("Enabled = %+v, want only site-webhook", enabled)
	}
}

func TestLoadRegistryRejectsInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no publishers", "publishers: []\n"},
		{"missing id", `
publishers:
  - type: http
    http:
      url: https://hooks.example.com/news
`},
		{"unknown type", `
publishers:
  - id: x
    type: carrier-pigeon
`},
		{"http without url", `
publishers:
  - id: x
    type: http
    http:
      method: POST
`},
		{"queue without provider config", `
publishers:
  - id: x
    type: queue
    queue:
      provider: aws-sqs
`},
		{"sqs missing credentials", `
publishers:
  - id: x
    type: queue
    queue:
      provider: aws-sqs
      sqs:
        uri: https://sqs.us-east-1.amazonaws.com/123/news
        region: us-east-1
`},
		{"duplicate id", `
publishers:
  - id: x
    type: http
    http:
      url: https://hooks.example.com/a
  - id: x
    type: http
    http:
      url: https://hooks.example.com/b
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writePublishersFile(t, tc.content)
			if _, err := LoadRegistry(path); err == nil {
				t.Error("LoadRegistry accepted invalid config")
			}
		})
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	content := `{
  "publishers": [
    {"id": "hook", "type": "http", "http": {"url": "https://hooks.example.com/news"}}
  ]
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry failed: %v", err)
	}
	if _, ok := reg.ByID("hook"); !ok {
		t.Error("hook publisher not found")
	}
}
