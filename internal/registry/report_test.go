package registry

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Iron-Ham/ownersync/internal/source"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "json", want: FormatJSON},
		{input: "yaml", want: FormatYAML},
		{input: "xml", wantErr: true},
		{input: "", wantErr: true},
		{input: "JSON", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q): %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestReporterDryRunJSON(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, FormatJSON)
	coords := source.Coordinates{Org: "acme", Repo: "widgets"}

	url := "https://registry.example.com/v1/namespaces/acme-ns/codeowners"
	if err := r.DryRun(url, coords, testPayload()); err != nil {
		t.Fatalf("DryRun: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Dry run",
		"acme/widgets",
		"POST " + url,
		`"a/OWNERS"`,
		`"kind": "project"`,
		`"value": "FOO"`,
		`"parent_uuid": "6a1f9c2e"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dry-run output missing %q:\n%s", want, out)
		}
	}
}

func TestReporterDryRunYAML(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, FormatYAML)
	coords := source.Coordinates{Org: "acme", Repo: "widgets"}

	if err := r.DryRun("https://registry.example.com/v1/namespaces/acme-ns/codeowners", coords, testPayload()); err != nil {
		t.Fatalf("DryRun: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"a/OWNERS",
		"kind: project",
		"value: FOO",
		"kind: component",
		"value: bar-svc",
		"namespace: acme-ns",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML dry-run output missing %q:\n%s", want, out)
		}
	}
}

func TestReporterSuccess(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, FormatJSON)
	coords := source.Coordinates{Org: "acme", Repo: "widgets"}

	r.Success(coords, testPayload())

	out := buf.String()
	if !strings.Contains(out, "Sync complete") {
		t.Errorf("success output missing summary line:\n%s", out)
	}
	if !strings.Contains(out, "acme/widgets") {
		t.Errorf("success output missing repository:\n%s", out)
	}
}
