package registry

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/ownersync/internal/errors"
	"github.com/Iron-Ham/ownersync/internal/payload"
	"github.com/Iron-Ham/ownersync/internal/source"
	"github.com/Iron-Ham/ownersync/internal/util"
)

// maxFieldWidth caps summary field values so a pathological remote URL or
// repository name cannot wrap the report header.
const maxFieldWidth = 120

// Format selects the serialization used for dry-run payload previews.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (valid: json, yaml)", s)
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A78BFA"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F9FAFB"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))
)

// Reporter writes human-readable run summaries. Dry-run reports include the
// full payload so the output can be inspected or diffed before a live sync.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a Reporter writing to out in the given format.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// DryRun prints the request that a live run would send, without sending it.
func (r *Reporter) DryRun(url string, coords source.Coordinates, p *payload.SyncPayload) error {
	fmt.Fprintln(r.out, headerStyle.Render("Dry run: no changes sent"))
	r.field("Repository", coords.String())
	r.field("Endpoint", "POST "+url)
	r.field("Files", fmt.Sprintf("%d", p.Spec.Patterns.Len()))
	fmt.Fprintln(r.out)

	rendered, err := r.renderPayload(p)
	if err != nil {
		return errors.Wrap(err, "render payload")
	}
	fmt.Fprintln(r.out, string(rendered))
	return nil
}

// Success prints the summary for a completed live sync.
func (r *Reporter) Success(coords source.Coordinates, p *payload.SyncPayload) {
	fmt.Fprintln(r.out, successStyle.Render("Sync complete"))
	r.field("Repository", coords.String())
	r.field("Files", fmt.Sprintf("%d", p.Spec.Patterns.Len()))
}

func (r *Reporter) field(label, value string) {
	fmt.Fprintf(r.out, "%s %s\n", labelStyle.Render(label+":"), util.TruncateANSI(valueStyle.Render(value), maxFieldWidth))
}

func (r *Reporter) renderPayload(p *payload.SyncPayload) ([]byte, error) {
	switch r.format {
	case FormatYAML:
		return yaml.Marshal(p)
	default:
		return json.MarshalIndent(p, "", "  ")
	}
}
