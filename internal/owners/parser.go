// Package owners extracts issue-tracker ownership directives from OWNERS
// files. The grammar is line-oriented: each line is inspected independently,
// a directive has the form `name = "value"` or `name: 'value'`, and anything
// else in the file (reviewer lists, approver blocks, comments) is outside
// this tool's concern and ignored.
package owners

import (
	"strings"

	"github.com/Iron-Ham/ownersync/internal/errors"
	"github.com/Iron-Ham/ownersync/internal/logging"
)

// directives is the fixed set of recognized directive names. Matching is
// case-sensitive.
var directives = map[string]Kind{
	"jira-project":   KindProject,
	"jira-component": KindComponent,
}

// ParseFile parses the raw text of one OWNERS file into a FileOwnership.
// Malformed directive lines are skipped with a debug diagnostic; one bad
// line never aborts the rest of the file.
func ParseFile(path string, content []byte, logger *logging.Logger) FileOwnership {
	if logger == nil {
		logger = logging.NopLogger()
	}

	result := FileOwnership{Path: path}

	// Lines are split directly rather than scanned so a single oversized
	// line cannot stop processing of the lines after it.
	for i, line := range strings.Split(string(content), "\n") {
		entry, matched, err := parseLine(strings.TrimSuffix(line, "\r"))
		if err != nil {
			perr := err.WithFile(path).WithLine(i + 1)
			logger.Debug("skipping malformed directive line", "error", perr.Error())
			continue
		}
		if matched {
			result.Entries = append(result.Entries, entry)
		}
	}

	return result
}

// Parse parses OWNERS file text without per-line diagnostics.
func Parse(content []byte) []Entry {
	return ParseFile("", content, logging.NopLogger()).Entries
}

// parseLine inspects a single line. It returns the parsed entry and
// matched=true for a well-formed directive, matched=false for lines outside
// the grammar (ignored silently), and a ParseError for lines that name a
// recognized directive but carry malformed quoting.
func parseLine(line string) (Entry, bool, *errors.ParseError) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Entry{}, false, nil
	}

	// Split on the first separator. Directive names contain neither '=' nor
	// ':' so the first occurrence is authoritative.
	sep := strings.IndexAny(trimmed, "=:")
	if sep < 0 {
		return Entry{}, false, nil
	}

	name := strings.TrimSpace(trimmed[:sep])
	kind, ok := directives[name]
	if !ok {
		return Entry{}, false, nil
	}

	value, err := unquote(strings.TrimSpace(trimmed[sep+1:]))
	if err != nil {
		return Entry{}, false, err
	}

	return Entry{Kind: kind, Value: value}, true, nil
}

// unquote strips matching single or double quotes from s. The quotes are
// mandatory; a missing, unterminated, or mismatched quote is a ParseError.
// A trailing comment after the closing quote is tolerated.
func unquote(s string) (string, *errors.ParseError) {
	if s == "" {
		return "", errors.NewParseError("missing quoted value")
	}

	quote := s[0]
	if quote != '\'' && quote != '"' {
		return "", errors.NewParseError("value is not quoted")
	}

	end := strings.IndexByte(s[1:], quote)
	if end < 0 {
		return "", errors.NewParseError("unterminated quote")
	}
	end++ // index into s

	rest := strings.TrimSpace(s[end+1:])
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return "", errors.NewParseError("trailing content after closing quote")
	}

	return s[1:end], nil
}
