package owners

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which issue-tracker reference a directive declares.
type Kind int

const (
	// KindProject is an issue-tracker project reference (jira-project).
	KindProject Kind = iota
	// KindComponent is an issue-tracker component reference (jira-component).
	KindComponent
)

// String returns the wire representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindComponent:
		return "component"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the kind as its wire name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON parses a kind from its wire name.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "project":
		*k = KindProject
	case "component":
		*k = KindComponent
	default:
		return fmt.Errorf("unknown ownership kind %q", s)
	}
	return nil
}

// Entry is one ownership declaration found in one OWNERS file: the directive
// kind plus its value with the surrounding quotes stripped. Entries are value
// types; once parsed they are folded into the payload and discarded.
type Entry struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// FileOwnership holds all entries found in one OWNERS file, keyed by the
// file's repository-relative path. Entries preserve file-appearance order;
// the order carries no meaning but keeps dry-run output diffable.
type FileOwnership struct {
	Path    string
	Entries []Entry
}
