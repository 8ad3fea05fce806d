// Package payload assembles per-file parse results into the single document
// sent to the ownership registry. Assembly is pure: no filesystem or network
// side effects, and identical inputs always produce a structurally identical
// document, so dry-run output stays diffable across runs.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/ownersync/internal/owners"
	"github.com/Iron-Ham/ownersync/internal/source"
)

// Target identifies the registry destination for one sync.
type Target struct {
	Namespace   string
	ProjectUUID string
}

// Meta carries the registry's document metadata block.
type Meta struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	ParentKind  string `json:"parent_kind" yaml:"parent_kind"`
	ParentUUID  string `json:"parent_uuid" yaml:"parent_uuid"`
}

// TenantMeta scopes the document to a registry namespace.
type TenantMeta struct {
	Namespace string `json:"namespace" yaml:"namespace"`
}

// Spec wraps the path → declarations mapping.
type Spec struct {
	Patterns Patterns `json:"patterns" yaml:"patterns"`
}

// SyncPayload is the top-level document sent to the registry. It is built
// once per run and immutable after assembly; nothing is persisted locally.
type SyncPayload struct {
	Meta       Meta       `json:"meta" yaml:"meta"`
	Spec       Spec       `json:"spec" yaml:"spec"`
	TenantMeta TenantMeta `json:"tenant_meta" yaml:"tenant_meta"`
}

// Patterns is an insertion-ordered mapping from file path to that file's
// ownership entries. A plain map would serialize in randomized order;
// preserving enumeration order keeps the payload reproducible.
type Patterns struct {
	files []owners.FileOwnership
	index map[string]int
}

// Len returns the number of paths in the mapping.
func (p *Patterns) Len() int {
	return len(p.files)
}

// Files returns the mapping in insertion order.
func (p *Patterns) Files() []owners.FileOwnership {
	return p.files
}

// Get returns the entries recorded for path.
func (p *Patterns) Get(path string) ([]owners.Entry, bool) {
	i, ok := p.index[path]
	if !ok {
		return nil, false
	}
	return p.files[i].Entries, true
}

// add records a file's entries. A path can appear at most once; re-adding an
// existing path replaces its entries in place, keeping the original position.
func (p *Patterns) add(file owners.FileOwnership) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[file.Path]; ok {
		p.files[i] = file
		return
	}
	p.index[file.Path] = len(p.files)
	p.files = append(p.files, file)
}

// MarshalJSON serializes the mapping as a JSON object whose keys appear in
// insertion order.
func (p Patterns) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, file := range p.files {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(file.Path)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		entries, err := json.Marshal(file.Entries)
		if err != nil {
			return nil, err
		}
		buf.Write(entries)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON is intentionally unsupported: the payload is outbound only.
func (p *Patterns) UnmarshalJSON([]byte) error {
	return fmt.Errorf("patterns mapping is write-only")
}

// yamlEntry mirrors owners.Entry with the wire field names for YAML output.
type yamlEntry struct {
	Kind  string `yaml:"kind"`
	Value string `yaml:"value"`
}

// MarshalYAML serializes the mapping as a YAML map whose keys appear in
// insertion order, matching the JSON serialization.
func (p Patterns) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, file := range p.files {
		keyNode := &yaml.Node{}
		if err := keyNode.Encode(file.Path); err != nil {
			return nil, err
		}

		entries := make([]yamlEntry, 0, len(file.Entries))
		for _, e := range file.Entries {
			entries = append(entries, yamlEntry{Kind: e.Kind.String(), Value: e.Value})
		}
		valNode := &yaml.Node{}
		if err := valNode.Encode(entries); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// Assemble builds the SyncPayload from per-file parse results. Files that
// yielded no recognized entries are excluded from the mapping.
func Assemble(coords source.Coordinates, target Target, files []owners.FileOwnership) *SyncPayload {
	p := &SyncPayload{
		Meta: Meta{
			Name:        coords.Repo,
			Description: fmt.Sprintf("Code owner data for %s", coords.Repo),
			ParentKind:  "Project",
			ParentUUID:  target.ProjectUUID,
		},
		TenantMeta: TenantMeta{
			Namespace: target.Namespace,
		},
	}

	for _, file := range files {
		if len(file.Entries) == 0 {
			continue
		}
		p.Spec.Patterns.add(file)
	}

	return p
}
