// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package layout

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// DumpEntry is the serialized form of one Element.
type DumpEntry struct {
	Kind        string      `json:"kind" yaml:"kind"`
	Text        string      `json:"text,omitempty" yaml:"text,omitempty"`
	Name        string      `json:"name,omitempty" yaml:"name,omitempty"`
	BBox        *BBox       `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	InlineWidth int         `json:"inline_width,omitempty" yaml:"inline_width,omitempty"`
	Base        *DumpEntry  `json:"base,omitempty" yaml:"base,omitempty"`
	Children    []DumpEntry `json:"children,omitempty" yaml:"children,omitempty"`
}

// Describe converts a sequence into dump entries.
func Describe(elems []Element) []DumpEntry {
	out := make([]DumpEntry, 0, len(elems))
	for _, e := range elems {
		switch v := e.(type) {
		case *Primitive:
			out = append(out, describePrimitive(v))
		case *Cluster:
			base := describePrimitive(v.Base)
			entry := DumpEntry{
				Kind:        "cluster",
				InlineWidth: v.InlineWidth(),
				Base:        &base,
			}
			for _, c := range v.Children {
				entry.Children = append(entry.Children, describePrimitive(c))
			}
			out = append(out, entry)
		}
	}
	return out
}

func describePrimitive(p *Primitive) DumpEntry {
	box := p.BBox
	return DumpEntry{
		Kind: Classify(p).String(),
		Text: p.Text,
		Name: p.Name,
		BBox: &box,
	}
}

// DumpYAML renders the sequence as YAML, for inspecting grouping decisions.
func DumpYAML(elems []Element) ([]byte, error) {
	data, err := yaml.Marshal(Describe(elems))
	if err != nil {
		return nil, fmt.Errorf("marshaling layout: %w", err)
	}
	return data, nil
}
