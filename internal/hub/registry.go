package hub

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrParse wraps every structural problem in the registry document.
var ErrParse = errors.New("parse registry")

// SourceValue is either a single source URL or a list of them.
type SourceValue struct {
	single string
	many   []string
	isList bool
}

// Single returns a SourceValue holding one URL.
func Single(url string) SourceValue {
	return SourceValue{single: url}
}

// Many returns a SourceValue holding a list of URLs.
func Many(urls ...string) SourceValue {
	return SourceValue{many: urls, isList: true}
}

// IsList reports whether the value was written as a list.
func (v SourceValue) IsList() bool {
	return v.isList
}

// URLs returns the source URLs in document order.
func (v SourceValue) URLs() []string {
	if v.isList {
		return v.many
	}
	return []string{v.single}
}

// UnmarshalYAML accepts a string scalar or a sequence of string scalars.
func (v *SourceValue) UnmarshalYAML(node *yaml.Node) error {
	switch {
	case isString(node):
		*v = Single(node.Value)
		return nil
	case node.Kind == yaml.SequenceNode:
		urls := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if !isString(item) {
				return fmt.Errorf("line %d: list items must be strings, got %s", item.Line, describe(item))
			}
			urls = append(urls, item.Value)
		}
		*v = Many(urls...)
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings, got %s", node.Line, describe(node))
	}
}

func isString(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!str"
}

func describe(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.AliasNode:
		return "an alias"
	case yaml.ScalarNode:
		return strings.TrimPrefix(node.ShortTag(), "!!")
	default:
		return "unknown node"
	}
}

// TypeSources is one registry key and its value.
type TypeSources struct {
	Type    string
	Sources SourceValue
}

// Registry is the parsed registry in document order.
type Registry struct {
	Types []TypeSources
}

// Entry is one (type, source URL) pair.
type Entry struct {
	Type      string
	SourceURL string
}

// Parse decodes registry YAML. An empty document is an empty registry.
func Parse(data []byte) (*Registry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return &Registry{}, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return &Registry{}, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping of type to sources, got %s", ErrParse, describe(root))
	}

	reg := &Registry{Types: make([]TypeSources, 0, len(root.Content)/2)}
	seen := make(map[string]bool, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if !isString(key) {
			return nil, fmt.Errorf("%w: line %d: type must be a string, got %s", ErrParse, key.Line, describe(key))
		}
		if seen[key.Value] {
			return nil, fmt.Errorf("%w: line %d: duplicate type %q", ErrParse, key.Line, key.Value)
		}
		seen[key.Value] = true

		var sources SourceValue
		if err := value.Decode(&sources); err != nil {
			return nil, fmt.Errorf("%w: type %q: %w", ErrParse, key.Value, err)
		}
		reg.Types = append(reg.Types, TypeSources{Type: key.Value, Sources: sources})
	}
	return reg, nil
}

// Flatten returns one Entry per source URL. With a non-empty filter, only
// types matching one of the filters case-insensitively are kept.
func (r *Registry) Flatten(filters []string) []Entry {
	allowed := make(map[string]bool, len(filters))
	for _, f := range filters {
		allowed[strings.ToLower(f)] = true
	}

	var entries []Entry
	for _, ts := range r.Types {
		if len(allowed) > 0 && !allowed[strings.ToLower(ts.Type)] {
			continue
		}
		for _, u := range ts.Sources.URLs() {
			entries = append(entries, Entry{Type: ts.Type, SourceURL: u})
		}
	}
	return entries
}

// SplitFilters splits command-line type arguments on commas and whitespace,
// so "nvim,tmux" and "nvim tmux" are equivalent.
func SplitFilters(args []string) []string {
	var out []string
	for _, a := range args {
		out = append(out, strings.FieldsFunc(a, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})...)
	}
	return out
}
