// ABOUTME: YAML encoding for stufflog files using yaml.v3 nodes.
// ABOUTME: Preserves entry insertion order under the mandatory Entries key.
package models

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	keyEntries  = "Entries"
	keyDatetime = "Datetime"
	keyRating   = "Rating"
	keyComment  = "Comment"
)

// ErrMissingEntries is returned when a document has no Entries key.
var ErrMissingEntries = errors.New("stufflog has no Entries key")

// Parse decodes a stufflog file. Blank input yields an empty stufflog.
func Parse(data []byte) (*Stufflog, error) {
	s := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return s, nil
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: stufflog must be a mapping", root.Line)
	}
	if err := root.Decode(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Encode renders the stufflog as YAML with two-space indentation.
func (s *Stufflog) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler.
func (s *Stufflog) MarshalYAML() (interface{}, error) {
	entries := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(s.Entries) == 0 {
		entries.Style = yaml.FlowStyle
	}
	for _, e := range s.Entries {
		entries.Content = append(entries.Content, strNode(e.Title), encodeEntry(e))
	}

	return &yaml.Node{
		Kind:    yaml.MappingNode,
		Tag:     "!!map",
		Content: []*yaml.Node{strNode(keyEntries), entries},
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Stufflog) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: stufflog must be a mapping", value.Line)
	}

	var entries *yaml.Node
	for i := 0; i+1 < len(value.Content); i += 2 {
		if value.Content[i].Value == keyEntries {
			entries = resolveAlias(value.Content[i+1])
		}
	}
	if entries == nil {
		return ErrMissingEntries
	}

	s.Entries = []Entry{}
	if entries.Kind == yaml.ScalarNode && entries.ShortTag() == "!!null" {
		return nil
	}
	if entries.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: Entries must be a mapping", entries.Line)
	}

	for i := 0; i+1 < len(entries.Content); i += 2 {
		e, problem := decodeEntry(entries.Content[i].Value, resolveAlias(entries.Content[i+1]))
		if problem != "" {
			s.warnings = append(s.warnings, problem)
		}
		s.put(e)
	}
	return nil
}

func encodeEntry(e Entry) *yaml.Node {
	if e.raw != nil {
		return e.raw
	}
	fields := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if e.Datetime != "" {
		dt := strNode(e.Datetime)
		dt.Style = yaml.DoubleQuotedStyle
		fields.Content = append(fields.Content, strNode(keyDatetime), dt)
	}
	fields.Content = append(fields.Content,
		strNode(keyRating),
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(e.Rating)},
	)
	if e.Comment != "" {
		fields.Content = append(fields.Content, strNode(keyComment), strNode(e.Comment))
	}
	return fields
}

// decodeEntry reads one entry. Fields that cannot be read leave their zero
// value, keep the original node for re-encoding, and are described in the
// returned problem.
func decodeEntry(title string, node *yaml.Node) (Entry, string) {
	e := Entry{Title: title}
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return e, ""
	}
	if node.Kind != yaml.MappingNode {
		e.raw = node
		return e, fmt.Sprintf("line %d: entry %q is not a mapping", node.Line, title)
	}

	var problems []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := resolveAlias(node.Content[i+1])
		if val.ShortTag() == "!!null" {
			continue
		}
		switch key {
		case keyDatetime, keyComment:
			if val.Kind != yaml.ScalarNode {
				problems = append(problems, fmt.Sprintf("%s is not a string", key))
				continue
			}
			if key == keyDatetime {
				e.Datetime = val.Value
			} else {
				e.Comment = val.Value
			}
		case keyRating:
			rating, ok := decodeRating(val)
			if !ok {
				problems = append(problems, fmt.Sprintf("Rating %q is not an integer", val.Value))
				continue
			}
			e.Rating = rating
		}
	}
	if len(problems) == 0 {
		return e, ""
	}
	e.raw = node
	return e, fmt.Sprintf("line %d: entry %q: %s", node.Line, title, strings.Join(problems, ", "))
}

// decodeRating accepts integers and integral floats such as 4.0.
func decodeRating(val *yaml.Node) (int, bool) {
	if val.Kind != yaml.ScalarNode {
		return 0, false
	}
	switch val.ShortTag() {
	case "!!int":
		var n int
		if err := val.Decode(&n); err != nil {
			return 0, false
		}
		return n, true
	case "!!float":
		f, err := strconv.ParseFloat(val.Value, 64)
		if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func strNode(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
