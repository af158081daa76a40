package content

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKind is returned when a snapshot names a kind nobody registered.
var ErrUnknownKind = errors.New("unknown content kind")

// kindKey is the mapping key that carries the discriminant.
const kindKey = "type"

var (
	kindsMu sync.RWMutex
	kinds   = map[string]func() Entity{}
)

// RegisterKind makes kind decodable. factory returns a fresh, empty entity
// that YAML is decoded into. Registering a kind twice panics.
func RegisterKind(kind string, factory func() Entity) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	if _, dup := kinds[kind]; dup {
		panic(fmt.Sprintf("content: kind %q registered twice", kind))
	}
	kinds[kind] = factory
}

// Kinds lists the registered kind names.
func Kinds() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	return slices.Sorted(maps.Keys(kinds))
}

func factoryFor(kind string) (func() Entity, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	f, ok := kinds[kind]
	return f, ok
}

// MarshalYAML writes the entity's fields with a leading "type" key.
func (c Content) MarshalYAML() (any, error) {
	if c.entity == nil {
		return nil, errors.New("marshal empty content")
	}

	var node yaml.Node
	if err := node.Encode(c.entity); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", c.entity.Kind(), err)
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("kind %s must encode as a mapping", c.entity.Kind())
	}

	tag := []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: kindKey},
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: c.entity.Kind()},
	}
	node.Content = append(tag, node.Content...)
	return &node, nil
}

// UnmarshalYAML picks the entity type from the "type" key.
func (c *Content) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: content must be a mapping", node.Line)
	}

	kind := ""
	fields := &yaml.Node{Kind: yaml.MappingNode, Tag: node.Tag, Line: node.Line, Column: node.Column}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if k.Value == kindKey {
			kind = v.Value
			continue
		}
		fields.Content = append(fields.Content, k, v)
	}
	if kind == "" {
		return fmt.Errorf("line %d: content has no %q key", node.Line, kindKey)
	}

	factory, ok := factoryFor(kind)
	if !ok {
		return fmt.Errorf("line %d: %w: %q", node.Line, ErrUnknownKind, kind)
	}

	e := factory()
	if err := fields.Decode(e); err != nil {
		return fmt.Errorf("decoding %s: %w", kind, err)
	}
	c.entity = e
	return nil
}
