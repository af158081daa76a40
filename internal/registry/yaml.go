package registry

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// entryDoc is the serialized form of one registry entry.
type entryDoc[T any] struct {
	Slot  uint64 `yaml:"slot"`
	Epoch uint64 `yaml:"epoch"`
	Refs  uint32 `yaml:"refs"`
	Value T      `yaml:"value"`
}

// registryDoc is the serialized form of a whole registry.
type registryDoc[T any] struct {
	Generation uint64        `yaml:"generation"`
	Entries    []entryDoc[T] `yaml:"entries"`
}

// MarshalYAML implements yaml.Marshaler. Entries are written in slot order so
// snapshots are stable across saves.
func (r *Registry[T]) MarshalYAML() (any, error) {
	doc := registryDoc[T]{
		Generation: r.generation,
		Entries:    make([]entryDoc[T], 0, len(r.items)),
	}
	for _, h := range r.Handles() {
		e := r.items[h]
		doc.Entries = append(doc.Entries, entryDoc[T]{
			Slot:  h.Slot,
			Epoch: h.Epoch,
			Refs:  e.refs,
			Value: e.value,
		})
	}
	return doc, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (r *Registry[T]) UnmarshalYAML(node *yaml.Node) error {
	var doc registryDoc[T]
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("decoding registry: %w", err)
	}

	items := make(map[Handle[T]]*entry[T], len(doc.Entries))
	for i, e := range doc.Entries {
		if e.Slot >= doc.Generation {
			return fmt.Errorf("registry entry %d: slot %d is beyond generation %d", i, e.Slot, doc.Generation)
		}
		h := Handle[T]{Slot: e.Slot, Epoch: e.Epoch}
		if _, dup := items[h]; dup {
			return fmt.Errorf("registry entry %d: duplicate handle %s", i, h)
		}
		items[h] = &entry[T]{value: e.Value, epoch: e.Epoch, refs: e.Refs}
	}

	r.items = items
	r.generation = doc.Generation
	return nil
}
