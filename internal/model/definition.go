package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"

	"vidctl/internal/apierr"
	"vidctl/internal/nonempty"
)

// Definition is the ordered node graph of a pipeline. It always holds at
// least one node, node ids are unique, and every wire targets a node of the
// same definition.
type Definition struct {
	nodes nonempty.Slice[Node]
}

// NewDefinition validates nodes and builds a definition from them.
func NewDefinition(nodes ...Node) (Definition, error) {
	seq, err := nonempty.FromSlice(nodes)
	if err != nil {
		return Definition{}, fmt.Errorf("definition: %w", err)
	}
	seq, err = nonempty.Map(seq, func(_ int, n Node) (Node, error) { return n.clone(), nil })
	if err != nil {
		return Definition{}, err
	}
	d := Definition{nodes: seq}
	if err := d.validate(); err != nil {
		return Definition{}, err
	}
	return d, nil
}

// IsZero reports whether d is the unset zero value.
func (d Definition) IsZero() bool { return d.nodes.IsZero() }

func (d Definition) validate() error {
	if d.IsZero() {
		return apierr.InvalidCause("definition", fmt.Errorf("%w: no nodes", apierr.ErrEmptyCollection))
	}
	seen := make(map[string]struct{}, d.nodes.Len())
	for i, n := range d.nodes.All() {
		field := fmt.Sprintf("definition[%d]", i)
		if err := n.validate(); err != nil {
			return apierr.Within(field, err)
		}
		if _, dup := seen[n.ID]; dup {
			return apierr.Invalid(field+".id", fmt.Sprintf("duplicate node id %q", n.ID))
		}
		seen[n.ID] = struct{}{}
	}
	for i, n := range d.nodes.All() {
		for _, pad := range n.SourcePads() {
			for _, sink := range n.Wires[pad] {
				if _, ok := seen[sink.Node]; !ok {
					field := fmt.Sprintf("definition[%d].wires.%s", i, pad)
					return apierr.Invalid(field, fmt.Sprintf("destination node %q not found", sink.Node))
				}
			}
		}
	}
	return nil
}

// Len returns the number of nodes.
func (d Definition) Len() int { return d.nodes.Len() }

// First returns the first node.
func (d Definition) First() Node { return d.nodes.First().clone() }

// Nodes iterates over copies of the nodes in order.
func (d Definition) Nodes() iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		for i, n := range d.nodes.All() {
			if !yield(i, n.clone()) {
				return
			}
		}
	}
}

// Node returns a copy of the node with the given id.
func (d Definition) Node(id string) (Node, bool) {
	for n := range d.nodes.Values() {
		if n.ID == id {
			return n.clone(), true
		}
	}
	return Node{}, false
}

// Stringified renders the definition as a JSON array inside a string, the
// form deployment request bodies carry.
func (d Definition) Stringified() (string, error) {
	data, err := d.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d Definition) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.nodes)
}

// UnmarshalJSON accepts the node array itself or a JSON string holding it.
func (d *Definition) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return err
		}
		data = []byte(inner)
	}
	var nodes nonempty.Slice[Node]
	if err := json.Unmarshal(data, &nodes); err != nil {
		return fmt.Errorf("definition: %w", err)
	}
	parsed := Definition{nodes: nodes}
	if err := parsed.validate(); err != nil {
		return err
	}
	*d = parsed
	return nil
}
