package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSONSchema projects the node tree into a JSON-Schema document (draft
// 2020-12 subset) used for local validation of parsed model replies.
// Validation is structural only (types, required fields, enums); the
// free-text Description guidance is intentionally not enforced here, so a
// reply the model formatted correctly is never rejected over semantics the
// remote service already vouched for.
func (n *Node) JSONSchema() map[string]any {
	m := map[string]any{}
	if n.Description != "" {
		m["description"] = n.Description
	}

	setType := func(t string) {
		if n.Nullable {
			m["type"] = []string{t, "null"}
		} else {
			m["type"] = t
		}
	}

	switch n.Kind {
	case KindObject:
		setType("object")
		props := make(map[string]any, len(n.Properties))
		for _, p := range n.Properties {
			props[p.Name] = p.Node.JSONSchema()
		}
		m["properties"] = props
		if len(n.Required) > 0 {
			m["required"] = n.Required
		}
	case KindArray:
		setType("array")
		m["items"] = n.Items.JSONSchema()
	case KindString:
		setType("string")
		if len(n.Enum) > 0 {
			m["enum"] = n.Enum
		}
	}

	return m
}

// Compile builds the local validator from the JSONSchema projection.
func (n *Node) Compile() (*jsonschema.Schema, error) {
	b, err := json.Marshal(n.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile("analysis.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}
