package schema

import "google.golang.org/genai"

// GenAI projects the node tree into the SDK schema sent to the model as
// its structured-output constraint. This projection is only ever used on
// the wire; local validation goes through JSONSchema/Compile instead.
func (n *Node) GenAI() *genai.Schema {
	s := &genai.Schema{Description: n.Description}
	if n.Nullable {
		s.Nullable = genai.Ptr(true)
	}

	switch n.Kind {
	case KindObject:
		s.Type = genai.TypeObject
		if len(n.Properties) > 0 {
			s.Properties = make(map[string]*genai.Schema, len(n.Properties))
			s.PropertyOrdering = make([]string, 0, len(n.Properties))
			for _, p := range n.Properties {
				s.Properties[p.Name] = p.Node.GenAI()
				s.PropertyOrdering = append(s.PropertyOrdering, p.Name)
			}
		}
		s.Required = n.Required
	case KindArray:
		s.Type = genai.TypeArray
		s.Items = n.Items.GenAI()
	case KindString:
		s.Type = genai.TypeString
		s.Enum = n.Enum
	}

	return s
}
