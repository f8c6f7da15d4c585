package schema

// Kind enumerates the structural types the extraction schema can express.
type Kind int

const (
	KindObject Kind = iota
	KindArray
	KindString
)

// Node is a declarative description of one field in the extraction contract.
// The same tree is projected two independent ways: GenAI() produces the
// structured-output constraint sent to the model, JSONSchema()/Compile()
// produce the local validator applied to parsed replies. Keeping both
// projections on one tree means local validation can never silently drift
// from what the model was asked to return.
type Node struct {
	Kind        Kind
	Description string
	Nullable    bool
	Enum        []string
	Properties  []Property // ordered; order is preserved in the model-facing schema
	Required    []string
	Items       *Node
}

// Property is a named child of an object node.
type Property struct {
	Name string
	Node *Node
}

// Object creates an object node from ordered properties.
func Object(props ...Property) *Node {
	return &Node{Kind: KindObject, Properties: props}
}

// Array creates an array node with the given item schema.
func Array(items *Node) *Node {
	return &Node{Kind: KindArray, Items: items}
}

// String creates a plain string node.
func String() *Node {
	return &Node{Kind: KindString}
}

// Enum creates a string node constrained to the given values.
func Enum(values ...string) *Node {
	return &Node{Kind: KindString, Enum: values}
}

// Prop pairs a property name with its schema.
func Prop(name string, node *Node) Property {
	return Property{Name: name, Node: node}
}

// AsNullable marks the node as accepting null.
func (n *Node) AsNullable() *Node {
	n.Nullable = true
	return n
}

// WithDescription attaches free-text extraction guidance consumed by the
// model. Guidance carries business rules the structure cannot express
// (e.g. "must contain a digit"); it is deliberately NOT enforced by the
// local validator.
func (n *Node) WithDescription(d string) *Node {
	n.Description = d
	return n
}

// WithRequired declares which properties of an object node are mandatory.
func (n *Node) WithRequired(names ...string) *Node {
	n.Required = names
	return n
}
