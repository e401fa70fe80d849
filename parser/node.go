// Package parser compiles Mustache template source into a tree of nodes.
package parser

// Node is the interface implemented by all compiled template fragments.
type Node interface {
	node()
}

// TextNode is a run of literal template text.
type TextNode struct {
	Content string
}

func (t *TextNode) node() {}

// VariableNode is a {{key}} interpolation. Path holds the dotted key
// split into segments. Raw is true for {{{key}}} and {{&key}} tags,
// which skip HTML escaping.
type VariableNode struct {
	Path []string
	Raw  bool
}

func (v *VariableNode) node() {}

// SectionNode is a {{#key}}...{{/key}} or {{^key}}...{{/key}} block.
// RawSource is the exact source text between the open and close tags,
// captured before any whitespace trimming so that lambda sections
// receive the literal body.
type SectionNode struct {
	Path      []string
	Inverted  bool
	Children  []Node
	RawSource string
}

func (s *SectionNode) node() {}

// PartialNode is a {{>name}} reference to another named template.
type PartialNode struct {
	Name string
}

func (p *PartialNode) node() {}
