package parser

// SyntaxConfig holds the tag delimiters used while scanning a template.
// A {{=...=}} tag inside the template changes the delimiters from that
// point on; SyntaxConfig only sets the initial pair.
type SyntaxConfig struct {
	OpenDelim  string
	CloseDelim string
}

// DefaultSyntax returns the standard Mustache delimiters.
func DefaultSyntax() SyntaxConfig {
	return SyntaxConfig{
		OpenDelim:  "{{",
		CloseDelim: "}}",
	}
}
