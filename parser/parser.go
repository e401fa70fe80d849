package parser

import (
	"fmt"
	"strings"
)

// ErrorKind describes the type of compile error.
type ErrorKind int

const (
	ErrUnclosedTag ErrorKind = iota
	ErrEmptyTagName
	ErrUnbalancedSection
	ErrMalformedDelimiters
	ErrMalformedUnescaped
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnclosedTag:
		return "unclosed tag"
	case ErrEmptyTagName:
		return "empty tag name"
	case ErrUnbalancedSection:
		return "unbalanced section"
	case ErrMalformedDelimiters:
		return "malformed delimiter tag"
	case ErrMalformedUnescaped:
		return "malformed unescaped tag"
	default:
		return "parse error"
	}
}

// Error represents a compile error. Compilation aborts on the first
// error; no partial node tree is returned.
type Error struct {
	Kind   ErrorKind
	Detail string
	Name   string
	Line   int
}

func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s (in %s, line %d)", e.Kind, e.Detail, e.Name, e.Line)
	}
	return fmt.Sprintf("%s: %s (line %d)", e.Kind, e.Detail, e.Line)
}

// sectionFrame is one entry of the open-section stack. saved holds the
// sibling list accumulated before the section opened; bodyStart is the
// source offset just past the opening tag, for RawSource capture.
type sectionFrame struct {
	path      []string
	inverted  bool
	saved     []Node
	bodyStart int
	line      int
}

type parser struct {
	source     string
	name       string
	openDelim  string
	closeDelim string
	pos        int
	nodes      []Node
	stack      []sectionFrame

	// Standalone-line state. lineStart is true while everything since
	// the last newline (or document start) is whitespace.
	// pendingNewline is set after a standalone tag so that the newline
	// following it is consumed on the next text emission.
	lineStart      bool
	pendingNewline bool
}

// Parse compiles template source into a node tree. It is a pure
// function of the source text and the initial delimiter pair.
func Parse(source, name string, syntax SyntaxConfig) ([]Node, error) {
	if syntax.OpenDelim == "" || syntax.CloseDelim == "" {
		syntax = DefaultSyntax()
	}
	p := &parser{
		source:     source,
		name:       name,
		openDelim:  syntax.OpenDelim,
		closeDelim: syntax.CloseDelim,
		lineStart:  true,
	}
	return p.parse()
}

// ParseDefault compiles template source using the default delimiters.
func ParseDefault(source, name string) ([]Node, error) {
	return Parse(source, name, DefaultSyntax())
}

func (p *parser) parse() ([]Node, error) {
	for p.pos < len(p.source) {
		idx := strings.Index(p.source[p.pos:], p.openDelim)
		if idx < 0 {
			p.emitText(p.source[p.pos:])
			p.pos = len(p.source)
			break
		}
		tagStart := p.pos + idx
		p.emitText(p.source[p.pos:tagStart])
		if err := p.parseTag(tagStart); err != nil {
			return nil, err
		}
	}
	if len(p.stack) > 0 {
		f := p.stack[len(p.stack)-1]
		return nil, p.errorAt(ErrUnbalancedSection,
			fmt.Sprintf("section %q is not closed", strings.Join(f.path, ".")), f.line)
	}
	return p.nodes, nil
}

// emitText appends a literal text node, consuming the newline left over
// from a preceding standalone tag and tracking line-start state.
func (p *parser) emitText(text string) {
	if p.pendingNewline {
		p.pendingNewline = false
		switch {
		case strings.HasPrefix(text, "\r\n"):
			text = text[2:]
			p.lineStart = true
		case strings.HasPrefix(text, "\n"):
			text = text[1:]
			p.lineStart = true
		default:
			p.lineStart = false
		}
	}
	if text == "" {
		return
	}
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		p.lineStart = isWhitespace(text[i+1:])
	} else {
		p.lineStart = p.lineStart && isWhitespace(text)
	}
	p.nodes = append(p.nodes, &TextNode{Content: text})
}

func (p *parser) parseTag(tagStart int) error {
	atLineStart := p.lineStart
	line := p.lineAt(tagStart)
	inner := tagStart + len(p.openDelim)
	rel := strings.Index(p.source[inner:], p.closeDelim)
	if rel < 0 {
		return p.errorAt(ErrUnclosedTag,
			fmt.Sprintf("tag is not closed with %q", p.closeDelim), line)
	}
	content := p.source[inner : inner+rel]
	tagEnd := inner + rel + len(p.closeDelim)

	if content == "" {
		return p.errorAt(ErrEmptyTagName, "tag name is empty", line)
	}

	switch content[0] {
	case '#', '^':
		path, err := p.splitKey(content[1:], line)
		if err != nil {
			return err
		}
		p.trimStandalone(atLineStart)
		p.stack = append(p.stack, sectionFrame{
			path:      path,
			inverted:  content[0] == '^',
			saved:     p.nodes,
			bodyStart: tagEnd,
			line:      line,
		})
		p.nodes = nil

	case '/':
		path, err := p.splitKey(content[1:], line)
		if err != nil {
			return err
		}
		if len(p.stack) == 0 {
			return p.errorAt(ErrUnbalancedSection,
				fmt.Sprintf("section %q is not opened", strings.Join(path, ".")), line)
		}
		f := p.stack[len(p.stack)-1]
		p.stack = p.stack[:len(p.stack)-1]
		if !equalPath(f.path, path) {
			return p.errorAt(ErrUnbalancedSection,
				fmt.Sprintf("close tag %q does not match open section %q",
					strings.Join(path, "."), strings.Join(f.path, ".")), line)
		}
		p.trimStandalone(atLineStart)
		sec := &SectionNode{
			Path:      f.path,
			Inverted:  f.inverted,
			Children:  p.nodes,
			RawSource: p.source[f.bodyStart:tagStart],
		}
		p.nodes = append(f.saved, sec)

	case '>':
		name := strings.TrimSpace(content[1:])
		if name == "" {
			return p.errorAt(ErrEmptyTagName, "partial tag name is empty", line)
		}
		p.nodes = append(p.nodes, &PartialNode{Name: name})
		p.lineStart = false

	case '=':
		body := strings.TrimSuffix(strings.TrimSpace(content[1:]), "=")
		parts := strings.Fields(body)
		if len(parts) != 2 {
			return p.errorAt(ErrMalformedDelimiters,
				"delimiter tag must contain an open and a close delimiter", line)
		}
		p.trimStandalone(atLineStart)
		p.openDelim, p.closeDelim = parts[0], parts[1]

	case '!':
		p.trimStandalone(atLineStart)

	case '{':
		if tagEnd >= len(p.source) || p.source[tagEnd] != '}' {
			return p.errorAt(ErrMalformedUnescaped,
				"unescaped tag is missing the extra '}'", line)
		}
		tagEnd++
		path, err := p.splitKey(content[1:], line)
		if err != nil {
			return err
		}
		p.nodes = append(p.nodes, &VariableNode{Path: path, Raw: true})
		p.lineStart = false

	case '&':
		path, err := p.splitKey(content[1:], line)
		if err != nil {
			return err
		}
		p.nodes = append(p.nodes, &VariableNode{Path: path, Raw: true})
		p.lineStart = false

	default:
		path, err := p.splitKey(content, line)
		if err != nil {
			return err
		}
		p.nodes = append(p.nodes, &VariableNode{Path: path})
		p.lineStart = false
	}

	p.pos = tagEnd
	return nil
}

// trimStandalone removes the indentation of a tag that begins a
// whitespace-only line and arms the consumption of the newline that
// follows it, so that the tag's line vanishes from output entirely.
func (p *parser) trimStandalone(atLineStart bool) {
	if !atLineStart {
		return
	}
	if n := len(p.nodes); n > 0 {
		if t, ok := p.nodes[n-1].(*TextNode); ok {
			if i := strings.LastIndexByte(t.Content, '\n'); i >= 0 {
				t.Content = t.Content[:i+1]
			} else {
				// The whole node is this line's indentation.
				p.nodes = p.nodes[:n-1]
			}
		}
	}
	p.pendingNewline = true
}

// splitKey parses a dotted key, trimming whitespace around each segment.
func (p *parser) splitKey(raw string, line int) ([]string, error) {
	segs := strings.Split(raw, ".")
	for i, s := range segs {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, p.errorAt(ErrEmptyTagName,
				fmt.Sprintf("tag %q has an empty name segment", strings.TrimSpace(raw)), line)
		}
		segs[i] = s
	}
	return segs, nil
}

func (p *parser) errorAt(kind ErrorKind, detail string, line int) *Error {
	return &Error{Kind: kind, Detail: detail, Name: p.name, Line: line}
}

func (p *parser) lineAt(pos int) int {
	return 1 + strings.Count(p.source[:pos], "\n")
}

func equalPath(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}
