package mustache

import (
	"io"
	"strings"

	"github.com/repeatedly/mustache-go/parser"
)

// State holds the evaluation state during template rendering. Output
// is written incrementally, so callers can collect into a string or
// stream to any io.Writer.
type State struct {
	env  *Environment
	name string
	out  io.Writer
}

func newState(env *Environment, name string, out io.Writer) *State {
	return &State{env: env, name: name, out: out}
}

func (s *State) renderNodes(nodes []parser.Node, ctx *Context) error {
	for _, node := range nodes {
		var err error
		switch n := node.(type) {
		case *parser.TextNode:
			_, err = io.WriteString(s.out, n.Content)
		case *parser.VariableNode:
			err = s.renderVariable(n, ctx)
		case *parser.SectionNode:
			err = s.renderSection(n, ctx)
		case *parser.PartialNode:
			err = s.renderPartial(n, ctx)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *State) renderVariable(n *parser.VariableNode, ctx *Context) error {
	val, ok := ctx.fetchVariable(n.Path)
	if !ok {
		if s.env == nil || s.env.missingHandler == nil {
			return nil
		}
		v, err := s.env.missingHandler(strings.Join(n.Path, "."))
		if err != nil {
			return NewError(ErrHandlerFailure, err.Error()).WithName(s.name)
		}
		val = v
	}
	if val == "" {
		return nil
	}
	if !n.Raw {
		val = EscapeHTML(val)
	}
	_, err := io.WriteString(s.out, val)
	return err
}

func (s *State) renderSection(n *parser.SectionNode, ctx *Context) error {
	switch v := ctx.fetchSection(n.Path).(type) {
	case nil:
		// Inverted sections fire exactly on absent or empty values.
		if n.Inverted {
			return s.renderNodes(n.Children, ctx)
		}
	case enabledValue:
		if !n.Inverted {
			return s.renderNodes(n.Children, ctx)
		}
	case *mapValue:
		if !n.Inverted {
			child := newChildContext(ctx)
			for k, val := range v.vars {
				child.variables[k] = val
			}
			return s.renderNodes(n.Children, child)
		}
	case *lambdaValue:
		if !n.Inverted {
			expanded, err := parser.ParseDefault(v.fn(n.RawSource), s.name)
			if err != nil {
				return err
			}
			return s.renderNodes(expanded, ctx)
		}
	case *listValue:
		if !n.Inverted {
			for _, item := range v.items {
				if err := s.renderNodes(n.Children, item); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *State) renderPartial(n *parser.PartialNode, ctx *Context) error {
	if s.env == nil {
		return NewError(ErrTemplateNotFound, n.Name).WithName(s.name)
	}
	t, err := s.env.GetTemplate(n.Name)
	if err != nil {
		return err
	}
	return s.renderNodes(t.compiled.nodes, ctx)
}

// EscapeHTML escapes &, ", < and > for HTML output. It scans the
// input once, copying the runs between escaped characters, and returns
// the input unchanged when nothing needs escaping.
func EscapeHTML(s string) string {
	var b *strings.Builder
	last := 0
	for i := 0; i < len(s); i++ {
		var repl string
		switch s[i] {
		case '&':
			repl = "&amp;"
		case '"':
			repl = "&quot;"
		case '<':
			repl = "&lt;"
		case '>':
			repl = "&gt;"
		default:
			continue
		}
		if b == nil {
			b = &strings.Builder{}
			b.Grow(len(s) + 8)
		}
		b.WriteString(s[last:i])
		b.WriteString(repl)
		last = i + 1
	}
	if b == nil {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}
