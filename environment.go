package mustache

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/repeatedly/mustache-go/parser"
)

// CachePolicy determines how the environment reuses compiled templates
// resolved through the loader.
type CachePolicy int

const (
	// CacheOnce compiles a template at most once per name and never
	// re-checks the backing store.
	CacheOnce CachePolicy = iota
	// CheckFreshness recompiles when the loader reports a changed
	// modification time for the name.
	CheckFreshness
	// NoCache recompiles on every lookup.
	NoCache
)

// Loader resolves a template name to its raw source text.
type Loader interface {
	Load(name string) (string, error)
}

// LoaderFunc adapts a plain function to the Loader interface.
type LoaderFunc func(name string) (string, error)

// Load calls f.
func (f LoaderFunc) Load(name string) (string, error) {
	return f(name)
}

// modTimeLoader is implemented by loaders whose backing store carries a
// modification marker, enabling the CheckFreshness policy.
type modTimeLoader interface {
	ModTime(name string) (time.Time, error)
}

// MissingHandler is invoked with the full dotted key when a variable
// lookup resolves to nothing. Its result is rendered instead; an error
// aborts rendering with ErrHandlerFailure.
type MissingHandler func(key string) (string, error)

// Environment holds the configuration and the compiled template cache.
// Concurrent lookups of different names do not interfere; concurrent
// misses on the same name may recompile redundantly, which is safe
// because compilation is a pure function of the source.
type Environment struct {
	templates      map[string]*compiledTemplate
	templatesMu    sync.RWMutex
	loader         Loader
	cachePolicy    CachePolicy
	syntax         parser.SyntaxConfig
	missingHandler MissingHandler
}

type compiledTemplate struct {
	name    string
	source  string
	nodes   []parser.Node
	modTime time.Time
	// pinned templates were registered directly and have no backing
	// store, so cache policies never evict them.
	pinned bool
}

// NewEnvironment creates a new environment with default settings.
func NewEnvironment() *Environment {
	return &Environment{
		templates:   make(map[string]*compiledTemplate),
		cachePolicy: CacheOnce,
		syntax:      parser.DefaultSyntax(),
	}
}

// AddTemplate compiles and registers a template from source.
func (e *Environment) AddTemplate(name, source string) error {
	nodes, err := parser.Parse(source, name, e.syntax)
	if err != nil {
		return err
	}

	e.templatesMu.Lock()
	e.templates[name] = &compiledTemplate{
		name:   name,
		source: source,
		nodes:  nodes,
		pinned: true,
	}
	e.templatesMu.Unlock()
	return nil
}

// GetTemplate retrieves a template by name, consulting the loader and
// the cache policy for names that were not registered directly.
func (e *Environment) GetTemplate(name string) (*Template, error) {
	e.templatesMu.RLock()
	compiled, ok := e.templates[name]
	e.templatesMu.RUnlock()

	if ok && e.useCached(compiled) {
		return &Template{env: e, compiled: compiled}, nil
	}

	if e.loader == nil {
		return nil, NewError(ErrTemplateNotFound, name)
	}
	source, err := e.loader.Load(name)
	if err != nil {
		return nil, NewError(ErrTemplateNotFound, name)
	}
	nodes, err := parser.Parse(source, name, e.syntax)
	if err != nil {
		return nil, err
	}
	compiled = &compiledTemplate{
		name:   name,
		source: source,
		nodes:  nodes,
	}
	if ml, ok := e.loader.(modTimeLoader); ok {
		if mt, err := ml.ModTime(name); err == nil {
			compiled.modTime = mt
		}
	}

	if e.cachePolicy != NoCache {
		e.templatesMu.Lock()
		e.templates[name] = compiled
		e.templatesMu.Unlock()
	}
	return &Template{env: e, compiled: compiled}, nil
}

// useCached reports whether a cached compilation is still valid under
// the configured cache policy.
func (e *Environment) useCached(compiled *compiledTemplate) bool {
	if compiled.pinned {
		return true
	}
	switch e.cachePolicy {
	case CacheOnce:
		return true
	case CheckFreshness:
		ml, ok := e.loader.(modTimeLoader)
		if !ok {
			return true
		}
		mt, err := ml.ModTime(compiled.name)
		return err == nil && mt.Equal(compiled.modTime)
	default: // NoCache
		return false
	}
}

// TemplateFromString compiles a template from source without storing it.
func (e *Environment) TemplateFromString(source string) (*Template, error) {
	return e.TemplateFromNamedString("<string>", source)
}

// TemplateFromNamedString compiles a named template from source without
// storing it.
func (e *Environment) TemplateFromNamedString(name, source string) (*Template, error) {
	nodes, err := parser.Parse(source, name, e.syntax)
	if err != nil {
		return nil, err
	}
	return &Template{
		env: e,
		compiled: &compiledTemplate{
			name:   name,
			source: source,
			nodes:  nodes,
		},
	}, nil
}

// SetLoader sets the template loader.
func (e *Environment) SetLoader(loader Loader) {
	e.loader = loader
}

// SetCachePolicy sets how loader-backed templates are cached.
func (e *Environment) SetCachePolicy(policy CachePolicy) {
	e.cachePolicy = policy
}

// SetSyntax sets the initial delimiter pair used for compilation.
func (e *Environment) SetSyntax(syntax parser.SyntaxConfig) {
	e.syntax = syntax
}

// SetMissingHandler sets the fallback for unresolved variable lookups.
// Without a handler, unresolved variables render as the empty string.
func (e *Environment) SetMissingHandler(h MissingHandler) {
	e.missingHandler = h
}

// Template represents a compiled template.
type Template struct {
	env      *Environment
	compiled *compiledTemplate
}

// Name returns the template name.
func (t *Template) Name() string {
	return t.compiled.name
}

// Source returns the template source.
func (t *Template) Source() string {
	return t.compiled.source
}

// Render renders the template against ctx and returns the output as a
// single string.
func (t *Template) Render(ctx *Context) (string, error) {
	var b strings.Builder
	if err := t.RenderTo(&b, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderTo renders the template against ctx, streaming output to w.
func (t *Template) RenderTo(w io.Writer, ctx *Context) error {
	if ctx == nil {
		ctx = NewContext()
	}
	state := newState(t.env, t.compiled.name, w)
	return state.renderNodes(t.compiled.nodes, ctx)
}
