// Package mustache provides a Mustache template engine for Go.
//
// Mustache is a logic-minimal templating language: a template string
// and a hierarchical data context combine to produce output text.
//
// # Quick Start
//
//	env := mustache.NewEnvironment()
//	env.AddTemplate("hello", "Hello {{name}}!")
//	tmpl, _ := env.GetTemplate("hello")
//
//	ctx := mustache.NewContext()
//	ctx.Set("name", "World")
//	result, _ := tmpl.Render(ctx)
//	fmt.Println(result) // Output: Hello World!
//
// # Template Syntax
//
// Key syntax elements:
//   - Variables: {{name}} (HTML-escaped), {{{name}}} or {{&name}} (raw)
//   - Sections: {{#key}}...{{/key}}
//   - Inverted sections: {{^key}}...{{/key}}
//   - Partials: {{>name}}
//   - Comments: {{!note}}
//   - Delimiter changes: {{=<% %>=}}
//
// Dotted keys such as {{a.b.c}} descend through nested sub-contexts.
// A line holding only a section, comment, or delimiter tag is removed
// from the output entirely ("standalone line" trimming).
//
// # Contexts
//
// The Context is a tree of scopes populated before rendering:
//
//	ctx := mustache.NewContext()
//	ctx.Set("title", "Repositories")
//	for _, name := range []string{"resque", "hub", "rip"} {
//	    sub := ctx.AddSubContext("repo")
//	    sub.Set("name", name)
//	}
//
// Section keys resolve to one of four shapes: a toggle installed by
// UseSection, a map[string]string exposed to the body as variables, a
// func(string) string lambda that receives the raw section body, or a
// list of sub-contexts rendered once per entry.
//
// # Environment Configuration
//
// The Environment owns template loading and caching:
//
//	env := mustache.NewEnvironment()
//	env.SetLoader(mustache.NewFileSystemLoader("./templates"))
//	env.SetCachePolicy(mustache.CheckFreshness)
//
// Partials referenced by {{>name}} are resolved through the same
// loader and cache.
package mustache

// Version is the version of the mustache-go library.
const Version = "1.0.0"

// RenderString compiles source with the default delimiters and renders
// it against ctx in one step, without caching.
func RenderString(source string, ctx *Context) (string, error) {
	env := NewEnvironment()
	tmpl, err := env.TemplateFromString(source)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx)
}
