package mustache

import (
	"fmt"
	"strconv"
)

// Context is one scope in a tree of template variables. Variables and
// sections are resolved against a context first and then up its parent
// chain. A context tree is append-only while it is being populated and
// must not be mutated once rendering begins; read-only rendering from
// multiple goroutines is safe.
type Context struct {
	parent    *Context
	variables map[string]string
	sections  map[string]sectionValue
}

// sectionValue is the tagged union of values a section key can hold.
type sectionValue interface {
	sectionValue()
}

// enabledValue is a content-free toggle installed by UseSection.
type enabledValue struct{}

// mapValue exposes its entries as extra variables to the section body.
type mapValue struct {
	vars map[string]string
}

// lambdaValue holds a lambda section's transform.
type lambdaValue struct {
	fn func(string) string
}

// listValue is an ordered list of child contexts, one render per entry.
type listValue struct {
	items []*Context
}

func (enabledValue) sectionValue() {}
func (*mapValue) sectionValue()    {}
func (*lambdaValue) sectionValue() {}
func (*listValue) sectionValue()   {}

// NewContext creates an empty root context.
func NewContext() *Context {
	return &Context{
		variables: make(map[string]string),
		sections:  make(map[string]sectionValue),
	}
}

func newChildContext(parent *Context) *Context {
	c := NewContext()
	c.parent = parent
	return c
}

// Set assigns a value under key. A map[string]string installs a
// variable section, a func(string) string installs a lambda section,
// and anything else is stringified into a plain variable. A key is
// never both a variable and a section: assignment evicts the key from
// the other store.
func (c *Context) Set(key string, value any) {
	switch v := value.(type) {
	case map[string]string:
		delete(c.variables, key)
		c.sections[key] = &mapValue{vars: v}
	case func(string) string:
		delete(c.variables, key)
		c.sections[key] = &lambdaValue{fn: v}
	default:
		delete(c.sections, key)
		c.variables[key] = displayString(value)
	}
}

// UseSection installs a content-free section toggle under key, making
// {{#key}} blocks render without introducing a new scope.
func (c *Context) UseSection(key string) {
	delete(c.variables, key)
	c.sections[key] = enabledValue{}
}

// AddSubContext appends a new child context to the list section under
// key, creating the list if needed, and returns it for the caller to
// populate.
func (c *Context) AddSubContext(key string) *Context {
	child := newChildContext(c)
	if lv, ok := c.sections[key].(*listValue); ok {
		lv.items = append(lv.items, child)
		return child
	}
	delete(c.variables, key)
	c.sections[key] = &listValue{items: []*Context{child}}
	return child
}

// fetchVariable resolves a dotted path to a plain variable. The first
// segment ascends the parent chain on miss; the remaining segments
// descend through list sections, trying each sibling context in order.
func (c *Context) fetchVariable(path []string) (string, bool) {
	if len(path) == 1 {
		for n := c; n != nil; n = n.parent {
			if v, ok := n.variables[path[0]]; ok {
				return v, true
			}
		}
		return "", false
	}
	for n := c; n != nil; n = n.parent {
		if lv, ok := n.sections[path[0]].(*listValue); ok {
			if v, ok := descendVariable(lv.items, path[1:]); ok {
				return v, true
			}
		}
	}
	return "", false
}

func descendVariable(items []*Context, path []string) (string, bool) {
	if len(path) == 1 {
		for _, item := range items {
			if v, ok := item.variables[path[0]]; ok {
				return v, true
			}
		}
		return "", false
	}
	for _, item := range items {
		if lv, ok := item.sections[path[0]].(*listValue); ok {
			if v, ok := descendVariable(lv.items, path[1:]); ok {
				return v, true
			}
		}
	}
	return "", false
}

// fetchSection resolves a dotted path to a section value, using the
// same ascent/descent rule as fetchVariable. Empty values (a map with
// no entries, a list with no contexts, a nil lambda) normalize to nil
// so that section-existence checks treat them as falsy.
func (c *Context) fetchSection(path []string) sectionValue {
	if len(path) == 1 {
		for n := c; n != nil; n = n.parent {
			if sv, ok := n.sections[path[0]]; ok {
				return normalizeSection(sv)
			}
		}
		return nil
	}
	for n := c; n != nil; n = n.parent {
		if lv, ok := n.sections[path[0]].(*listValue); ok {
			if sv := descendSection(lv.items, path[1:]); sv != nil {
				return sv
			}
		}
	}
	return nil
}

func descendSection(items []*Context, path []string) sectionValue {
	if len(path) == 1 {
		for _, item := range items {
			if sv, ok := item.sections[path[0]]; ok {
				if sv = normalizeSection(sv); sv != nil {
					return sv
				}
			}
		}
		return nil
	}
	for _, item := range items {
		if lv, ok := item.sections[path[0]].(*listValue); ok {
			if sv := descendSection(lv.items, path[1:]); sv != nil {
				return sv
			}
		}
	}
	return nil
}

func normalizeSection(sv sectionValue) sectionValue {
	switch v := sv.(type) {
	case *mapValue:
		if len(v.vars) == 0 {
			return nil
		}
	case *lambdaValue:
		if v.fn == nil {
			return nil
		}
	case *listValue:
		if len(v.items) == 0 {
			return nil
		}
	}
	return sv
}

// displayString converts an assigned value to its canonical string
// form. Numbers use decimal notation, booleans "true"/"false".
func displayString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(value)
	}
}
