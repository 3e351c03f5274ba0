package catalog

import (
	"fmt"
	"strings"
)

// EndpointProperties parses uri into its options: userinfo options first,
// then path options in syntax order, then query parameters in the order
// given. Path options that only carry their default are left out.
func (c *Catalog) EndpointProperties(uri string) (*Properties, error) {
	u, err := parseEndpointURI(uri)
	if err != nil {
		return nil, endpointErr("parse", uri, err)
	}
	m, err := c.componentFor(u.scheme)
	if err != nil {
		return nil, endpointErr("parse", uri, err)
	}
	p, err := c.endpointProperties(u, m)
	if err != nil {
		return nil, endpointErr("parse", uri, err)
	}
	return p, nil
}

func (c *Catalog) endpointProperties(u *endpointURI, m *Model) (*Properties, error) {
	t := m.SyntaxTemplate()
	if t == nil {
		return nil, fmt.Errorf("%w: endpoint with scheme %s", ErrMissingSyntax, m.Scheme)
	}
	out := NewProperties()

	path := u.path
	if len(t.UserInfo) > 0 {
		if user, password, ok := u.userInfo(); ok {
			out.Set(t.UserInfo[0], user)
			if len(t.UserInfo) > 1 && password != "" {
				out.Set(t.UserInfo[1], password)
			}
			if at := strings.IndexByte(path, '@'); at >= 0 {
				path = path[at+1:]
			}
		}
	}
	path = strings.TrimPrefix(path, "//")

	segs := t.Split(path, c.tokenSkip(m.Scheme, path))
	defaulted := map[string]bool{}
	if len(segs) == len(t.Placeholders) {
		for i, name := range t.Placeholders {
			out.Set(name, segs[i])
		}
	} else {
		next := 0
		last := len(t.Placeholders) - 1
		for i, name := range t.Placeholders {
			o := m.Option(name)
			if o != nil && o.Required {
				if next < len(segs) {
					out.Set(name, segs[next])
					next++
				}
				continue
			}
			// optional placeholders only bind when they end the syntax
			if i != last {
				continue
			}
			if next < len(segs) {
				out.Set(name, segs[next])
				next++
			} else if def, ok := o.defaultOf(); ok {
				out.Set(name, def)
				defaulted[name] = true
			}
		}
	}
	for name := range defaulted {
		if o := m.Option(name); o != nil && !o.Required {
			if def, ok := o.Default(); ok && def == out.Value(name) {
				out.Delete(name)
			}
		}
	}

	params, err := parseQuery(u.query)
	if err != nil {
		return nil, err
	}
	groupQuery(out, params, m.options())
	return out, nil
}

// defaultOf is nil safe.
func (o *Option) defaultOf() (string, bool) {
	if o == nil {
		return "", false
	}
	return o.Default()
}

// groupQuery copies params into out, collapsing the keys of a multi-value
// option into one "prefix.a=1&prefix.b=2" value under the option name.
func groupQuery(out *Properties, params []queryParam, set *optionSet) {
	consumed := make([]bool, len(params))
	for i, p := range params {
		if consumed[i] {
			continue
		}
		consumed[i] = true
		o := set.get(p.key)
		if o == nil {
			o = set.byPrefix(p.key)
		}
		if o == nil || o.Prefix == "" {
			out.Set(p.key, p.value)
			continue
		}

		var parts []string
		if p.key != o.Name {
			parts = append(parts, p.key+"="+p.value)
		}
		for j := i + 1; j < len(params); j++ {
			if !consumed[j] && params[j].key != o.Name && strings.HasPrefix(params[j].key, o.Prefix) {
				consumed[j] = true
				parts = append(parts, params[j].key+"="+params[j].value)
			}
		}
		value := strings.Join(parts, "&")
		if p.key == o.Name {
			value = joinNonEmpty(p.value, value)
		}
		if prev, ok := out.Get(o.Name); ok {
			value = joinNonEmpty(prev, value)
		}
		out.Set(o.Name, value)
	}
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "&" + b
}

// EndpointLenientProperties returns the query parameters that the component
// does not declare. Dotted keys are only claimed by multi-value options
// whose prefix matches.
func (c *Catalog) EndpointLenientProperties(uri string) (*Properties, error) {
	u, err := parseEndpointURI(uri)
	if err != nil {
		return nil, endpointErr("lenient", uri, err)
	}
	m, err := c.componentFor(u.scheme)
	if err != nil {
		return nil, endpointErr("lenient", uri, err)
	}
	params, err := parseQuery(u.query)
	if err != nil {
		return nil, endpointErr("lenient", uri, err)
	}
	set := m.options()
	out := NewProperties()
	for _, p := range params {
		if set.get(p.key) != nil || set.get(set.stripOptionalPrefix(p.key)) != nil {
			continue
		}
		if strings.IndexByte(p.key, '.') >= 0 {
			if o := set.byPrefix(p.key); o != nil && o.IsMultiValue() {
				continue
			}
		}
		out.Set(p.key, p.value)
	}
	return out, nil
}
