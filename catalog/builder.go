package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// PropertyFilter adjusts the options of a scheme before a URI is built. It
// must not modify its argument.
type PropertyFilter func(props map[string]string) map[string]string

// filterShowAll drops the other show* flags of the log component when
// showAll is set.
func filterShowAll(props map[string]string) map[string]string {
	if props["showAll"] != "true" {
		return props
	}
	out := make(map[string]string, len(props))
	for k, v := range props {
		if strings.HasPrefix(k, "show") && k != "showAll" {
			continue
		}
		out[k] = v
	}
	return out
}

// AsEndpointURI builds the canonical URI of scheme from props. Options not
// bound by the syntax become query parameters sorted by name, percent
// encoded when encode is set.
func (c *Catalog) AsEndpointURI(scheme string, props map[string]string, encode bool) (string, error) {
	return c.asEndpointURI(scheme, props, "&", encode)
}

// AsEndpointURIXML is AsEndpointURI with "&amp;" between query parameters.
func (c *Catalog) AsEndpointURIXML(scheme string, props map[string]string, encode bool) (string, error) {
	return c.asEndpointURI(scheme, props, "&amp;", encode)
}

// AsEndpointURIFromJSON builds the URI from a schema document whose
// options carry a "value". Required options use their value, default or
// ""; optional ones only when the value differs from the default.
func (c *Catalog) AsEndpointURIFromJSON(scheme, doc string, encode bool) (string, error) {
	props, err := propertiesFromDocument(scheme, doc)
	if err != nil {
		return "", endpointErr("build", scheme, err)
	}
	return c.asEndpointURI(scheme, props, "&", encode)
}

func (c *Catalog) AsEndpointURIXMLFromJSON(scheme, doc string, encode bool) (string, error) {
	props, err := propertiesFromDocument(scheme, doc)
	if err != nil {
		return "", endpointErr("build", scheme, err)
	}
	return c.asEndpointURI(scheme, props, "&amp;", encode)
}

func propertiesFromDocument(scheme, doc string) (map[string]string, error) {
	m, err := ParseModel(NamespaceComponent, scheme, []byte(doc))
	if err != nil {
		return nil, err
	}
	props := map[string]string{}
	for _, o := range m.Options {
		def, hasDef := o.Default()
		switch {
		case o.Required && o.Value != nil:
			props[o.Name] = *o.Value
		case o.Required:
			props[o.Name] = def
		case o.Value != nil && (!hasDef || *o.Value != def):
			props[o.Name] = *o.Value
		}
	}
	return props, nil
}

func (c *Catalog) asEndpointURI(scheme string, props map[string]string, ampersand string, encode bool) (string, error) {
	m, err := c.componentFor(scheme)
	if err != nil {
		return "", endpointErr("build", scheme, err)
	}
	t := m.SyntaxTemplate()
	if t == nil {
		return "", endpointErr("build", scheme, fmt.Errorf("%w: endpoint with scheme %s", ErrMissingSyntax, scheme))
	}
	if f := c.filters[scheme]; f != nil {
		props = f(props)
	}

	remainder := make(map[string]bool, len(props))
	for k := range props {
		remainder[k] = true
	}

	all := true
	for _, name := range t.Placeholders {
		if _, ok := props[name]; !ok {
			all = false
			break
		}
	}

	var path strings.Builder
	if all {
		for i, name := range t.Placeholders {
			path.WriteString(t.Separators[i])
			path.WriteString(props[name])
			delete(remainder, name)
		}
		if len(t.Placeholders) > 0 {
			path.WriteString(t.Trailing)
		}
	} else {
		first := true
		for i, name := range t.Placeholders {
			v, ok := props[name]
			if !ok {
				// required options fall back to their default
				if o := m.Option(name); o != nil && o.Required {
					if def, has := o.Default(); has && def != "" {
						v, ok = def, true
					}
				}
			}
			if !ok {
				continue
			}
			if !first || i == 0 {
				path.WriteString(t.Separators[i])
			}
			path.WriteString(v)
			delete(remainder, name)
			first = false
		}
		if !first {
			path.WriteString(t.Trailing)
		}
	}

	s := path.String()
	if len(remainder) > 0 {
		keys := make([]string, 0, len(remainder))
		for k := range remainder {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if strings.Contains(s, "?") {
			s += ampersand
		} else {
			s += "?"
		}
		s += createQueryString(keys, props, ampersand, encode)
	}

	switch {
	case strings.HasPrefix(s, "?"):
		return scheme + s, nil
	case s != "":
		return scheme + ":" + s, nil
	}
	return scheme, nil
}
