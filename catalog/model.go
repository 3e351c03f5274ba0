package catalog

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Model is the parsed metadata of one component, data format, language or
// the main configuration. It is immutable once built.
type Model struct {
	Namespace         Namespace `json:"namespace" msgpack:"namespace"`
	Name              string    `json:"name" msgpack:"name"`
	Scheme            string    `json:"scheme,omitempty" msgpack:"scheme,omitempty"`
	Title             string    `json:"title,omitempty" msgpack:"title,omitempty"`
	Description       string    `json:"description,omitempty" msgpack:"description,omitempty"`
	Label             string    `json:"label,omitempty" msgpack:"label,omitempty"`
	Syntax            string    `json:"syntax,omitempty" msgpack:"syntax,omitempty"`
	AlternativeSyntax string    `json:"alternativeSyntax,omitempty" msgpack:"alternativeSyntax,omitempty"`
	JavaType          string    `json:"javaType,omitempty" msgpack:"javaType,omitempty"`
	LenientProperties bool      `json:"lenientProperties,omitempty" msgpack:"lenientProperties,omitempty"`
	ConsumerOnly      bool      `json:"consumerOnly,omitempty" msgpack:"consumerOnly,omitempty"`
	ProducerOnly      bool      `json:"producerOnly,omitempty" msgpack:"producerOnly,omitempty"`
	Deprecated        bool      `json:"deprecated,omitempty" msgpack:"deprecated,omitempty"`

	ComponentOptions []*Option `json:"componentProperties,omitempty" msgpack:"componentProperties,omitempty"`
	Options          []*Option `json:"properties,omitempty" msgpack:"properties,omitempty"`

	set    *optionSet
	syntax *SyntaxTemplate
}

type headerSpec struct {
	Name              string `yaml:"name"`
	Scheme            string `yaml:"scheme"`
	Title             string `yaml:"title"`
	Description       string `yaml:"description"`
	Label             string `yaml:"label"`
	Syntax            string `yaml:"syntax"`
	AlternativeSyntax string `yaml:"alternativeSyntax"`
	JavaType          string `yaml:"javaType"`
	LenientProperties scalar `yaml:"lenientProperties"`
	ConsumerOnly      scalar `yaml:"consumerOnly"`
	ProducerOnly      scalar `yaml:"producerOnly"`
	Deprecated        scalar `yaml:"deprecated"`
}

type namedOptionSpec struct {
	Name       string `yaml:"name"`
	optionSpec `yaml:",inline"`
}

// ParseModel builds a model from a JSON or YAML schema document. Option
// order follows the document.
func ParseModel(ns Namespace, name string, data []byte) (*Model, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s:%s: %v", ErrInvalidSchema, ns, name, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s:%s: expected an object", ErrInvalidSchema, ns, name)
	}
	root := doc.Content[0]

	m := &Model{Namespace: ns, Name: name}
	if h := mappingValue(root, ns.headerKey()); h != nil {
		var hs headerSpec
		if err := h.Decode(&hs); err != nil {
			return nil, fmt.Errorf("%w: %s:%s: %v", ErrInvalidSchema, ns, name, err)
		}
		m.Scheme = hs.Scheme
		m.Title = hs.Title
		m.Description = hs.Description
		m.Label = hs.Label
		m.Syntax = hs.Syntax
		m.AlternativeSyntax = hs.AlternativeSyntax
		m.JavaType = hs.JavaType
		m.LenientProperties = hs.LenientProperties.bool()
		m.ConsumerOnly = hs.ConsumerOnly.bool()
		m.ProducerOnly = hs.ProducerOnly.bool()
		m.Deprecated = hs.Deprecated.bool()
	}
	if ns == NamespaceComponent && m.Scheme == "" {
		m.Scheme = name
	}

	var err error
	if ns == NamespaceComponent {
		if m.ComponentOptions, err = decodeOptions(mappingValue(root, "componentProperties"), KindProperty); err != nil {
			return nil, fmt.Errorf("%w: %s:%s: %v", ErrInvalidSchema, ns, name, err)
		}
		if m.Options, err = decodeOptions(mappingValue(root, "properties"), KindParameter); err != nil {
			return nil, fmt.Errorf("%w: %s:%s: %v", ErrInvalidSchema, ns, name, err)
		}
	} else {
		if m.Options, err = decodeOptions(mappingValue(root, "properties"), KindProperty); err != nil {
			return nil, fmt.Errorf("%w: %s:%s: %v", ErrInvalidSchema, ns, name, err)
		}
	}
	m.init()
	return m, nil
}

// decodeOptions reads either a mapping of name -> option or a sequence of
// options carrying their own name.
func decodeOptions(n *yaml.Node, defaultKind string) ([]*Option, error) {
	if n == nil {
		return nil, nil
	}
	var out []*Option
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			var spec optionSpec
			if err := n.Content[i+1].Decode(&spec); err != nil {
				return nil, fmt.Errorf("option %s: %w", n.Content[i].Value, err)
			}
			out = append(out, newOption(n.Content[i].Value, defaultKind, spec))
		}
	case yaml.SequenceNode:
		for _, c := range n.Content {
			var spec namedOptionSpec
			if err := c.Decode(&spec); err != nil {
				return nil, err
			}
			if spec.Name == "" {
				return nil, fmt.Errorf("line %d: option without name", c.Line)
			}
			out = append(out, newOption(spec.Name, defaultKind, spec.optionSpec))
		}
	default:
		return nil, fmt.Errorf("line %d: expected an object or a list of options", n.Line)
	}
	return out, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// init builds the lookup indexes. Models decoded from a snapshot must be
// initialised before use.
func (m *Model) init() {
	m.set = newOptionSet(m.ComponentOptions, m.Options)
	if m.Namespace == NamespaceComponent && m.Syntax != "" {
		m.syntax = CompileSyntax(m.Scheme, m.Syntax)
		m.syntax.UserInfo = userInfoNames(m.AlternativeSyntax)
	}
}

func (m *Model) options() *optionSet {
	if m.set == nil {
		m.init()
	}
	return m.set
}

// Option returns the option by name. Endpoint options shadow component
// options with the same name.
func (m *Model) Option(name string) *Option { return m.options().get(name) }

// Rows lists component options then endpoint options, without shadowed
// duplicates.
func (m *Model) Rows() []*Option { return m.options().rows }

// PathOptions returns the endpoint options bound to the syntax.
func (m *Model) PathOptions() []*Option {
	var out []*Option
	for _, o := range m.Options {
		if o.IsPath() {
			out = append(out, o)
		}
	}
	return out
}

// SyntaxTemplate returns the compiled syntax, or nil for models without one.
func (m *Model) SyntaxTemplate() *SyntaxTemplate {
	m.options()
	return m.syntax
}

// SupportsConsumerAndProducer is true unless the component is restricted to
// one side.
func (m *Model) SupportsConsumerAndProducer() bool { return !m.ConsumerOnly && !m.ProducerOnly }

func (m *Model) key() modelKey { return modelKey{ns: m.Namespace, name: m.Name} }

// optionSet indexes a row list by name.
type optionSet struct {
	rows   []*Option
	byName map[string]*Option
}

func newOptionSet(groups ...[]*Option) *optionSet {
	s := &optionSet{byName: map[string]*Option{}}
	for _, g := range groups {
		s.add(g)
	}
	return s
}

func (s *optionSet) add(opts []*Option) {
	for _, o := range opts {
		if prev, ok := s.byName[o.Name]; ok {
			for i, r := range s.rows {
				if r == prev {
					s.rows = append(s.rows[:i:i], s.rows[i+1:]...)
					break
				}
			}
		}
		s.byName[o.Name] = o
		s.rows = append(s.rows, o)
	}
}

// with returns a copy extended by opts.
func (s *optionSet) with(opts []*Option) *optionSet {
	c := newOptionSet(s.rows)
	c.add(opts)
	return c
}

func (s *optionSet) get(name string) *Option { return s.byName[name] }

// byPrefix finds the multi-value option whose prefix starts name.
func (s *optionSet) byPrefix(name string) *Option {
	for _, o := range s.rows {
		if o.Prefix != "" && strings.HasPrefix(name, o.Prefix) {
			return o
		}
	}
	return nil
}

// stripOptionalPrefix removes declared optional prefixes such as
// "consumer." from name, repeatedly.
func (s *optionSet) stripOptionalPrefix(name string) string {
	for {
		if _, ok := s.byName[name]; ok {
			return name
		}
		stripped := false
		for _, o := range s.rows {
			if o.OptionalPrefix != "" && strings.HasPrefix(name, o.OptionalPrefix) {
				name = name[len(o.OptionalPrefix):]
				stripped = true
				break
			}
		}
		if !stripped {
			return name
		}
	}
}

func (s *optionSet) names() []string {
	out := make([]string, 0, len(s.rows))
	for _, o := range s.rows {
		out = append(out, o.Name)
	}
	sort.Strings(out)
	return out
}
