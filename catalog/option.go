package catalog

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Option kinds as they appear in schema documents.
const (
	KindPath      = "path"
	KindParameter = "parameter"
	KindProperty  = "property"
)

// Option models one declared option of a component, data format or
// language. Component level options carry kind "property".
type Option struct {
	Name           string   `json:"name" msgpack:"name"`
	Kind           string   `json:"kind" msgpack:"kind"`
	Type           string   `json:"type" msgpack:"type"`
	JavaType       string   `json:"javaType,omitempty" msgpack:"javaType,omitempty"`
	Required       bool     `json:"required,omitempty" msgpack:"required,omitempty"`
	DefaultValue   *string  `json:"defaultValue,omitempty" msgpack:"defaultValue,omitempty"`
	Value          *string  `json:"value,omitempty" msgpack:"value,omitempty"`
	Enum           []string `json:"enum,omitempty" msgpack:"enum,omitempty"`
	Prefix         string   `json:"prefix,omitempty" msgpack:"prefix,omitempty"`
	OptionalPrefix string   `json:"optionalPrefix,omitempty" msgpack:"optionalPrefix,omitempty"`
	MultiValue     bool     `json:"multiValue,omitempty" msgpack:"multiValue,omitempty"`
	Label          string   `json:"label,omitempty" msgpack:"label,omitempty"`
	Group          string   `json:"group,omitempty" msgpack:"group,omitempty"`
	Deprecated     bool     `json:"deprecated,omitempty" msgpack:"deprecated,omitempty"`
	Secret         bool     `json:"secret,omitempty" msgpack:"secret,omitempty"`
	Description    string   `json:"description,omitempty" msgpack:"description,omitempty"`
}

// Default returns the declared default value.
func (o *Option) Default() (string, bool) {
	if o.DefaultValue == nil {
		return "", false
	}
	return *o.DefaultValue, true
}

func (o *Option) IsPath() bool      { return o.Kind == KindPath }
func (o *Option) IsParameter() bool { return o.Kind == KindParameter }

// IsMultiValue reports whether the option groups several prefixed keys.
// A prefix implies multi-value.
func (o *Option) IsMultiValue() bool { return o.MultiValue || o.Prefix != "" }

// ConsumerOnly reports whether the option applies to consumers only.
func (o *Option) ConsumerOnly() bool { return strings.Contains(o.Label, "consumer") }

// ProducerOnly reports whether the option applies to producers only.
func (o *Option) ProducerOnly() bool { return strings.Contains(o.Label, "producer") }

// ValueKind resolves the option type to its checker.
func (o *Option) ValueKind() ValueKind { return registry.Get(o.Type) }

// Choice returns the declared enum value matching v case-insensitively.
func (o *Option) Choice(v string) (string, bool) {
	for _, e := range o.Enum {
		if strings.EqualFold(e, v) {
			return e, true
		}
	}
	return "", false
}

// scalar keeps the literal text of any YAML/JSON scalar, so defaults such as
// 1000 or true survive as the strings "1000" and "true".
type scalar struct {
	set   bool
	value string
}

func (s *scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return nil
	}
	s.set = true
	s.value = n.Value
	return nil
}

func (s scalar) ptr() *string {
	if !s.set {
		return nil
	}
	v := s.value
	return &v
}

func (s scalar) bool() bool { return s.set && strings.EqualFold(strings.TrimSpace(s.value), "true") }

// stringList accepts either a sequence or a comma separated string.
type stringList []string

func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.SequenceNode:
		out := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			out = append(out, c.Value)
		}
		*l = out
	case yaml.ScalarNode:
		if n.Tag == "!!null" || n.Value == "" {
			return nil
		}
		var out []string
		for _, s := range strings.Split(n.Value, ",") {
			out = append(out, strings.TrimSpace(s))
		}
		*l = out
	}
	return nil
}

type optionSpec struct {
	Kind           string     `yaml:"kind" json:"kind"`
	Type           string     `yaml:"type" json:"type"`
	JavaType       string     `yaml:"javaType" json:"javaType"`
	Required       scalar     `yaml:"required" json:"required"`
	DefaultValue   scalar     `yaml:"defaultValue" json:"defaultValue"`
	Value          scalar     `yaml:"value" json:"value"`
	Enum           stringList `yaml:"enum" json:"enum"`
	Prefix         string     `yaml:"prefix" json:"prefix"`
	OptionalPrefix string     `yaml:"optionalPrefix" json:"optionalPrefix"`
	MultiValue     scalar     `yaml:"multiValue" json:"multiValue"`
	Label          string     `yaml:"label" json:"label"`
	Group          string     `yaml:"group" json:"group"`
	Deprecated     scalar     `yaml:"deprecated" json:"deprecated"`
	Secret         scalar     `yaml:"secret" json:"secret"`
	Description    string     `yaml:"description" json:"description"`
}

func newOption(name, defaultKind string, spec optionSpec) *Option {
	o := &Option{
		Name:           name,
		Kind:           spec.Kind,
		Type:           spec.Type,
		JavaType:       spec.JavaType,
		Required:       spec.Required.bool(),
		DefaultValue:   spec.DefaultValue.ptr(),
		Value:          spec.Value.ptr(),
		Enum:           spec.Enum,
		Prefix:         spec.Prefix,
		OptionalPrefix: spec.OptionalPrefix,
		MultiValue:     spec.MultiValue.bool(),
		Label:          spec.Label,
		Group:          spec.Group,
		Deprecated:     spec.Deprecated.bool(),
		Secret:         spec.Secret.bool(),
		Description:    spec.Description,
	}
	if o.Kind == "" {
		o.Kind = defaultKind
	}
	if o.Type == "" {
		o.Type = kindForJavaType(o.JavaType)
	}
	if o.Type == "" {
		o.Type = "string"
	}
	if o.Prefix != "" {
		o.MultiValue = true
	}
	return o
}
