package catalog

import (
	"errors"
	"sort"
	"strings"
)

// ValidateOption tunes ValidateEndpointProperties.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	ignoreLenient bool
	consumerOnly  bool
	producerOnly  bool
}

// IgnoreLenient reports undeclared options as unknown even for lenient
// components.
func IgnoreLenient() ValidateOption { return func(v *validateConfig) { v.ignoreLenient = true } }

// ConsumerOnly flags producer-only parameters.
func ConsumerOnly() ValidateOption { return func(v *validateConfig) { v.consumerOnly = true } }

// ProducerOnly flags consumer-only parameters.
func ProducerOnly() ValidateOption { return func(v *validateConfig) { v.producerOnly = true } }

// ValidateEndpointProperties parses uri and validates its options. It never
// fails; structural problems are reported as a single defect.
func (c *Catalog) ValidateEndpointProperties(uri string, opts ...ValidateOption) *ValidationResult {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	r := newResult(uri)
	defer c.metrics.validated(r)

	u, err := parseEndpointURI(uri)
	if err != nil {
		switch {
		case errors.Is(err, ErrIncapable):
			r.add(Defect{Kind: DefectIncapable, Value: uri})
		case errors.Is(err, ErrUnknownComponent):
			r.add(Defect{Kind: DefectUnknownComponent, Name: uri})
		default:
			r.add(Defect{Kind: DefectSyntaxError, Value: err.Error()})
		}
		return r
	}
	m, err := c.ComponentModel(u.scheme)
	if err != nil {
		if errors.Is(err, ErrSchemaNotFound) {
			r.add(Defect{Kind: DefectUnknownComponent, Name: u.scheme})
		} else {
			r.add(Defect{Kind: DefectIncapable, Value: err.Error()})
		}
		return r
	}
	props, err := c.endpointProperties(u, m)
	if err != nil {
		if errors.Is(err, ErrSyntax) {
			r.add(Defect{Kind: DefectSyntaxError, Value: err.Error()})
		} else {
			r.add(Defect{Kind: DefectIncapable, Value: err.Error()})
		}
		return r
	}

	lenient := m.LenientProperties && !cfg.ignoreLenient
	if m.SupportsConsumerAndProducer() && cfg.consumerOnly {
		// consumers of dual components take no extra options
		lenient = false
	}
	c.validate(r, m, props, lenient, cfg.consumerOnly, cfg.producerOnly)
	return r
}

// ValidateProperties validates an option map of scheme. Lenient checking
// follows the component unless the map carries a "lenient" entry that the
// component does not declare.
func (c *Catalog) ValidateProperties(scheme string, props map[string]string) *ValidationResult {
	r := newResult(scheme)
	defer c.metrics.validated(r)

	m, err := c.ComponentModel(scheme)
	if err != nil {
		if errors.Is(err, ErrSchemaNotFound) {
			r.add(Defect{Kind: DefectUnknownComponent, Name: scheme})
		} else {
			r.add(Defect{Kind: DefectIncapable, Value: err.Error()})
		}
		return r
	}
	lenient := m.LenientProperties
	keys := make([]string, 0, len(props))
	for k := range props {
		if k == "lenient" && m.Option(k) == nil {
			lenient = strings.EqualFold(props[k], "true")
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := NewProperties()
	for _, k := range keys {
		ordered.Set(k, props[k])
	}
	c.validate(r, m, ordered, lenient, false, false)
	return r
}

func (c *Catalog) validate(r *ValidationResult, m *Model, props *Properties, lenient, consumerOnly, producerOnly bool) {
	set := m.options()
	if m.Scheme == "dataformat" {
		if name := props.Value("name"); name != "" {
			if df, err := c.DataFormatModel(name); err == nil {
				set = set.with(df.Options)
			}
		}
	}

	for _, key := range props.Keys() {
		value := props.Value(key)
		name := set.stripOptionalPrefix(key)
		if o := set.byPrefix(name); o != nil {
			name = o.Name
		}
		o := set.get(name)
		if o == nil {
			if isPlaceholderName(name) || m.Scheme == "stub" {
				continue
			}
			if lenient {
				r.add(Defect{Kind: DefectLenient, Name: name})
			} else {
				r.add(Defect{Kind: DefectUnknown, Name: name, Suggestions: c.suggest(set.names(), name)})
			}
			continue
		}
		c.checkOption(r, o, key, value, consumerOnly, producerOnly)
	}

	for _, o := range set.rows {
		if !o.Required {
			continue
		}
		v := props.Value(o.Name)
		if v == "" {
			v, _ = o.Default()
		}
		if v == "" {
			r.add(Defect{Kind: DefectRequired, Name: o.Name})
		}
	}
}

// checkOption applies the per option rules. Every rule is independent.
func (c *Catalog) checkOption(r *ValidationResult, o *Option, key, value string, consumerOnly, producerOnly bool) {
	name := o.Name
	if o.IsParameter() {
		switch {
		case consumerOnly && o.ProducerOnly():
			r.add(Defect{Kind: DefectNotConsumerOnly, Name: name})
		case producerOnly && o.ConsumerOnly():
			r.add(Defect{Kind: DefectNotProducerOnly, Name: name})
		}
	}

	placeholder := isPlaceholderValue(value)
	lookup := isReference(value)
	multi := o.Prefix != "" && (strings.HasPrefix(key, o.Prefix) || strings.HasPrefix(value, o.Prefix))
	strict := !multi && !placeholder && !lookup

	if def, ok := o.Default(); ok {
		r.add(Defect{Kind: DefectDefaultValue, Name: name, Value: def})
	}
	if o.Required && value == "" {
		r.add(Defect{Kind: DefectRequired, Name: name})
	}
	if o.Deprecated {
		r.add(Defect{Kind: DefectDeprecated, Name: name})
	}
	if strict && len(o.Enum) > 0 {
		if _, ok := o.Choice(value); !ok {
			r.add(Defect{
				Kind:        DefectInvalidEnum,
				Name:        name,
				Value:       value,
				Choices:     append([]string(nil), o.Enum...),
				Suggestions: c.suggest(o.Enum, value),
			})
		}
	}

	kind := o.ValueKind()
	if _, ok := kind.(*ObjectKind); ok {
		// references are checked even for placeholders
		if !multi && len(o.Enum) == 0 && !o.IsPath() && !kind.Validate(value) {
			r.add(Defect{Kind: DefectInvalidReference, Name: name, Value: value})
		}
		return
	}
	if strict && kind.Defect() != DefectNone && !kind.Validate(value) {
		r.add(Defect{Kind: kind.Defect(), Name: name, Value: value})
	}
}

func (c *Catalog) suggest(candidates []string, unknown string) []string {
	if c.suggester == nil {
		return nil
	}
	return c.suggester.Suggest(candidates, unknown)
}

// isPlaceholderValue matches values resolved later, like {{port}} or
// ${env:PORT}.
func isPlaceholderValue(v string) bool {
	return strings.HasPrefix(v, "{{") || strings.HasPrefix(v, "${") || strings.HasPrefix(v, "$simple{")
}

func isPlaceholderName(name string) bool {
	return strings.HasPrefix(name, "{{") && strings.HasSuffix(name, "}}")
}

// isReference matches a bean lookup such as #myBean.
func isReference(v string) bool { return strings.HasPrefix(v, "#") && len(v) > 1 }
