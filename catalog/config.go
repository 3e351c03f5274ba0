package catalog

import (
	"strings"
)

// ConfigurationResult is the outcome of validating one configuration
// property line. Lines outside the camel.* option families are not
// accepted and carry no defects.
type ConfigurationResult struct {
	Accepted bool              `json:"accepted"`
	Result   *ValidationResult `json:"result"`
}

func (r *ConfigurationResult) IsSuccess() bool { return r.Result.IsSuccess() }

var configNamespaces = []struct {
	prefix string
	ns     Namespace
}{
	{"component.", NamespaceComponent},
	{"dataformat.", NamespaceDataFormat},
	{"language.", NamespaceLanguage},
}

var mainPrefixes = []string{"main.", "hystrix.", "resilience4j.", "rest."}

// ValidateConfigurationProperty validates a line such as
// "camel.component.jms.acknowledgementModeName=AUTO_ACKNOWLEDGE". Option
// names match ignoring case and dashes; blanks around "=" are ignored. Map
// options need a key suffix (".key" or "[key]"), array options an index
// suffix ("[0]").
func (c *Catalog) ValidateConfigurationProperty(line string) *ConfigurationResult {
	longKey, value, hasValue := strings.Cut(line, "=")
	longKey, value = strings.TrimSpace(longKey), strings.TrimSpace(value)
	res := &ConfigurationResult{Result: newResult(line)}
	if !strings.HasPrefix(longKey, "camel.") {
		return res
	}
	key := longKey[len("camel."):]

	for _, cn := range configNamespaces {
		if !strings.HasPrefix(key, cn.prefix) {
			continue
		}
		res.Accepted = true
		name, option, ok := strings.Cut(key[len(cn.prefix):], ".")
		if !ok || !hasValue {
			return res
		}
		m, err := c.model(cn.ns, name)
		if err != nil {
			res.Result.add(Defect{Kind: DefectUnknownComponent, Name: name})
			return res
		}
		rows := m.Options
		if cn.ns == NamespaceComponent {
			rows = m.ComponentOptions
		}
		lookup, suffix := splitOptionSuffix(normalizeOptionName(option), 0)
		c.checkConfiguration(res.Result, rows, value, longKey, lookup, suffix)
		return res
	}

	for _, p := range mainPrefixes {
		if !strings.HasPrefix(key, p) {
			continue
		}
		res.Accepted = true
		if !hasValue {
			return res
		}
		m, err := c.MainModel()
		if err != nil {
			res.Result.add(Defect{Kind: DefectIncapable, Value: "main configuration model not available"})
			return res
		}
		// main options are declared with their full key
		n := normalizeOptionName(longKey)
		second := strings.IndexByte(n[len("camel."):], '.') + len("camel.") + 1
		lookup, suffix := splitOptionSuffix(n, second)
		c.checkConfiguration(res.Result, m.Options, value, longKey, lookup, suffix)
		return res
	}
	return res
}

func normalizeOptionName(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "-", ""))
}

// splitOptionSuffix cuts s at the first '.' or '[' found at or after from.
func splitOptionSuffix(s string, from int) (string, string) {
	if from > len(s) {
		return s, ""
	}
	i := strings.IndexAny(s[from:], ".[")
	if i < 0 || from+i == 0 {
		return s, ""
	}
	return s[:from+i], s[from+i:]
}

func (c *Catalog) checkConfiguration(r *ValidationResult, rows []*Option, value, longKey, lookup, suffix string) {
	var o *Option
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
		if o == nil && normalizeOptionName(row.Name) == lookup {
			o = row
		}
	}
	if o == nil {
		option := longKey
		if i := strings.LastIndexByte(longKey, '.'); i >= 0 {
			option = longKey[i+1:]
		}
		r.add(Defect{Kind: DefectUnknown, Name: longKey, Suggestions: c.suggest(names, option)})
		return
	}
	if isPlaceholderValue(value) || isReference(value) {
		return
	}
	if o.Deprecated {
		r.add(Defect{Kind: DefectDeprecated, Name: longKey})
	}
	if kind := o.ValueKind(); kind.Defect() != DefectNone {
		if _, ok := kind.(*ObjectKind); !ok && !kind.Validate(value) {
			r.add(Defect{Kind: kind.Defect(), Name: longKey, Value: value})
		}
	}
	if len(o.Enum) > 0 {
		if _, ok := o.Choice(value); !ok {
			r.add(Defect{
				Kind:        DefectInvalidEnum,
				Name:        longKey,
				Value:       value,
				Choices:     append([]string(nil), o.Enum...),
				Suggestions: c.suggest(o.Enum, value),
			})
		}
	}
	if strings.HasPrefix(o.JavaType, "java.util.Map") || strings.HasPrefix(o.JavaType, "java.util.Properties") {
		if suffix == "" || suffix == "." || (strings.HasPrefix(suffix, "[") && !strings.Contains(suffix, "]")) {
			r.add(Defect{Kind: DefectInvalidMap, Name: longKey, Value: value})
		}
	}
	if o.Type == "array" {
		if !strings.HasPrefix(suffix, "[") || !strings.Contains(suffix, "]") {
			r.add(Defect{Kind: DefectInvalidArray, Name: longKey, Value: value})
		} else {
			index, _, _ := strings.Cut(suffix[1:], "]")
			if !validateInteger(index) {
				r.add(Defect{Kind: DefectInvalidInteger, Name: longKey, Value: index})
			}
		}
	}
}
