package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
)

// DefectKind classifies a problem found while validating an endpoint.
type DefectKind int

const (
	DefectNone DefectKind = iota
	DefectUnknown
	DefectLenient
	DefectRequired
	DefectInvalidEnum
	DefectInvalidReference
	DefectInvalidBoolean
	DefectInvalidInteger
	DefectInvalidNumber
	DefectInvalidMap
	DefectInvalidArray
	DefectNotConsumerOnly
	DefectNotProducerOnly
	DefectDefaultValue
	DefectDeprecated
	DefectSyntaxError
	DefectIncapable
	DefectUnknownComponent
)

var defectNames = [...]string{
	DefectNone:             "none",
	DefectUnknown:          "unknown",
	DefectLenient:          "lenient",
	DefectRequired:         "required",
	DefectInvalidEnum:      "invalidEnum",
	DefectInvalidReference: "invalidReference",
	DefectInvalidBoolean:   "invalidBoolean",
	DefectInvalidInteger:   "invalidInteger",
	DefectInvalidNumber:    "invalidNumber",
	DefectInvalidMap:       "invalidMap",
	DefectInvalidArray:     "invalidArray",
	DefectNotConsumerOnly:  "notConsumerOnly",
	DefectNotProducerOnly:  "notProducerOnly",
	DefectDefaultValue:     "defaultValue",
	DefectDeprecated:       "deprecated",
	DefectSyntaxError:      "syntaxError",
	DefectIncapable:        "incapable",
	DefectUnknownComponent: "unknownComponent",
}

func (k DefectKind) String() string {
	if k >= 0 && int(k) < len(defectNames) {
		return defectNames[k]
	}
	return fmt.Sprintf("DefectKind(%d)", int(k))
}

func (k DefectKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *DefectKind) UnmarshalText(b []byte) error {
	for i, n := range defectNames {
		if n == string(b) {
			*k = DefectKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown defect kind: %q", b)
}

// IsError is false for informational kinds.
func (k DefectKind) IsError() bool {
	switch k {
	case DefectNone, DefectLenient, DefectDefaultValue, DefectDeprecated:
		return false
	}
	return true
}

// Defect is one finding. Which fields are set depends on Kind: enum
// defects carry Choices, unknown names and enum values may carry
// Suggestions.
type Defect struct {
	Kind        DefectKind `json:"kind"`
	Name        string     `json:"name,omitempty"`
	Value       string     `json:"value,omitempty"`
	Choices     []string   `json:"choices,omitempty"`
	Suggestions []string   `json:"suggestions,omitempty"`
}

func (d Defect) message() string {
	switch d.Kind {
	case DefectUnknown:
		if len(d.Suggestions) > 0 {
			return "Unknown option. Did you mean: " + strings.Join(d.Suggestions, ", ")
		}
		return "Unknown option"
	case DefectLenient:
		return "Lenient option accepted"
	case DefectRequired:
		return "Missing required option"
	case DefectInvalidEnum:
		msg := fmt.Sprintf("Invalid enum value: %s. Possible values: %s", d.Value, strings.Join(d.Choices, ", "))
		if len(d.Suggestions) > 0 {
			msg += ". Did you mean: " + strings.Join(d.Suggestions, ", ")
		}
		return msg
	case DefectInvalidReference:
		if strings.HasPrefix(d.Value, "#") {
			return "Invalid reference value: " + d.Value + " must not be empty"
		}
		return "Invalid reference value: " + d.Value + " must start with #"
	case DefectInvalidBoolean:
		return "Invalid boolean value: " + d.Value
	case DefectInvalidInteger:
		return "Invalid integer value: " + d.Value
	case DefectInvalidNumber:
		return "Invalid number value: " + d.Value
	case DefectInvalidMap:
		return "Invalid map key syntax: " + d.Value
	case DefectInvalidArray:
		return "Invalid array index syntax: " + d.Value
	case DefectNotConsumerOnly:
		return "Option not applicable in consumer only mode"
	case DefectNotProducerOnly:
		return "Option not applicable in producer only mode"
	case DefectDefaultValue:
		return "Default value: " + d.Value
	case DefectDeprecated:
		return "Option is deprecated"
	case DefectSyntaxError:
		return "Syntax error: " + d.Value
	case DefectIncapable:
		return "Incapable of parsing uri: " + d.Value
	case DefectUnknownComponent:
		return "Unknown component: " + d.Name
	}
	return d.Kind.String()
}

// ValidationResult collects every defect of one endpoint.
type ValidationResult struct {
	URI     string   `json:"uri"`
	Defects []Defect `json:"defects,omitempty"`
}

func newResult(uri string) *ValidationResult { return &ValidationResult{URI: uri} }

// add records d unless an equal kind/name/value defect exists.
func (r *ValidationResult) add(d Defect) {
	for i, e := range r.Defects {
		if e.Kind == d.Kind && e.Name == d.Name && e.Value == d.Value {
			if len(d.Suggestions) > 0 {
				r.Defects[i].Suggestions = d.Suggestions
			}
			return
		}
	}
	r.Defects = append(r.Defects, d)
}

// IsSuccess is true when no error-class defect was recorded.
func (r *ValidationResult) IsSuccess() bool { return r.NumberOfErrors() == 0 }

func (r *ValidationResult) NumberOfErrors() int {
	n := 0
	for _, d := range r.Defects {
		if d.Kind.IsError() {
			n++
		}
	}
	return n
}

// Of returns the defects of the given kind in recording order.
func (r *ValidationResult) Of(kind DefectKind) []Defect {
	var out []Defect
	for _, d := range r.Defects {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func (r *ValidationResult) Has(kind DefectKind) bool { return len(r.Of(kind)) > 0 }

func (r *ValidationResult) names(kind DefectKind) []string {
	var out []string
	for _, d := range r.Of(kind) {
		out = append(out, d.Name)
	}
	return out
}

func (r *ValidationResult) values(kind DefectKind) map[string]string {
	out := map[string]string{}
	for _, d := range r.Of(kind) {
		out[d.Name] = d.Value
	}
	return out
}

func (r *ValidationResult) Unknown() []string  { return r.names(DefectUnknown) }
func (r *ValidationResult) Lenient() []string  { return r.names(DefectLenient) }
func (r *ValidationResult) Required() []string { return r.names(DefectRequired) }

// InvalidEnum maps option name to the rejected value.
func (r *ValidationResult) InvalidEnum() map[string]string   { return r.values(DefectInvalidEnum) }
func (r *ValidationResult) DefaultValues() map[string]string { return r.values(DefectDefaultValue) }

// MarshalJSON adds the success flag and error count.
func (r *ValidationResult) MarshalJSON() ([]byte, error) {
	type plain ValidationResult
	return json.Marshal(struct {
		*plain
		Success bool `json:"success"`
		Errors  int  `json:"errors"`
	}{(*plain)(r), r.IsSuccess(), r.NumberOfErrors()})
}

// Summary renders the error defects as an aligned report. Informational
// defects are left out. It returns "" for a successful result.
func (r *ValidationResult) Summary(includeHeader bool) string {
	if r.IsSuccess() {
		return ""
	}
	var errs []Defect
	for _, d := range r.Defects {
		if d.Kind.IsError() {
			errs = append(errs, d)
		}
	}
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Name < errs[j].Name })

	var b strings.Builder
	if includeHeader {
		b.WriteString(r.URI)
		b.WriteString("\n\n")
	}
	tw := tabwriter.NewWriter(&b, 0, 4, 4, ' ', tabwriter.AlignRight)
	for _, d := range errs {
		name := d.Name
		if name == "" {
			name = d.Kind.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", name, d.message())
	}
	_ = tw.Flush()
	return b.String()
}
