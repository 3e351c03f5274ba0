package catalog

import (
	"strconv"
	"strings"
)

// ValueKind defines how values of a declared option type are checked.
// Implementations should be stateless and reusable.
type ValueKind interface {
	Name() string
	Label() string
	// Defect is recorded when Validate rejects a value. Kinds without a
	// strict check return DefectNone.
	Defect() DefectKind
	Validate(value string) bool
}

// BaseKind offers default implementations: every value is accepted.
type BaseKind struct {
	name   string
	label  string
	defect DefectKind
}

func (b BaseKind) Name() string           { return b.name }
func (b BaseKind) Label() string          { return b.label }
func (b BaseKind) Defect() DefectKind     { return b.defect }
func (b BaseKind) Validate(_ string) bool { return true }

// BooleanKind accepts true/false in any case.
type BooleanKind struct{ BaseKind }

func NewBooleanKind() *BooleanKind {
	return &BooleanKind{BaseKind{name: "boolean", label: "Boolean", defect: DefectInvalidBoolean}}
}
func (k *BooleanKind) Validate(value string) bool {
	return strings.EqualFold(value, "true") || strings.EqualFold(value, "false")
}

// IntegerKind accepts 32-bit integers and time patterns such as 5s or 4m30s.
type IntegerKind struct{ BaseKind }

func NewIntegerKind() *IntegerKind {
	return &IntegerKind{BaseKind{name: "integer", label: "Integer", defect: DefectInvalidInteger}}
}
func (k *IntegerKind) Validate(value string) bool { return validateInteger(value) }

// DurationKind is an integer number of milliseconds, or a time pattern.
type DurationKind struct{ BaseKind }

func NewDurationKind() *DurationKind {
	return &DurationKind{BaseKind{name: "duration", label: "Duration", defect: DefectInvalidInteger}}
}
func (k *DurationKind) Validate(value string) bool { return validateInteger(value) }

// NumberKind accepts floating point values. NaN is rejected.
type NumberKind struct{ BaseKind }

func NewNumberKind() *NumberKind {
	return &NumberKind{BaseKind{name: "number", label: "Number", defect: DefectInvalidNumber}}
}
func (k *NumberKind) Validate(value string) bool {
	s := strings.TrimSpace(value)
	// float literal suffixes
	if n := len(s); n > 1 && strings.ContainsRune("fFdD", rune(s[n-1])) {
		s = s[:n-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f == f
}

// ObjectKind values are bean references; see isReference.
type ObjectKind struct{ BaseKind }

func NewObjectKind() *ObjectKind {
	return &ObjectKind{BaseKind{name: "object", label: "Object", defect: DefectInvalidReference}}
}
func (k *ObjectKind) Validate(value string) bool { return isReference(value) }

func NewStringKind() *BaseKind { return &BaseKind{name: "string", label: "String"} }
func NewEnumKind() *BaseKind   { return &BaseKind{name: "enum", label: "Enum"} }
func NewArrayKind() *BaseKind  { return &BaseKind{name: "array", label: "Array"} }
func NewOtherKind() *BaseKind  { return &BaseKind{name: "other", label: "Other"} }

// Registry holds known value kinds.
type Registry struct {
	Boolean  *BooleanKind
	Integer  *IntegerKind
	Duration *DurationKind
	Number   *NumberKind
	Object   *ObjectKind
	String   *BaseKind
	Enum     *BaseKind
	Array    *BaseKind
	Other    *BaseKind

	kinds map[string]ValueKind
}

func NewRegistry() *Registry {
	r := &Registry{
		Boolean:  NewBooleanKind(),
		Integer:  NewIntegerKind(),
		Duration: NewDurationKind(),
		Number:   NewNumberKind(),
		Object:   NewObjectKind(),
		String:   NewStringKind(),
		Enum:     NewEnumKind(),
		Array:    NewArrayKind(),
		Other:    NewOtherKind(),
		kinds:    map[string]ValueKind{},
	}
	for _, k := range []ValueKind{r.Boolean, r.Integer, r.Duration, r.Number, r.Object, r.String, r.Enum, r.Array, r.Other} {
		r.kinds[k.Name()] = k
	}
	return r
}

// Get returns the kind by name, falling back to Other for unknown names.
func (r *Registry) Get(name string) ValueKind {
	if k, ok := r.kinds[name]; ok {
		return k
	}
	return r.Other
}

// kindForJavaType infers the type name for documents that only carry a
// javaType.
func kindForJavaType(javaType string) string {
	switch javaType {
	case "":
		return ""
	case "boolean", "java.lang.Boolean":
		return "boolean"
	case "int", "long", "short", "byte", "java.lang.Integer", "java.lang.Long", "java.lang.Short", "java.lang.Byte":
		return "integer"
	case "float", "double", "java.lang.Float", "java.lang.Double":
		return "number"
	case "java.lang.String", "char", "java.lang.Character":
		return "string"
	}
	if strings.HasSuffix(javaType, "[]") || strings.HasPrefix(javaType, "java.util.List") || strings.HasPrefix(javaType, "java.util.Set") {
		return "array"
	}
	return "object"
}

var registry = NewRegistry()
