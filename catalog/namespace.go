package catalog

import (
	"fmt"
	"strings"
)

// Namespace partitions schema documents by what they describe. Models with
// the same name in different namespaces never collide in the cache.
type Namespace string

const (
	NamespaceComponent  Namespace = "component"
	NamespaceDataFormat Namespace = "dataformat"
	NamespaceLanguage   Namespace = "language"
	NamespaceMain       Namespace = "main"
)

var namespaces = []Namespace{NamespaceComponent, NamespaceDataFormat, NamespaceLanguage, NamespaceMain}

// ParseNamespace accepts the namespace name in any case.
func ParseNamespace(s string) (Namespace, error) {
	for _, ns := range namespaces {
		if strings.EqualFold(s, string(ns)) {
			return ns, nil
		}
	}
	return "", fmt.Errorf("unknown namespace: %q", s)
}

func (ns Namespace) String() string { return string(ns) }

// headerKey is the top-level section of a schema document that describes
// the model itself.
func (ns Namespace) headerKey() string {
	if ns == NamespaceMain {
		return "main"
	}
	return string(ns)
}

type modelKey struct {
	ns   Namespace
	name string
}

func (k modelKey) String() string { return string(k.ns) + ":" + k.name }
