package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"
)

// SchemaResolver fetches the raw schema document of a model. It returns an
// error wrapping ErrSchemaNotFound when the model does not exist.
type SchemaResolver interface {
	Schema(ns Namespace, name string) ([]byte, error)
}

// NameLister is implemented by resolvers that can enumerate their models.
type NameLister interface {
	Names(ns Namespace) ([]string, error)
}

var schemaExtensions = []string{".json", ".yaml", ".yml"}

// DirResolver reads <root>/<namespace>/<name>.json, .yaml or .yml.
type DirResolver struct {
	fsys fs.FS
}

func NewDirResolver(root string) *DirResolver {
	return &DirResolver{fsys: os.DirFS(root)}
}

// NewFSResolver reads schemas from any file system, such as an embed.FS.
func NewFSResolver(fsys fs.FS) *DirResolver {
	return &DirResolver{fsys: fsys}
}

func (r *DirResolver) Schema(ns Namespace, name string) ([]byte, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %s:%s", ErrSchemaNotFound, ns, name)
	}
	for _, ext := range schemaExtensions {
		raw, err := fs.ReadFile(r.fsys, path.Join(string(ns), name+ext))
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s:%s", ErrSchemaNotFound, ns, name)
}

// Names walks the namespace directory and returns every schema name.
func (r *DirResolver) Names(ns Namespace) ([]string, error) {
	seen := map[string]bool{}
	var names []string
	walk := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != string(ns) {
				return fs.SkipDir
			}
			return nil
		}
		for _, ext := range schemaExtensions {
			if strings.HasSuffix(d.Name(), ext) {
				n := strings.TrimSuffix(d.Name(), ext)
				if !seen[n] {
					seen[n] = true
					names = append(names, n)
				}
				break
			}
		}
		return nil
	}
	if err := fs.WalkDir(r.fsys, string(ns), walk); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return names, nil
}

// MapResolver serves schema documents held in memory.
type MapResolver struct {
	mu      sync.RWMutex
	schemas map[modelKey][]byte
}

func NewMapResolver() *MapResolver {
	return &MapResolver{schemas: map[modelKey][]byte{}}
}

// Add registers a document, replacing any previous one.
func (r *MapResolver) Add(ns Namespace, name string, doc []byte) *MapResolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[modelKey{ns: ns, name: name}] = doc
	return r
}

func (r *MapResolver) Schema(ns Namespace, name string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.schemas[modelKey{ns: ns, name: name}]
	if !ok {
		return nil, fmt.Errorf("%w: %s:%s", ErrSchemaNotFound, ns, name)
	}
	return doc, nil
}

func (r *MapResolver) Names(ns Namespace) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for k := range r.schemas {
		if k.ns == ns {
			out = append(out, k.name)
		}
	}
	return out, nil
}
