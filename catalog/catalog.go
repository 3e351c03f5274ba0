package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"
)

// Catalog parses, builds and validates endpoint URIs using schema models
// fetched from a SchemaResolver. Models are cached per namespace and name.
// A Catalog is safe for concurrent use.
type Catalog struct {
	resolver        SchemaResolver
	suggester       SuggestionStrategy
	expressions     ExpressionValidator
	logger          *slog.Logger
	metrics         *Metrics
	filters         map[string]PropertyFilter
	tokenExceptions map[string][]string
	strict          bool

	cache sync.Map // modelKey -> *Model
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithSuggestionStrategy sets the did-you-mean lookup. Nil disables
// suggestions.
func WithSuggestionStrategy(s SuggestionStrategy) CatalogOption {
	return func(c *Catalog) { c.suggester = s }
}

func WithExpressionValidator(v ExpressionValidator) CatalogOption {
	return func(c *Catalog) {
		if v != nil {
			c.expressions = v
		}
	}
}

func WithLogger(l *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithMetrics(m *Metrics) CatalogOption {
	return func(c *Catalog) { c.metrics = m }
}

// WithPropertyFilter installs a filter applied before building URIs for
// scheme, replacing any previous one.
func WithPropertyFilter(scheme string, f PropertyFilter) CatalogOption {
	return func(c *Catalog) {
		if f == nil {
			delete(c.filters, scheme)
			return
		}
		c.filters[scheme] = f
	}
}

// WithTokenException registers a path prefix for scheme that may contain
// syntax separators, such as "temp:" in "jms:temp:queue:foo".
func WithTokenException(scheme, prefix string) CatalogOption {
	return func(c *Catalog) { c.tokenExceptions[scheme] = append(c.tokenExceptions[scheme], prefix) }
}

// WithStrictSchemas validates every schema document against the document
// meta schema before parsing it.
func WithStrictSchemas() CatalogOption {
	return func(c *Catalog) { c.strict = true }
}

func New(resolver SchemaResolver, opts ...CatalogOption) *Catalog {
	c := &Catalog{
		resolver:    resolver,
		suggester:   LevenshteinSuggester{},
		expressions: NoopExpressionValidator{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		filters: map[string]PropertyFilter{
			"log": filterShowAll,
		},
		tokenExceptions: map[string][]string{
			"activemq": {"temp:"},
			"jms":      {"temp:"},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns a shared catalog reading schemas from the directory in
// CATALOG_SCHEMA_PATH, or "schema".
func Default() *Catalog {
	defaultOnce.Do(func() {
		path := os.Getenv("CATALOG_SCHEMA_PATH")
		if path == "" {
			path = "schema"
		}
		defaultCatalog = New(NewDirResolver(path))
	})
	return defaultCatalog
}

// Logger returns the configured logger.
func (c *Catalog) Logger() *slog.Logger { return c.logger }

func (c *Catalog) model(ns Namespace, name string) (*Model, error) {
	k := modelKey{ns: ns, name: name}
	if v, ok := c.cache.Load(k); ok {
		c.metrics.cacheHit(ns)
		return v.(*Model), nil
	}
	c.metrics.cacheMiss(ns)

	data, err := c.resolver.Schema(ns, name)
	if err != nil {
		c.logger.Debug("schema not resolved", "model", k.String(), "error", err)
		return nil, err
	}
	if c.strict {
		if err := ValidateSchemaDocument(ns, data); err != nil {
			c.logger.Debug("schema rejected", "model", k.String(), "error", err)
			c.metrics.loadFailed(ns)
			return nil, err
		}
	}
	m, err := ParseModel(ns, name, data)
	if err != nil {
		c.metrics.loadFailed(ns)
		return nil, err
	}
	v, loaded := c.cache.LoadOrStore(k, m)
	if !loaded {
		c.metrics.modelLoaded(ns)
		c.logger.Debug("model loaded", "model", k.String(), "options", len(m.Rows()))
	}
	return v.(*Model), nil
}

// ComponentModel returns the model of the component with the given scheme.
func (c *Catalog) ComponentModel(scheme string) (*Model, error) {
	return c.model(NamespaceComponent, scheme)
}

func (c *Catalog) DataFormatModel(name string) (*Model, error) {
	return c.model(NamespaceDataFormat, name)
}

func (c *Catalog) LanguageModel(name string) (*Model, error) {
	return c.model(NamespaceLanguage, name)
}

// MainModel returns the main configuration model.
func (c *Catalog) MainModel() (*Model, error) {
	return c.model(NamespaceMain, "main")
}

// Model returns the model of any namespace.
func (c *Catalog) Model(ns Namespace, name string) (*Model, error) {
	return c.model(ns, name)
}

// Names lists the models a resolver can enumerate in ns, sorted.
func (c *Catalog) Names(ns Namespace) ([]string, error) {
	l, ok := c.resolver.(NameLister)
	if !ok {
		return nil, fmt.Errorf("resolver %T cannot list schemas", c.resolver)
	}
	names, err := l.Names(ns)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (c *Catalog) ComponentNames() ([]string, error) { return c.Names(NamespaceComponent) }

// Preload seeds the cache with already built models, such as the ones
// read from a snapshot. Existing entries are kept.
func (c *Catalog) Preload(models ...*Model) {
	for _, m := range models {
		if m.set == nil {
			m.init()
		}
		if _, loaded := c.cache.LoadOrStore(m.key(), m); !loaded {
			c.metrics.modelLoaded(m.Namespace)
		}
	}
}

// CachedModels returns the cached models ordered by namespace and name.
func (c *Catalog) CachedModels() []*Model {
	var out []*Model
	c.cache.Range(func(_, v any) bool {
		out = append(out, v.(*Model))
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ClearCache drops every cached model.
func (c *Catalog) ClearCache() {
	c.cache.Range(func(k, _ any) bool {
		c.cache.Delete(k)
		return true
	})
}

// componentFor resolves the component of an endpoint URI.
func (c *Catalog) componentFor(scheme string) (*Model, error) {
	m, err := c.ComponentModel(scheme)
	if errors.Is(err, ErrSchemaNotFound) {
		return nil, fmt.Errorf("%w %s", ErrUnknownComponent, scheme)
	}
	return m, err
}

// EndpointComponentName returns the scheme of uri, or "" when it has none.
func (c *Catalog) EndpointComponentName(uri string) string {
	for i := 0; i < len(uri); i++ {
		if uri[i] == ':' {
			if i > 0 {
				return uri[:i]
			}
			break
		}
	}
	return ""
}

func (c *Catalog) tokenSkip(scheme, path string) string {
	for _, p := range c.tokenExceptions[scheme] {
		if len(path) >= len(p) && path[:len(p)] == p {
			return p
		}
	}
	return ""
}
