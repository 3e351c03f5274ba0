package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pedrohavay/endpointcatalog/catalog"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Usage:
//   catalog parse 'ftp:someserver:21/foo?connectTimeout=5000'
//   catalog lenient 'http:myserver?foo=123'
//   catalog build -scheme ftp host=someserver port=21 directoryName=foo
//   catalog validate [-format jsonl|csv|text] [-consumer|-producer] < uris.txt
//   catalog config camel.component.seda.queueSize=1234
//   catalog language -lang simple '${body}'
//   catalog dump-model [-ns component] [name...]
//   catalog pack > models.msgpack
//   catalog time 5m15s

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]
	var err error
	switch cmd {
	case "parse":
		err = parse(os.Args[2:], false)
	case "lenient":
		err = parse(os.Args[2:], true)
	case "build":
		err = build(os.Args[2:])
	case "validate":
		err = validate(os.Args[2:])
	case "config":
		err = config(os.Args[2:])
	case "language":
		err = language(os.Args[2:])
	case "dump-model":
		err = dumpModel(os.Args[2:])
	case "pack":
		err = pack(os.Args[2:])
	case "time":
		err = timePattern(os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "catalog commands: parse | lenient | build | validate | config | language | dump-model | pack | time\n")
}

// common holds the flags every command shares.
type common struct {
	schemas  *string
	snapshot *string
	verbose  *bool
	metrics  *bool
}

func commonFlags(fs *flag.FlagSet) *common {
	return &common{
		schemas:  fs.String("schemas", envOr("CATALOG_SCHEMA_PATH", "schema"), "schema directory"),
		snapshot: fs.String("snapshot", "", "msgpack model snapshot to preload"),
		verbose:  fs.Bool("v", false, "debug logging"),
		metrics:  fs.Bool("metrics", false, "print metrics to stderr on exit"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// open builds the catalog. The returned func flushes metrics when enabled.
func (c *common) open(opts ...catalog.CatalogOption) (*catalog.Catalog, func(), error) {
	level := slog.LevelWarn
	if *c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	opts = append(opts, catalog.WithLogger(logger))

	done := func() {}
	if *c.metrics {
		reg := prometheus.NewRegistry()
		m, err := catalog.NewMetrics(reg)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, catalog.WithMetrics(m))
		done = func() { writeMetrics(reg, logger) }
	}

	cat := catalog.New(catalog.NewDirResolver(*c.schemas), opts...)
	if *c.snapshot != "" {
		f, err := os.Open(*c.snapshot)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		n, err := cat.PreloadMsgpack(bufio.NewReader(f))
		if err != nil {
			return nil, nil, fmt.Errorf("snapshot %s: %w", *c.snapshot, err)
		}
		logger.Debug("snapshot loaded", "path", *c.snapshot, "models", n)
	}
	return cat, done, nil
}

func writeMetrics(g prometheus.Gatherer, logger *slog.Logger) {
	families, err := g.Gather()
	if err != nil {
		logger.Error("gather metrics", "error", err)
		return
	}
	enc := expfmt.NewEncoder(os.Stderr, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			logger.Error("encode metrics", "error", err)
			return
		}
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func parse(args []string, lenient bool) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	cf := commonFlags(fs)
	_ = fs.Parse(args)
	cat, done, err := cf.open()
	if err != nil {
		return err
	}
	defer done()

	for _, uri := range fs.Args() {
		var p *catalog.Properties
		if lenient {
			p, err = cat.EndpointLenientProperties(uri)
		} else {
			p, err = cat.EndpointProperties(uri)
		}
		if err != nil {
			return err
		}
		if err := writeJSON(p); err != nil {
			return err
		}
	}
	return nil
}

func build(args []string) error {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	cf := commonFlags(fs)
	scheme := fs.String("scheme", "", "component scheme")
	raw := fs.Bool("raw", false, "do not encode query values")
	xml := fs.Bool("xml", false, "escape & as &amp;")
	jsonDoc := fs.String("json", "", "JSON document with a properties object, '-' for stdin")
	_ = fs.Parse(args)
	if *scheme == "" {
		return fmt.Errorf("-scheme is required")
	}
	cat, done, err := cf.open()
	if err != nil {
		return err
	}
	defer done()

	var uri string
	if *jsonDoc != "" {
		doc := *jsonDoc
		if doc == "-" {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			doc = string(b)
		}
		if *xml {
			uri, err = cat.AsEndpointURIXMLFromJSON(*scheme, doc, !*raw)
		} else {
			uri, err = cat.AsEndpointURIFromJSON(*scheme, doc, !*raw)
		}
	} else {
		props := map[string]string{}
		for _, kv := range fs.Args() {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("expected key=value, got %q", kv)
			}
			props[k] = v
		}
		if *xml {
			uri, err = cat.AsEndpointURIXML(*scheme, props, !*raw)
		} else {
			uri, err = cat.AsEndpointURI(*scheme, props, !*raw)
		}
	}
	if err != nil {
		return err
	}
	fmt.Println(uri)
	return nil
}

func validate(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cf := commonFlags(fs)
	format := fs.String("format", "jsonl", "output format: jsonl, csv or text")
	consumer := fs.Bool("consumer", false, "validate as a consumer only endpoint")
	producer := fs.Bool("producer", false, "validate as a producer only endpoint")
	strict := fs.Bool("strict", false, "report lenient options as unknown")
	_ = fs.Parse(args)
	cat, done, err := cf.open()
	if err != nil {
		return err
	}
	defer done()

	var opts []catalog.ValidateOption
	if *consumer {
		opts = append(opts, catalog.ConsumerOnly())
	}
	if *producer {
		opts = append(opts, catalog.ProducerOnly())
	}
	if *strict {
		opts = append(opts, catalog.IgnoreLenient())
	}

	var results []*catalog.ValidationResult
	check := func(uri string) error {
		results = append(results, cat.ValidateEndpointProperties(uri, opts...))
		return nil
	}
	if fs.NArg() > 0 {
		for _, uri := range fs.Args() {
			_ = check(uri)
		}
	} else if err := catalog.ReadEndpointURIs(os.Stdin, check); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.IsSuccess() {
			failed++
		}
	}
	cat.Logger().Info("validated", "uris", len(results), "failed", failed)

	bw := bufio.NewWriter(os.Stdout)
	defer bw.Flush()
	switch *format {
	case "jsonl":
		err = catalog.WriteResultsJSONL(bw, results)
	case "csv":
		err = catalog.WriteResultsCSV(bw, results)
	case "text":
		for _, r := range results {
			if r.IsSuccess() {
				fmt.Fprintf(bw, "%s\tOK\n", r.URI)
				continue
			}
			fmt.Fprintln(bw, r.Summary(true))
		}
	default:
		return fmt.Errorf("unknown format: %s", *format)
	}
	if err != nil {
		return err
	}
	if failed > 0 {
		bw.Flush()
		done()
		os.Exit(1)
	}
	return nil
}

func config(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	cf := commonFlags(fs)
	_ = fs.Parse(args)
	cat, done, err := cf.open()
	if err != nil {
		return err
	}
	defer done()

	lines := fs.Args()
	if len(lines) == 0 {
		_ = catalog.ReadEndpointURIs(os.Stdin, func(line string) error {
			lines = append(lines, line)
			return nil
		})
	}
	for _, line := range lines {
		if err := writeJSON(cat.ValidateConfigurationProperty(line)); err != nil {
			return err
		}
	}
	return nil
}

func language(args []string) error {
	fs := flag.NewFlagSet("language", flag.ExitOnError)
	cf := commonFlags(fs)
	lang := fs.String("lang", "simple", "language name")
	predicate := fs.Bool("predicate", false, "check as a predicate")
	_ = fs.Parse(args)
	cat, done, err := cf.open(catalog.WithExpressionValidator(catalog.BalancedExpressionValidator{}))
	if err != nil {
		return err
	}
	defer done()

	text := strings.Join(fs.Args(), " ")
	var r *catalog.LanguageValidationResult
	if *predicate {
		r = cat.ValidateLanguagePredicate(*lang, text)
	} else {
		r = cat.ValidateLanguageExpression(*lang, text)
	}
	return writeJSON(r)
}

func dumpModel(args []string) error {
	fs := flag.NewFlagSet("dump-model", flag.ExitOnError)
	cf := commonFlags(fs)
	nsName := fs.String("ns", "component", "namespace: component, dataformat, language or main")
	_ = fs.Parse(args)
	ns, err := catalog.ParseNamespace(*nsName)
	if err != nil {
		return err
	}
	cat, done, err := cf.open()
	if err != nil {
		return err
	}
	defer done()

	names := fs.Args()
	if len(names) == 0 {
		if names, err = cat.Names(ns); err != nil {
			return err
		}
	}
	out := map[string]*catalog.Model{}
	for _, name := range names {
		m, err := cat.Model(ns, name)
		if err != nil {
			return err
		}
		out[name] = m
	}
	return writeJSON(out)
}

// pack writes a msgpack snapshot of every model in the schema directory.
func pack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	cf := commonFlags(fs)
	_ = fs.Parse(args)
	cat, done, err := cf.open(catalog.WithStrictSchemas())
	if err != nil {
		return err
	}
	defer done()

	for _, ns := range []catalog.Namespace{catalog.NamespaceComponent, catalog.NamespaceDataFormat, catalog.NamespaceLanguage, catalog.NamespaceMain} {
		names, err := cat.Names(ns)
		if err != nil {
			return err
		}
		for _, name := range names {
			if _, err := cat.Model(ns, name); err != nil {
				return err
			}
		}
	}
	models := cat.CachedModels()
	bw := bufio.NewWriter(os.Stdout)
	if err := catalog.WriteModelsMsgpack(bw, models); err != nil {
		return err
	}
	cat.Logger().Info("snapshot written", "models", len(models))
	return bw.Flush()
}

func timePattern(args []string) error {
	for _, p := range args {
		d, err := catalog.ParseTimePattern(p)
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%d\n", p, d.Milliseconds())
	}
	return nil
}
